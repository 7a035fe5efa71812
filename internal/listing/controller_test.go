package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"sync"
	"testing"

	"github.com/VoxDroid/taxis/internal/messages"
	"github.com/VoxDroid/taxis/internal/resource"
	"github.com/VoxDroid/taxis/internal/taxi"
)

type fakeSource struct {
	data  *resource.Collection
	items []taxi.Taxi
	err   *resource.ErrorList
	calls int
}

func newFakeSource(items []taxi.Taxi) *fakeSource {
	return &fakeSource{data: resource.NewCollection(), items: items}
}

func (f *fakeSource) Data() *resource.Collection { return f.data }

func (f *fakeSource) Query(_ context.Context, onSuccess func([]taxi.Taxi), onError func(*resource.ErrorList)) {
	f.calls++
	if f.err != nil {
		if onError != nil {
			onError(f.err)
		}
		return
	}
	f.data.Replace(f.items)
	if onSuccess != nil {
		onSuccess(f.data.Snapshot())
	}
}

func TestControllerLoadGroups(t *testing.T) {
	src := newFakeSource(scenarioA())
	c := New(src, messages.NewBag())
	defer c.Close()
	if len(c.TaxisList()) != 0 {
		t.Fatalf("expected empty list before load")
	}
	c.Load(context.Background())
	h := c.TaxisList()
	if !reflect.DeepEqual(regs(h["A"]), []string{"ABC123", "abz999"}) || !reflect.DeepEqual(regs(h["C"]), []string{"CAT001"}) {
		t.Fatalf("unexpected grouping %v", h)
	}
	c.Load(context.Background())
	if src.calls != 1 {
		t.Fatalf("Load should query once, queried %d times", src.calls)
	}
}

func TestControllerSearch(t *testing.T) {
	src := newFakeSource(scenarioA())
	c := New(src, nil)
	defer c.Close()
	c.Load(context.Background())

	c.SetSearch("cat")
	if c.Search() != "cat" {
		t.Fatalf("Search() = %q", c.Search())
	}
	h := c.TaxisList()
	if len(h) != 1 || !reflect.DeepEqual(regs(h["C"]), []string{"CAT001"}) {
		t.Fatalf("unexpected filtered grouping %v", h)
	}
	c.SetSearch("")
	if c.TaxisList().Count() != 3 {
		t.Fatalf("clearing the search should show everything")
	}
}

func TestControllerSearchBeforeLoad(t *testing.T) {
	src := newFakeSource(scenarioA())
	c := New(src, nil)
	defer c.Close()
	c.SetSearch("abz")
	if len(c.TaxisList()) != 0 {
		t.Fatalf("search on an empty collection should give an empty list")
	}
	c.Load(context.Background())
	h := c.TaxisList()
	if h.Count() != 1 || h["A"][0].Registration != "abz999" {
		t.Fatalf("load should apply the pending search, got %v", h)
	}
}

func TestControllerLoadFailureFansOutMessages(t *testing.T) {
	src := newFakeSource(nil)
	src.err = &resource.ErrorList{Status: 400, Entries: []string{"Invalid data", "Missing field"}}
	bag := messages.NewBag()
	c := New(src, bag)
	defer c.Close()
	c.Load(context.Background())

	want := []messages.Message{
		{Severity: messages.Danger, Text: "Invalid data"},
		{Severity: messages.Danger, Text: "Missing field"},
	}
	if !reflect.DeepEqual(bag.All(), want) {
		t.Fatalf("messages = %+v", bag.All())
	}
	if len(c.TaxisList()) != 0 {
		t.Fatalf("list should stay empty after a failed load")
	}
	// a failed load does not follow the collection
	src.data.Append(taxi.Taxi{Registration: "ZZZ1"})
	if len(c.TaxisList()) != 0 {
		t.Fatalf("controller should not follow the collection after a failed load")
	}
}

func TestControllerErrorFanOutCount(t *testing.T) {
	for n := 0; n < 5; n++ {
		entries := make([]string, n)
		for i := range entries {
			entries[i] = string(rune('a' + i))
		}
		src := newFakeSource(nil)
		src.err = &resource.ErrorList{Entries: entries}
		bag := messages.NewBag()
		New(src, bag).Load(context.Background())
		if bag.Len() != n {
			t.Fatalf("expected %d messages, got %d", n, bag.Len())
		}
		for i, m := range bag.All() {
			if m.Severity != messages.Danger || m.Text != entries[i] {
				t.Fatalf("message %d = %+v", i, m)
			}
		}
	}

	// empty and null values in the payload still count as entries
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"a":"Invalid data","b":"","c":null}`))
	}))
	defer srv.Close()
	res, err := resource.New(srv.URL, resource.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("resource.New: %v", err)
	}
	bag := messages.NewBag()
	c := New(res, bag)
	defer c.Close()
	c.Load(context.Background())
	want := []messages.Message{
		{Severity: messages.Danger, Text: "Invalid data"},
		{Severity: messages.Danger, Text: ""},
		{Severity: messages.Danger, Text: ""},
	}
	if !reflect.DeepEqual(bag.All(), want) {
		t.Fatalf("payload with 3 entries gave messages %+v", bag.All())
	}
}

// appendingSource stores the query result, then sees another writer append
// before the success callback runs.
type appendingSource struct {
	*fakeSource
	extra taxi.Taxi
}

func (a *appendingSource) Query(_ context.Context, onSuccess func([]taxi.Taxi), _ func(*resource.ErrorList)) {
	a.calls++
	a.data.Replace(a.items)
	items := a.data.Snapshot()
	a.data.Append(a.extra)
	if onSuccess != nil {
		onSuccess(items)
	}
}

func TestControllerLoadKeepsChangesMadeDuringQuery(t *testing.T) {
	src := &appendingSource{fakeSource: newFakeSource(scenarioA()), extra: taxi.Taxi{Registration: "ZZZ1"}}
	c := New(src, nil)
	defer c.Close()
	c.Load(context.Background())
	if h := c.TaxisList(); len(h["Z"]) != 1 || h.Count() != 4 {
		t.Fatalf("append during the query was lost: %v", h.Keys())
	}
	src.Data().Append(taxi.Taxi{Registration: "QQQ1"})
	if h := c.TaxisList(); len(h["Q"]) != 1 {
		t.Fatalf("controller should follow the collection after load, got %v", h.Keys())
	}
}

func TestControllerRefreshAfterFailedLoad(t *testing.T) {
	src := newFakeSource(scenarioA())
	src.err = &resource.ErrorList{Entries: []string{"down"}}
	c := New(src, nil)
	defer c.Close()
	c.Load(context.Background())
	if c.TaxisList().Count() != 0 {
		t.Fatalf("failed load should leave the list empty")
	}

	src.err = nil
	c.Refresh(context.Background())
	if c.TaxisList().Count() != 3 {
		t.Fatalf("refresh after a failed load should load, got %v", c.TaxisList())
	}
	src.Data().Append(taxi.Taxi{Registration: "ZZZ1"})
	if len(c.TaxisList()["Z"]) != 1 {
		t.Fatalf("controller should follow the collection after a successful refresh")
	}
}

func TestControllerSearchAndCollectionChangesConverge(t *testing.T) {
	for round := 0; round < 50; round++ {
		src := newFakeSource(scenarioA())
		c := New(src, nil)
		c.Load(context.Background())

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				src.Data().Append(taxi.Taxi{ID: taxi.ID(100 + i), Registration: "NEW" + strconv.Itoa(i)})
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				c.SetSearch("")
			}
		}()
		wg.Wait()

		// with an empty search both regroup paths show the whole collection,
		// so the last one must match the collection as it ended up
		if got, want := c.TaxisList().Count(), src.Data().Len(); got != want {
			t.Fatalf("round %d: list has %d taxis, collection has %d", round, got, want)
		}
		c.Close()
	}
}

func TestControllerFollowsCollection(t *testing.T) {
	src := newFakeSource(scenarioA())
	changes := 0
	c := New(src, nil, WithOnChange(func() { changes++ }))
	c.Load(context.Background())

	src.Data().Append(taxi.Taxi{Registration: "ZZZ1"})
	h := c.TaxisList()
	if !reflect.DeepEqual(regs(h["Z"]), []string{"ZZZ1"}) {
		t.Fatalf("expected new Z heading, got %v", h.Keys())
	}
	if !reflect.DeepEqual(regs(h["A"]), []string{"ABC123", "abz999"}) || len(h["C"]) != 1 {
		t.Fatalf("existing headings disturbed: %v", h)
	}
	if changes < 2 {
		t.Fatalf("expected change notifications, got %d", changes)
	}

	c.Close()
	src.Data().Append(taxi.Taxi{Registration: "QQQ1"})
	if _, ok := c.TaxisList()["Q"]; ok {
		t.Fatalf("closed controller should stop following the collection")
	}
}

func TestControllerCollectionChangeIgnoresSearch(t *testing.T) {
	src := newFakeSource(scenarioA())
	c := New(src, nil)
	defer c.Close()
	c.Load(context.Background())
	c.SetSearch("cat")
	src.Data().Append(taxi.Taxi{Registration: "ZZZ1"})
	if c.TaxisList().Count() != 4 {
		t.Fatalf("collection change regroups the whole collection, got %v", c.TaxisList())
	}
	if c.Search() != "cat" {
		t.Fatalf("search string should be untouched")
	}
}

func TestControllerRefresh(t *testing.T) {
	src := newFakeSource(scenarioA())
	c := New(src, nil)
	defer c.Close()
	c.Refresh(context.Background()) // first Refresh loads
	if c.TaxisList().Count() != 3 {
		t.Fatalf("expected 3 taxis after first refresh")
	}
	src.items = []taxi.Taxi{{Registration: "NEW0001"}}
	c.Refresh(context.Background())
	h := c.TaxisList()
	if h.Count() != 1 || h["N"] == nil {
		t.Fatalf("expected refreshed list, got %v", h)
	}
	if src.calls != 2 {
		t.Fatalf("expected 2 queries, got %d", src.calls)
	}
}

func TestControllerFuzzyAndDetails(t *testing.T) {
	src := newFakeSource(scenarioA())
	c := New(src, nil, WithFuzzy())
	defer c.Close()
	c.Load(context.Background())
	c.SetSearch("ct1")
	if c.TaxisList().Count() != 1 {
		t.Fatalf("fuzzy search should match CAT001, got %v", c.TaxisList())
	}
	c.SetFuzzy(false)
	if c.TaxisList().Count() != 0 {
		t.Fatalf("substring search should match nothing, got %v", c.TaxisList())
	}

	if c.Details() {
		t.Fatalf("details should default to false")
	}
	if !c.ToggleDetails() || !c.Details() {
		t.Fatalf("toggle should enable details")
	}
	c.SetDetails(false)
	if c.Details() {
		t.Fatalf("SetDetails(false) had no effect")
	}
	if c.Taxis() != Source(src) || c.Messages() == nil {
		t.Fatalf("accessors should expose the resource and messages")
	}
}
