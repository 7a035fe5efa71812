package listing

import (
	"reflect"
	"testing"

	"github.com/VoxDroid/taxis/internal/taxi"
)

func TestFilterScenarioB(t *testing.T) {
	got := Filter(scenarioA(), "cat", MatchSubstring)
	if !reflect.DeepEqual(regs(got), []string{"CAT001"}) {
		t.Fatalf("filtered = %q", regs(got))
	}
	h := Group(got)
	if len(h) != 1 || !reflect.DeepEqual(regs(h["C"]), []string{"CAT001"}) {
		t.Fatalf("grouping = %v", h)
	}
}

func TestFilterEmptySearchIsIdentity(t *testing.T) {
	in := scenarioA()
	if !reflect.DeepEqual(Group(Filter(in, "", MatchSubstring)), Group(in)) {
		t.Fatalf("empty search should not change the grouping")
	}
	if !reflect.DeepEqual(Group(Filter(in, "", nil)), Group(in)) {
		t.Fatalf("nil matcher should default to substring matching")
	}
}

func TestFilterOnlyMatchingRecords(t *testing.T) {
	in := []taxi.Taxi{
		{ID: 10, Registration: "ABC1234", Seat: "4"},
		{ID: 11, Registration: "XYZ0001", Seat: "12", Extra: map[string]any{"driver": "Zoë Black"}},
		{ID: 12, Registration: "QQQ0002", Seat: "7"},
	}
	cases := []struct {
		search string
		want   []string
	}{
		{"abc", []string{"ABC1234"}},
		{"11", []string{"XYZ0001"}}, // id
		{"7", []string{"QQQ0002"}},  // seat
		{"ZOË", []string{"XYZ0001"}},
		{"black", []string{"XYZ0001"}},
		{"nomatch", []string{}},
	}
	for _, c := range cases {
		got := regs(Filter(in, c.search, MatchSubstring))
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("Filter(%q) = %q, want %q", c.search, got, c.want)
		}
		for _, tx := range Filter(in, c.search, MatchSubstring) {
			if !MatchSubstring(tx, c.search) {
				t.Fatalf("Filter(%q) returned non-matching %s", c.search, tx.Registration)
			}
		}
	}
}

func TestMatchFuzzy(t *testing.T) {
	tx := taxi.Taxi{Registration: "CAT0001", Seat: "4"}
	if !MatchFuzzy(tx, "ct1") {
		t.Fatalf("expected subsequence match")
	}
	if MatchSubstring(tx, "ct1") {
		t.Fatalf("substring matcher should not accept a subsequence")
	}
	if MatchFuzzy(tx, "zz") {
		t.Fatalf("unexpected fuzzy match")
	}
}
