package listing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/VoxDroid/taxis/internal/messages"
	"github.com/VoxDroid/taxis/internal/resource"
	"github.com/VoxDroid/taxis/internal/taxi"
)

// Source is the part of the taxi resource the controller depends on.
type Source interface {
	Query(ctx context.Context, onSuccess func([]taxi.Taxi), onError func(*resource.ErrorList))
	Data() *resource.Collection
}

// Controller owns the grouped taxi list for one view. It regroups from
// scratch on every search change and every change of the shared collection.
// All methods are safe for concurrent use.
type Controller struct {
	taxis    Source
	messages *messages.Bag
	logger   *slog.Logger

	mu          sync.Mutex
	match       Matcher
	search      string
	details     bool
	list        Headings
	loaded      bool
	following   bool
	unsubscribe func()
	onChange    func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithFuzzy switches the search from substring to fuzzy matching.
func WithFuzzy() Option {
	return func(c *Controller) { c.match = MatchFuzzy }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithOnChange registers fn to run after every regroup, outside the lock.
// Presentation layers use it to schedule a redraw.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New returns a controller over src that reports failures to bag. It does
// not query; call Load for that. The initial list reflects whatever src
// already holds.
func New(src Source, bag *messages.Bag, opts ...Option) *Controller {
	if bag == nil {
		bag = messages.NewBag()
	}
	c := &Controller{
		taxis:    src,
		messages: bag,
		logger:   slog.Default(),
		match:    MatchSubstring,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.list = Group(Filter(src.Data().Snapshot(), "", c.match))
	return c
}

// Load issues the initial list query. On success the list is regrouped with
// the current search and the controller starts following the collection.
// On failure every reported error is pushed as a danger message and the list
// is left as it was. Only the first call has any effect.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return
	}
	c.loaded = true
	// Subscribed before the query so no change is lost between the query
	// storing its result and the regroup below. Notifications are ignored
	// until a query has succeeded.
	if c.unsubscribe == nil {
		c.unsubscribe = c.taxis.Data().Subscribe(c.collectionChanged)
	}
	c.mu.Unlock()

	c.taxis.Query(ctx, c.loadSucceeded, c.reportErrors)
}

func (c *Controller) loadSucceeded(items []taxi.Taxi) {
	c.logger.Debug("taxi list loaded", "count", len(items))
	c.mu.Lock()
	c.following = c.unsubscribe != nil
	c.list = Group(Filter(c.taxis.Data().Snapshot(), c.search, c.match))
	c.mu.Unlock()
	c.changed()
}

// Refresh re-issues the list query. The collection is replaced on success,
// which regroups through the subscription; errors are reported as in Load.
// After a failed Load a successful Refresh completes the load.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	loaded, following := c.loaded, c.following
	c.mu.Unlock()
	switch {
	case !loaded:
		c.Load(ctx)
	case !following:
		c.taxis.Query(ctx, c.loadSucceeded, c.reportErrors)
	default:
		c.taxis.Query(ctx, nil, c.reportErrors)
	}
}

func (c *Controller) reportErrors(el *resource.ErrorList) {
	c.logger.Warn("taxi list query failed", "status", el.Status, "errors", len(el.Entries))
	for _, e := range el.Entries {
		c.messages.Push(messages.Danger, e)
	}
	c.changed()
}

// collectionChanged regroups the unfiltered collection. It reads the
// collection under c.mu so the last regroup always reflects the newest data.
func (c *Controller) collectionChanged([]taxi.Taxi) {
	c.mu.Lock()
	if !c.following {
		c.mu.Unlock()
		return
	}
	c.list = Group(c.taxis.Data().Snapshot())
	c.mu.Unlock()
	c.changed()
}

// SetSearch stores the search string and regroups the filtered collection.
func (c *Controller) SetSearch(s string) {
	c.mu.Lock()
	c.search = s
	c.list = Group(Filter(c.taxis.Data().Snapshot(), s, c.match))
	c.mu.Unlock()
	c.changed()
}

// Search returns the current search string.
func (c *Controller) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// SetFuzzy switches between fuzzy and substring matching and regroups.
func (c *Controller) SetFuzzy(on bool) {
	c.mu.Lock()
	if on {
		c.match = MatchFuzzy
	} else {
		c.match = MatchSubstring
	}
	search := c.search
	c.mu.Unlock()
	c.SetSearch(search)
}

// TaxisList returns a copy of the current grouping.
func (c *Controller) TaxisList() Headings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Clone()
}

// Details reports whether taxi details are expanded inline.
func (c *Controller) Details() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// SetDetails sets the inline details flag.
func (c *Controller) SetDetails(on bool) {
	c.mu.Lock()
	c.details = on
	c.mu.Unlock()
}

// ToggleDetails flips the inline details flag and returns the new value.
func (c *Controller) ToggleDetails() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details = !c.details
	return c.details
}

// Taxis returns the resource the controller reads from.
func (c *Controller) Taxis() Source { return c.taxis }

// Messages returns the shared message bag.
func (c *Controller) Messages() *messages.Bag { return c.messages }

// Close stops following the collection. The controller keeps its last list.
func (c *Controller) Close() {
	c.mu.Lock()
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.following = false
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
