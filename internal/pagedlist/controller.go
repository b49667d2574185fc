// Package pagedlist implements the state machine behind a paginated,
// searchable list: page cursor, refresh / load-more / search flows guarded by
// a single busy check, and an imperative handle for the list owner.
//
// A Controller is driven from a Bubble Tea Update loop. Flow methods return a
// tea.Cmd that runs the caller's fetch callback; the resulting ResultMsg must
// be routed back through Controller.Update, which applies it.
package pagedlist

import (
	"context"
	"slices"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"listkit/internal/infra/logx"
)

var instances atomic.Uint64

// Controller owns the list state. It is not safe for concurrent use; all
// methods are meant to be called from the Update goroutine.
type Controller[T any] struct {
	id   uint64
	opts Options[T]

	mode   Mode
	static []T

	items       []T
	refreshing  bool
	loadingMore bool
	searchText  string
	updateCount int
	page        int

	// dispatched is the momentum gate: set once a load-more or search went
	// out for the current scroll gesture.
	dispatched bool
	clearEpoch int
	seq        uint64
	// inflight is the seq of the fetch allowed to resolve, 0 when idle.
	inflight uint64

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

var _ Handle[struct{}] = (*Controller[struct{}])(nil)

// New creates a controller with empty items and the cursor at StartPage.
func New[T any](opts Options[T]) *Controller[T] {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	c := &Controller[T]{
		id:         instances.Add(1),
		opts:       opts,
		items:      []T{},
		page:       opts.StartPage,
		dispatched: true,
		ctx:        ctx,
		cancel:     cancel,
	}
	if opts.InitData != nil {
		c.mode = ModeStatic
		c.static = slices.Clone(opts.InitData)
	}
	return c
}

// Close cancels in-flight callbacks and makes later results no-ops.
func (c *Controller[T]) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
}

// Closed reports whether Close was called.
func (c *Controller[T]) Closed() bool { return c.closed }

// Mode reports the current rendering mode.
func (c *Controller[T]) Mode() Mode { return c.mode }

// Items returns the sequence to render: the static data in ModeStatic,
// otherwise the loaded items. The slice must not be modified.
func (c *Controller[T]) Items() []T {
	if c.mode == ModeStatic {
		return c.static
	}
	return c.items
}

// Loaded returns the controller's own items regardless of mode.
func (c *Controller[T]) Loaded() []T { return c.items }

// Page returns the page cursor: the last page requested.
func (c *Controller[T]) Page() int { return c.page }

// Refreshing reports whether a refresh is in flight.
func (c *Controller[T]) Refreshing() bool { return c.refreshing }

// LoadingMore reports whether a load-more or search is in flight.
func (c *Controller[T]) LoadingMore() bool { return c.loadingMore }

// SearchText returns the last recorded query.
func (c *Controller[T]) SearchText() string { return c.searchText }

// UpdateCount counts AddItemFirst insertions.
func (c *Controller[T]) UpdateCount() int { return c.updateCount }

// Busy reports whether any fetch is in flight.
func (c *Controller[T]) Busy() bool { return c.refreshing || c.loadingMore }

// SearchClearEpoch increases every time a refresh clears the search text, so
// a view can clear its input widget when it observes a new value.
func (c *Controller[T]) SearchClearEpoch() int { return c.clearEpoch }

// SetStaticData switches to ModeStatic with data, or back to ModePaged when
// data is nil.
func (c *Controller[T]) SetStaticData(data []T) {
	if data == nil {
		c.mode = ModePaged
		c.static = nil
		return
	}
	c.mode = ModeStatic
	c.static = slices.Clone(data)
}

// BeginScroll marks the start of a scroll gesture and re-opens the momentum
// gate for one load-more.
func (c *Controller[T]) BeginScroll() { c.dispatched = false }

// Refresh resets the cursor and reloads the first page. It returns nil when
// a fetch is already in flight or no refresh callback is configured.
func (c *Controller[T]) Refresh() tea.Cmd {
	if c.closed || c.Busy() || c.opts.OnPullToRefresh == nil {
		return nil
	}
	c.refreshing = true
	c.loadingMore = false
	c.searchText = ""
	c.clearEpoch++
	c.page = c.opts.StartPage
	logx.Debugf("pagedlist %d: refresh page=%d", c.id, c.page)
	return c.dispatch(KindRefresh, c.page, "")
}

// LoadMore advances the cursor and fetches the next page for the current
// search text. It returns nil when busy, when no load-more callback is
// configured, or when the momentum gate is closed.
func (c *Controller[T]) LoadMore() tea.Cmd {
	if c.closed || c.Busy() || c.opts.OnLoadMore == nil || c.dispatched {
		return nil
	}
	c.dispatched = true
	c.loadingMore = true
	c.page++
	logx.Debugf("pagedlist %d: load more page=%d size=%d query=%q", c.id, c.page, len(c.items), c.searchText)
	return c.dispatch(KindLoadMore, c.page, c.searchText)
}

// SetSearchText records text and starts the matching flow. Empty text runs
// a refresh (ModePaged) or a side-effect-only load-more (ModeStatic);
// non-empty text replaces the items with the first page of results.
func (c *Controller[T]) SetSearchText(text string) tea.Cmd {
	if c.closed {
		return nil
	}
	c.searchText = text
	if text == "" {
		if c.mode == ModeStatic {
			return c.sideEffect()
		}
		return c.Refresh()
	}
	c.dispatched = false
	return c.search()
}

func (c *Controller[T]) search() tea.Cmd {
	if c.Busy() || c.opts.OnLoadMore == nil {
		return nil
	}
	c.dispatched = true
	c.loadingMore = true
	c.page = c.opts.StartPage
	logx.Debugf("pagedlist %d: search page=%d query=%q", c.id, c.page, c.searchText)
	return c.dispatch(KindSearch, c.page, c.searchText)
}

// sideEffect calls OnLoadMore(0, "") for its effects only. It skips the busy
// guard and the connectivity check, and its result never touches the items.
func (c *Controller[T]) sideEffect() tea.Cmd {
	if c.opts.OnLoadMore == nil {
		return nil
	}
	more, ctx, owner := c.opts.OnLoadMore, c.ctx, c.id
	return func() tea.Msg {
		_, err := more(ctx, 0, "")
		return ResultMsg[T]{owner: owner, Kind: KindSideEffect, Err: err}
	}
}

// dispatch evaluates connectivity now and returns the command performing
// the fetch. Only the fetch in flight may resolve, and only once.
func (c *Controller[T]) dispatch(kind Kind, page int, query string) tea.Cmd {
	c.seq++
	c.inflight = c.seq
	owner, seq, ctx := c.id, c.seq, c.ctx
	connected := c.opts.Connected == nil || c.opts.Connected()
	refresh, more := c.opts.OnPullToRefresh, c.opts.OnLoadMore

	return func() tea.Msg {
		msg := ResultMsg[T]{owner: owner, seq: seq, Kind: kind, Page: page}
		if !connected {
			msg.Offline = true
			return msg
		}
		if kind == KindRefresh {
			msg.Items, msg.Err = refresh(ctx, page)
		} else {
			msg.Items, msg.Err = more(ctx, page, query)
		}
		return msg
	}
}

// Update applies a ResultMsg produced by this controller. It reports whether
// msg belonged to this controller; results from other controllers are left
// for their owners.
func (c *Controller[T]) Update(msg tea.Msg) bool {
	res, ok := msg.(ResultMsg[T])
	if !ok || res.owner != c.id {
		return false
	}
	if res.Err != nil {
		logx.Warnf("pagedlist %d: %s page=%d failed: %v", c.id, res.Kind, res.Page, res.Err)
		res.Items = nil
	}
	if res.Kind == KindSideEffect {
		return true
	}
	if c.closed || res.seq != c.inflight {
		logx.Debugf("pagedlist %d: dropping stale %s result", c.id, res.Kind)
		return true
	}

	c.inflight = 0
	switch res.Kind {
	case KindRefresh:
		c.applyRefresh(res.Items)
	case KindLoadMore:
		c.applyLoadMore(res.Items)
	case KindSearch:
		c.applySearch(res.Items)
	}
	return true
}

func (c *Controller[T]) applyRefresh(items []T) {
	if c.mode == ModePaged {
		if items == nil {
			c.items = []T{}
		} else {
			c.items = slices.Clone(items)
		}
	}
	c.refreshing = false
	c.loadingMore = false
	logx.Debugf("pagedlist %d: refreshed page=%d size=%d", c.id, c.page, len(c.items))
}

func (c *Controller[T]) applyLoadMore(items []T) {
	if len(items) > 0 {
		if c.mode == ModePaged {
			c.items = slices.Concat(c.items, items)
		}
	} else {
		c.page--
	}
	c.refreshing = false
	c.loadingMore = false
	logx.Debugf("pagedlist %d: load more done page=%d size=%d", c.id, c.page, len(c.items))
}

func (c *Controller[T]) applySearch(items []T) {
	if len(items) == 0 {
		c.applyLoadMore(nil)
		return
	}
	if c.mode == ModePaged {
		c.items = slices.Clone(items)
	}
	c.refreshing = false
	c.loadingMore = false
}
