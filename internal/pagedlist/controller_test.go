package pagedlist

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type moreCall struct {
	page  int
	query string
}

// fakeFeed records callback invocations and serves canned pages.
type fakeFeed struct {
	refreshCalls []int
	moreCalls    []moreCall

	refresh func(page int) ([]string, error)
	more    func(page int, query string) ([]string, error)
}

func (f *fakeFeed) options() Options[string] {
	return Options[string]{
		OnPullToRefresh: func(_ context.Context, page int) ([]string, error) {
			f.refreshCalls = append(f.refreshCalls, page)
			if f.refresh == nil {
				return nil, nil
			}
			return f.refresh(page)
		},
		OnLoadMore: func(_ context.Context, page int, query string) ([]string, error) {
			f.moreCalls = append(f.moreCalls, moreCall{page, query})
			if f.more == nil {
				return nil, nil
			}
			return f.more(page, query)
		},
	}
}

func returns(items ...string) func(int) ([]string, error) {
	return func(int) ([]string, error) { return items, nil }
}

func returnsQ(items ...string) func(int, string) ([]string, error) {
	return func(int, string) ([]string, error) { return items, nil }
}

// resolve runs cmd and feeds its message back into c.
func resolve[T any](t *testing.T, c *Controller[T], cmd tea.Cmd) ResultMsg[T] {
	t.Helper()
	require.NotNil(t, cmd, "expected a fetch to be dispatched")
	msg, ok := cmd().(ResultMsg[T])
	require.True(t, ok)
	require.True(t, c.Update(msg))
	return msg
}

func seeded(t *testing.T, f *fakeFeed, opts Options[string], items ...string) *Controller[string] {
	t.Helper()
	f.refresh = returns(items...)
	c := New(opts)
	resolve(t, c, c.Refresh())
	require.Equal(t, items, c.Items())
	return c
}

func TestNewStartsEmptyAtStartPage(t *testing.T) {
	opts := (&fakeFeed{}).options()
	opts.StartPage = 3
	c := New(opts)
	require.Empty(t, c.Items())
	require.NotNil(t, c.Items())
	require.Equal(t, 3, c.Page())
	require.Equal(t, ModePaged, c.Mode())
	require.False(t, c.Busy())
}

func TestRefreshReplacesLoadMoreAppends(t *testing.T) {
	f := &fakeFeed{}
	c := seeded(t, f, f.options(), "a", "b")

	f.refresh = returns("c")
	resolve(t, c, c.Refresh())
	require.Equal(t, []string{"c"}, c.Items())

	c.RequestUpdateItems([]string{"a", "b"})
	f.more = returnsQ("c")
	c.BeginScroll()
	resolve(t, c, c.LoadMore())
	require.Equal(t, []string{"a", "b", "c"}, c.Items())
	require.Equal(t, 1, c.Page())
}

func TestRefreshNilResultEmptiesItems(t *testing.T) {
	f := &fakeFeed{}
	c := seeded(t, f, f.options(), "a")

	f.refresh = nil
	resolve(t, c, c.Refresh())
	require.NotNil(t, c.Items())
	require.Empty(t, c.Items())
}

func TestRefreshClearsBothFlags(t *testing.T) {
	f := &fakeFeed{refresh: returns("a")}
	c := New(f.options())

	cmd := c.Refresh()
	require.True(t, c.Refreshing())
	require.False(t, c.LoadingMore())
	resolve(t, c, cmd)
	require.False(t, c.Refreshing())
	require.False(t, c.LoadingMore())
}

func TestLoadMoreFailureRollsBackCursor(t *testing.T) {
	f := &fakeFeed{}
	c := seeded(t, f, f.options(), "a", "b")
	require.Equal(t, 0, c.Page())

	c.BeginScroll()
	cmd := c.LoadMore()
	require.Equal(t, 1, c.Page())
	require.True(t, c.LoadingMore())

	resolve(t, c, cmd)
	require.Equal(t, 0, c.Page())
	require.Equal(t, []string{"a", "b"}, c.Items())
	require.False(t, c.Busy())
	require.Equal(t, []moreCall{{1, ""}}, f.moreCalls)
}

func TestLoadMorePassesSearchText(t *testing.T) {
	f := &fakeFeed{more: returnsQ("z")}
	c := seeded(t, f, f.options(), "a")

	resolve(t, c, c.SetSearchText("zz"))
	f.more = returnsQ("z2")
	c.BeginScroll()
	resolve(t, c, c.LoadMore())

	require.Equal(t, []string{"z", "z2"}, c.Items())
	require.Equal(t, []moreCall{{0, "zz"}, {1, "zz"}}, f.moreCalls)
}

func TestBusyGuard(t *testing.T) {
	tests := []struct {
		name  string
		start func(c *Controller[string]) tea.Cmd
	}{
		{"while refreshing", func(c *Controller[string]) tea.Cmd { return c.Refresh() }},
		{"while loading more", func(c *Controller[string]) tea.Cmd { c.BeginScroll(); return c.LoadMore() }},
		{"while searching", func(c *Controller[string]) tea.Cmd { return c.SetSearchText("q") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFeed{more: returnsQ("x")}
			c := seeded(t, f, f.options(), "a")
			f.refreshCalls, f.moreCalls = nil, nil

			inflight := tt.start(c)
			require.NotNil(t, inflight)
			require.True(t, c.Busy())

			require.Nil(t, c.Refresh())
			c.BeginScroll()
			require.Nil(t, c.LoadMore())
			require.Nil(t, c.SetSearchText("other"))
			require.Nil(t, c.RequestPullToRefresh())

			resolve(t, c, inflight)
			require.Equal(t, 1, len(f.refreshCalls)+len(f.moreCalls), "only the first fetch may run")
			require.False(t, c.Busy())
		})
	}
}

func TestLoadMoreRequiresScrollGesture(t *testing.T) {
	f := &fakeFeed{more: returnsQ("b")}
	c := seeded(t, f, f.options(), "a")

	require.Nil(t, c.LoadMore(), "gate starts closed")
	c.BeginScroll()
	cmd := c.LoadMore()
	require.NotNil(t, cmd)
	resolve(t, c, cmd)

	require.Nil(t, c.LoadMore(), "one load per gesture")
	c.BeginScroll()
	require.NotNil(t, c.LoadMore())
}

func TestMomentumGateIsPerInstance(t *testing.T) {
	f1, f2 := &fakeFeed{more: returnsQ("x")}, &fakeFeed{more: returnsQ("y")}
	c1, c2 := New(f1.options()), New(f2.options())

	c1.BeginScroll()
	c2.BeginScroll()
	require.NotNil(t, c1.LoadMore())
	require.NotNil(t, c2.LoadMore(), "gate of one list must not block another")
}

func TestLoadMoreWithoutCallbackIsNoop(t *testing.T) {
	opts := (&fakeFeed{}).options()
	opts.OnLoadMore = nil
	c := New(opts)
	c.BeginScroll()
	require.Nil(t, c.LoadMore())
	require.Nil(t, c.SetSearchText("q"))
	require.Equal(t, 0, c.Page())
}

func TestRefreshWithoutCallbackIsNoop(t *testing.T) {
	c := New(Options[string]{})
	require.Nil(t, c.Refresh())
	require.False(t, c.Refreshing())
}

func TestSearchReplaces(t *testing.T) {
	f := &fakeFeed{more: returnsQ("z")}
	c := seeded(t, f, f.options(), "a", "b")

	cmd := c.SetSearchText("zed")
	require.True(t, c.LoadingMore())
	require.Equal(t, 0, c.Page())
	resolve(t, c, cmd)

	require.Equal(t, []string{"z"}, c.Items())
	require.Equal(t, "zed", c.SearchText())
	require.False(t, c.Busy())
}

func TestSearchNoResultsRollsBack(t *testing.T) {
	f := &fakeFeed{}
	opts := f.options()
	opts.StartPage = 1
	c := seeded(t, f, opts, "a", "b")

	resolve(t, c, c.SetSearchText("nothing"))
	require.Equal(t, []string{"a", "b"}, c.Items())
	require.Equal(t, 0, c.Page())
	require.False(t, c.Busy())
}

func TestEmptySearchRunsRefresh(t *testing.T) {
	f := &fakeFeed{more: returnsQ("z")}
	opts := f.options()
	opts.StartPage = 2
	c := seeded(t, f, opts, "a")
	epoch := c.SearchClearEpoch()

	resolve(t, c, c.SetSearchText("z"))
	c.BeginScroll()
	resolve(t, c, c.LoadMore())
	require.Equal(t, 3, c.Page())

	f.refresh = returns("fresh")
	cmd := c.SetSearchText("")
	require.True(t, c.Refreshing())
	require.Equal(t, 2, c.Page())
	require.Equal(t, epoch+1, c.SearchClearEpoch())
	resolve(t, c, cmd)

	require.Equal(t, []string{"fresh"}, c.Items())
	require.Equal(t, "", c.SearchText())
	require.Equal(t, 2, f.refreshCalls[len(f.refreshCalls)-1])
}

func TestDisconnectedShortCircuits(t *testing.T) {
	f := &fakeFeed{refresh: returns("a"), more: returnsQ("b")}
	online := true
	opts := f.options()
	opts.Connected = func() bool { return online }
	c := seeded(t, f, opts, "a")
	f.refreshCalls, f.moreCalls = nil, nil
	online = false

	c.BeginScroll()
	msg := resolve(t, c, c.LoadMore())
	require.True(t, msg.Offline)
	require.Equal(t, 0, c.Page())
	require.Equal(t, []string{"a"}, c.Items())

	msg = resolve(t, c, c.SetSearchText("q"))
	require.True(t, msg.Offline)
	require.Equal(t, []string{"a"}, c.Items())

	msg = resolve(t, c, c.Refresh())
	require.True(t, msg.Offline)
	require.Empty(t, c.Items())

	require.Empty(t, f.refreshCalls)
	require.Empty(t, f.moreCalls)
	require.False(t, c.Busy())
}

func TestCallbackErrorActsLikeNil(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFeed{}
	c := seeded(t, f, f.options(), "a")

	f.more = func(int, string) ([]string, error) { return []string{"ignored"}, boom }
	c.BeginScroll()
	msg := resolve(t, c, c.LoadMore())
	require.ErrorIs(t, msg.Err, boom)
	require.Equal(t, []string{"a"}, c.Items())
	require.Equal(t, 0, c.Page())

	f.refresh = func(int) ([]string, error) { return nil, boom }
	resolve(t, c, c.Refresh())
	require.Empty(t, c.Items())
	require.False(t, c.Busy())
}

func TestResultForOtherControllerIsIgnored(t *testing.T) {
	f := &fakeFeed{refresh: returns("a")}
	c1, c2 := New(f.options()), New(f.options())

	msg := c1.Refresh()()
	require.False(t, c2.Update(msg))
	require.False(t, c2.Update("not a result"))
	require.Empty(t, c2.Items())
	require.True(t, c1.Update(msg))
	require.Equal(t, []string{"a"}, c1.Items())
}

func TestDuplicateResultAppliedOnce(t *testing.T) {
	f := &fakeFeed{more: returnsQ("b")}
	c := seeded(t, f, f.options(), "a")

	c.BeginScroll()
	msg := c.LoadMore()()
	require.True(t, c.Update(msg))
	require.True(t, c.Update(msg))
	require.Equal(t, []string{"a", "b"}, c.Items())
}

func TestCloseDropsInflightResult(t *testing.T) {
	var seen context.Context
	c := New(Options[string]{
		OnPullToRefresh: func(ctx context.Context, _ int) ([]string, error) {
			seen = ctx
			return []string{"late"}, nil
		},
	})

	cmd := c.Refresh()
	c.Close()
	msg := cmd()
	require.Error(t, seen.Err(), "callback context must be cancelled on close")
	require.True(t, c.Update(msg))
	require.Empty(t, c.Items())
	require.True(t, c.Closed())
	require.Nil(t, c.Refresh())
	c.Close()
}

func TestParentContextCancelsCallbacks(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	var seen context.Context
	c := New(Options[string]{
		Context: parent,
		OnPullToRefresh: func(ctx context.Context, _ int) ([]string, error) {
			seen = ctx
			return nil, ctx.Err()
		},
	})
	cancel()
	resolve(t, c, c.Refresh())
	require.ErrorIs(t, seen.Err(), context.Canceled)
	require.Empty(t, c.Items())
}

func TestStaticModeRendersInitData(t *testing.T) {
	f := &fakeFeed{refresh: returns("remote"), more: returnsQ("remote")}
	opts := f.options()
	opts.InitData = []string{"s1", "s2"}
	c := New(opts)
	require.Equal(t, ModeStatic, c.Mode())

	resolve(t, c, c.Refresh())
	c.BeginScroll()
	resolve(t, c, c.LoadMore())
	resolve(t, c, c.SetSearchText("q"))
	require.Equal(t, []string{"s1", "s2"}, c.Items())
	require.Empty(t, c.Loaded(), "static mode never populates local items")

	msg := c.SetSearchText("")()
	require.Equal(t, KindSideEffect, msg.(ResultMsg[string]).Kind)
	require.True(t, c.Update(msg))
	require.Equal(t, moreCall{0, ""}, f.moreCalls[len(f.moreCalls)-1])
	require.False(t, c.Busy())

	c.SetStaticData([]string{"s3"})
	require.Equal(t, []string{"s3"}, c.Items())
	c.SetStaticData(nil)
	require.Equal(t, ModePaged, c.Mode())
}

func TestStaticEmptySearchDoesNotTouchBusyFlags(t *testing.T) {
	f := &fakeFeed{more: returnsQ("x")}
	opts := f.options()
	opts.InitData = []string{}
	c := New(opts)

	cmd := c.SetSearchText("")
	require.NotNil(t, cmd)
	require.False(t, c.Busy())
	require.Equal(t, 0, c.SearchClearEpoch())
}

func TestStaticEmptySearchIgnoresConnectivity(t *testing.T) {
	f := &fakeFeed{more: returnsQ("x")}
	opts := f.options()
	opts.InitData = []string{"s"}
	opts.Connected = func() bool { return false }
	c := New(opts)

	msg := c.SetSearchText("")().(ResultMsg[string])
	require.False(t, msg.Offline)
	require.Equal(t, KindSideEffect, msg.Kind)
	require.Equal(t, []moreCall{{0, ""}}, f.moreCalls)
	require.True(t, c.Update(msg))
	require.Equal(t, []string{"s"}, c.Items())
}

func TestItemsAreNotAliased(t *testing.T) {
	page := []string{"a", "b"}
	f := &fakeFeed{refresh: func(int) ([]string, error) { return page, nil }}
	c := New(f.options())
	resolve(t, c, c.Refresh())

	page[0] = "mutated"
	require.Equal(t, []string{"a", "b"}, c.Items())

	before := c.Items()
	c.AddItemFirst("x")
	require.Equal(t, []string{"a", "b"}, before)
}
