// Package listview renders a pagedlist.Controller as a scrollable Bubble Tea
// list with an optional search header, an initial-load indicator and a
// loading footer.
package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"listkit/internal/pagedlist"
	"listkit/internal/ui/searchheader"
)

// LoadingType selects what is shown while the first page is loading.
type LoadingType string

const (
	LoadingPlaceholder LoadingType = "placeholder"
	LoadingSpin        LoadingType = "spin"
	LoadingNone        LoadingType = "none"
)

// ParseLoadingType accepts "placeholder", "spin" or "none".
func ParseLoadingType(s string) (LoadingType, error) {
	switch lt := LoadingType(strings.ToLower(strings.TrimSpace(s))); lt {
	case LoadingPlaceholder, LoadingSpin, LoadingNone:
		return lt, nil
	case "":
		return LoadingPlaceholder, nil
	default:
		return "", fmt.Errorf("unknown loading type %q", s)
	}
}

const (
	defaultPlaceholderRows = 15
	footerHeight           = 1
	searchGap              = 1
)

// Config holds the presentation options. Zero values pick the defaults.
type Config[T any] struct {
	// RenderItem renders one row. Defaults to fmt.Sprint(item).
	RenderItem func(item T, index int, selected bool) string
	// EmptyView is shown when the list is empty and idle.
	EmptyView   string
	LoadingType LoadingType
	// DisableSearchBox hides the search header.
	DisableSearchBox  bool
	SearchPlaceholder string
	// EndThreshold is how many rows from the end trigger a load-more.
	EndThreshold    int
	PlaceholderRows int
	Keys            *KeyMap
	Styles          *Styles
}

// Model is a Bubble Tea component owning a pagedlist.Controller. Its
// pointer implements pagedlist.Handle.
type Model[T any] struct {
	cfg    Config[T]
	keys   KeyMap
	styles Styles

	ctrl    *pagedlist.Controller[T]
	search  searchheader.Model
	spinner spinner.Model
	win     window

	width, height int
	clearEpoch    int
}

var _ pagedlist.Handle[int] = (*Model[int])(nil)

// New builds the list and its controller. Call Init to start the first
// refresh.
func New[T any](opts pagedlist.Options[T], cfg Config[T]) Model[T] {
	if cfg.RenderItem == nil {
		cfg.RenderItem = func(item T, _ int, _ bool) string { return fmt.Sprint(item) }
	}
	if cfg.LoadingType == "" {
		cfg.LoadingType = LoadingPlaceholder
	}
	if cfg.EndThreshold <= 0 {
		cfg.EndThreshold = 1
	}
	if cfg.PlaceholderRows <= 0 {
		cfg.PlaceholderRows = defaultPlaceholderRows
	}
	m := Model[T]{
		cfg:    cfg,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		ctrl:   pagedlist.New(opts),
		search: searchheader.New(),
	}
	if cfg.Keys != nil {
		m.keys = *cfg.Keys
	}
	if cfg.Styles != nil {
		m.styles = *cfg.Styles
	}
	m.search.SetPlaceholder(cfg.SearchPlaceholder)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = m.styles.Spinner
	m.spinner = sp
	return m
}

// Init dispatches the first refresh.
func (m Model[T]) Init() tea.Cmd {
	return m.withSpinner(m.ctrl.Refresh())
}

func (m Model[T]) Controller() *pagedlist.Controller[T] { return m.ctrl }
func (m Model[T]) KeyMap() KeyMap                       { return m.keys }
func (m Model[T]) SearchFocused() bool                  { return m.search.Focused() }
func (m Model[T]) Cursor() int                          { return m.win.cursor }

// Selected returns the item under the cursor.
func (m Model[T]) Selected() (T, bool) {
	items := m.ctrl.Items()
	w := m.win
	w.clamp(len(items))
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[w.cursor], true
}

// Close tears the controller down; in-flight results are dropped.
func (m Model[T]) Close() { m.ctrl.Close() }

// SetStaticData switches the list to render data (nil returns to paging).
func (m *Model[T]) SetStaticData(data []T) {
	m.ctrl.SetStaticData(data)
	m.sync()
}

func (m *Model[T]) SetSize(width, height int) {
	m.width, m.height = width, height
	m.search.SetWidth(width)
	m.win.rows = m.listRows()
	m.sync()
}

func (m Model[T]) listRows() int {
	if m.height <= 0 {
		return 0
	}
	rows := m.height - footerHeight
	if !m.cfg.DisableSearchBox {
		rows -= 1 + searchGap
	}
	return max(rows, 1)
}

// RequestPullToRefresh runs the refresh flow and animates the indicator.
func (m *Model[T]) RequestPullToRefresh() tea.Cmd { return m.refresh() }

func (m *Model[T]) RequestUpdateItems(items []T) {
	m.ctrl.RequestUpdateItems(items)
	m.sync()
}

func (m *Model[T]) RemoveItem(item T) {
	m.ctrl.RemoveItem(item)
	m.sync()
}

func (m *Model[T]) AddItemFirst(item T) {
	m.ctrl.AddItemFirst(item)
	m.sync()
}

func (m Model[T]) withSpinner(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

// sync clears the search widget after a refresh reset the query and keeps
// the cursor inside the rendered items.
func (m *Model[T]) sync() {
	if e := m.ctrl.SearchClearEpoch(); e != m.clearEpoch {
		m.clearEpoch = e
		m.search.Clear()
	}
	m.win.clamp(len(m.ctrl.Items()))
}

func (m *Model[T]) refresh() tea.Cmd {
	cmd := m.withSpinner(m.ctrl.Refresh())
	if cmd != nil {
		m.win.first()
	}
	m.sync()
	return cmd
}

// scroll moves the cursor as one scroll gesture and asks for the next page
// when the cursor lands near the end.
func (m *Model[T]) scroll(delta int) tea.Cmd {
	m.ctrl.BeginScroll()
	m.win.move(delta, len(m.ctrl.Items()))
	if delta <= 0 {
		return nil
	}
	return m.maybeLoadMore()
}

func (m *Model[T]) maybeLoadMore() tea.Cmd {
	n := len(m.ctrl.Items())
	if n == 0 || m.win.cursor < n-m.cfg.EndThreshold {
		return nil
	}
	return m.withSpinner(m.ctrl.LoadMore())
}

// Update applies controller results first, then window, mouse and key
// input.
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	if m.ctrl.Update(msg) {
		m.sync()
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case searchheader.ChangeTextMsg:
		m.win.first()
		cmd := m.withSpinner(m.ctrl.SetSearchText(msg.Text))
		m.sync()
		return m, cmd

	case searchheader.SubmitMsg, searchheader.CancelMsg:
		m.search.Blur()
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m, m.scroll(-1)
		case tea.MouseButtonWheelDown:
			return m, m.scroll(1)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model[T]) handleKey(msg tea.KeyMsg) (Model[T], tea.Cmd) {
	// The focused header owns every key; esc comes back as CancelMsg.
	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		if m.cfg.DisableSearchBox {
			return m, nil
		}
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Up):
		return m, m.scroll(-1)
	case key.Matches(msg, m.keys.Down):
		return m, m.scroll(1)
	case key.Matches(msg, m.keys.PageUp):
		return m, m.scroll(-m.win.page())
	case key.Matches(msg, m.keys.PageDown):
		return m, m.scroll(m.win.page())
	case key.Matches(msg, m.keys.Home):
		m.ctrl.BeginScroll()
		m.win.first()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.ctrl.BeginScroll()
		m.win.last(len(m.ctrl.Items()))
		return m, m.maybeLoadMore()
	}
	return m, nil
}
