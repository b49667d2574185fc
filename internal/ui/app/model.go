// Package app is the listkit browser: a paged entry list over a catalog
// source with create and delete actions.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"listkit/internal/catalog"
	"listkit/internal/netstate"
	"listkit/internal/pagedlist"
	"listkit/internal/ui/listview"
	"listkit/internal/ui/loading"
)

var errOffline = errors.New("offline")

const (
	headerHeight = 2
	footerLines  = 2
)

// Options configures the browser. Source is required.
type Options struct {
	Source    catalog.Source
	PerPage   int
	StartPage int
	Loading   listview.LoadingType
	NoSearch  bool

	// Monitor defaults to an always-connected monitor.
	Monitor *netstate.Monitor
	// Checker enables periodic probing every ProbeInterval.
	Checker       netstate.Checker
	ProbeInterval time.Duration

	Title string
}

// Model is the catalog browser: a paged entry list with create and delete,
// a connectivity status line and a loading modal over mutations.
type Model struct {
	opts    Options
	keys    keyMap
	list    listview.Model[catalog.Entry]
	modal   loading.Model
	help    help.Model
	monitor *netstate.Monitor
	mutator catalog.Mutator

	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	created       int
	busy          bool
	status        string
	lastErr       error
	quitting      bool
}

// New wires the list to opts.Source. Zero PerPage picks the catalog default.
func New(opts Options) Model {
	if opts.PerPage <= 0 {
		opts.PerPage = catalog.DefaultPerPage
	}
	if opts.Monitor == nil {
		opts.Monitor = netstate.NewMonitor()
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = 5 * time.Second
	}
	if opts.Title == "" {
		opts.Title = "listkit"
	}
	ctx, cancel := context.WithCancel(context.Background())

	src, perPage := opts.Source, opts.PerPage
	list := listview.New(pagedlist.Options[catalog.Entry]{
		StartPage: opts.StartPage,
		OnPullToRefresh: func(ctx context.Context, page int) ([]catalog.Entry, error) {
			return src.Page(ctx, catalog.PageQuery{Page: page, PerPage: perPage})
		},
		OnLoadMore: func(ctx context.Context, page int, q string) ([]catalog.Entry, error) {
			return src.Page(ctx, catalog.PageQuery{Page: page, PerPage: perPage, Query: q})
		},
		Connected: opts.Monitor.Connected,
		Equal:     catalog.SameEntry,
		Context:   ctx,
	}, listview.Config[catalog.Entry]{
		RenderItem:        renderEntry,
		EmptyView:         "No entries.",
		LoadingType:       opts.Loading,
		DisableSearchBox:  opts.NoSearch,
		SearchPlaceholder: "Search entries",
	})

	m := Model{
		opts:    opts,
		keys:    defaultKeyMap(list.KeyMap()),
		list:    list,
		modal:   loading.New(),
		help:    help.New(),
		monitor: opts.Monitor,
		ctx:     ctx,
		cancel:  cancel,
	}
	m.mutator, _ = src.(catalog.Mutator)
	return m
}

func renderEntry(e catalog.Entry, _ int, selected bool) string {
	line := e.Title
	if selected && e.Detail != "" {
		line += "  " + detailStyle.Render(e.Detail)
	}
	return line
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.list.Init()}
	if m.opts.Checker != nil {
		cmds = append(cmds, netstate.ProbeCmd(m.ctx, m.opts.Checker, m.monitor))
	}
	return tea.Batch(cmds...)
}

func (m *Model) resize() {
	h := m.height - headerHeight - footerLines
	if m.help.ShowAll {
		rows := 0
		for _, col := range m.keys.FullHelp() {
			rows = max(rows, len(col))
		}
		h -= rows - 1
	}
	m.help.Width = m.width
	m.list.SetSize(m.width, max(h, 1))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var c1, c2 tea.Cmd
		m.modal, c1 = m.modal.Update(msg)
		m.list, c2 = m.list.Update(msg)
		return m, tea.Batch(c1, c2)

	case pagedlist.ResultMsg[catalog.Entry]:
		switch {
		case msg.Offline:
			m.status = fmt.Sprintf("%s skipped while offline", msg.Kind)
		case msg.Err != nil:
			m.lastErr = msg.Err
		default:
			m.lastErr = nil
		}

	case netstate.StatusMsg:
		var cmd tea.Cmd
		if msg.Changed && msg.Connected && len(m.list.Controller().Items()) == 0 {
			cmd = m.list.RequestPullToRefresh()
		}
		if msg.Err != nil {
			m.status = "probe: " + msg.Err.Error()
		} else if msg.Changed {
			m.status = "back online"
		}
		if m.opts.Checker == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, netstate.WatchCmd(m.ctx, m.opts.ProbeInterval, m.opts.Checker, m.monitor))

	case createdMsg:
		m.finishMutation(msg.err)
		if msg.err == nil {
			m.list.AddItemFirst(msg.entry)
			m.status = "created " + msg.entry.Title
		}
		return m, nil

	case deletedMsg:
		m.finishMutation(msg.err)
		if msg.err == nil || errors.Is(msg.err, catalog.ErrNotFound) {
			m.list.RemoveItem(msg.entry)
			m.status = "deleted " + msg.entry.Title
		}
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) finishMutation(err error) {
	m.busy = false
	m.modal.Hide()
	m.lastErr = err
}

// handleKey runs the app bindings. Keys it does not handle go to the list.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.busy {
		return m, nil, true
	}
	if m.list.SearchFocused() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil, true
	case key.Matches(msg, m.keys.Offline):
		if m.monitor.ToggleOffline() {
			m.status = "offline (manual)"
		} else {
			m.status = "offline override cleared"
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Reload):
		return m, m.list.RequestPullToRefresh(), true
	case key.Matches(msg, m.keys.Create):
		if err := m.canMutate(); err != nil {
			m.lastErr = err
			return m, nil, true
		}
		m.created++
		title := fmt.Sprintf("New entry #%d", m.created)
		return m, m.startMutation("Creating entry…", createCmd(m.ctx, m.mutator, title)), true
	case key.Matches(msg, m.keys.Delete):
		e, ok := m.list.Selected()
		if !ok {
			return m, nil, true
		}
		if err := m.canMutate(); err != nil {
			m.lastErr = err
			return m, nil, true
		}
		return m, m.startMutation("Deleting "+e.Title+"…", deleteCmd(m.ctx, m.mutator, e)), true
	}
	return m, nil, false
}

func (m Model) canMutate() error {
	if m.mutator == nil {
		return catalog.ErrReadOnly
	}
	if !m.monitor.Connected() {
		return errOffline
	}
	return nil
}

func (m *Model) startMutation(label string, cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.modal.Label = label
	return tea.Batch(cmd, m.modal.Show())
}

func (m Model) quit() (Model, tea.Cmd, bool) {
	m.quitting = true
	m.list.Close()
	m.cancel()
	return m, tea.Quit, true
}

// Close releases the list and cancels pending work.
func (m Model) Close() {
	m.list.Close()
	m.cancel()
}
