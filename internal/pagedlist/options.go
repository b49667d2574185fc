package pagedlist

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode selects which sequence is the source of truth for rendering.
type Mode int

const (
	// ModePaged renders the controller's own items, filled by fetches.
	ModePaged Mode = iota
	// ModeStatic renders an externally supplied sequence. Fetch callbacks
	// still run, but only for their side effects.
	ModeStatic
)

func (m Mode) String() string {
	if m == ModeStatic {
		return "static"
	}
	return "paged"
}

// Kind identifies which flow dispatched a fetch.
type Kind int

const (
	KindRefresh Kind = iota
	KindLoadMore
	KindSearch
	// KindSideEffect is the load-more call made when a static list's search
	// is cleared. Its result is never applied.
	KindSideEffect
)

func (k Kind) String() string {
	switch k {
	case KindRefresh:
		return "refresh"
	case KindLoadMore:
		return "load-more"
	case KindSearch:
		return "search"
	case KindSideEffect:
		return "side-effect"
	default:
		return "unknown"
	}
}

// RefreshFunc fetches the first page. A nil slice means "no data".
type RefreshFunc[T any] func(ctx context.Context, page int) ([]T, error)

// LoadMoreFunc fetches page for searchText. A nil slice means "no data".
type LoadMoreFunc[T any] func(ctx context.Context, page int, searchText string) ([]T, error)

// Options configures a Controller.
type Options[T any] struct {
	// StartPage is the cursor value after a refresh or a new search.
	StartPage int

	OnPullToRefresh RefreshFunc[T]
	// OnLoadMore is optional; without it load-more and search are disabled.
	OnLoadMore LoadMoreFunc[T]

	// InitData, when non-nil, puts the controller in ModeStatic.
	InitData []T

	// Connected reports connectivity at dispatch time. Nil means connected.
	Connected func() bool

	// Equal matches items for RemoveItem. Nil means identity: == for
	// comparable types, which is reference equality for pointers.
	Equal func(a, b T) bool

	// Context is the parent of the context handed to callbacks. Close
	// cancels the derived context.
	Context context.Context
}

// Handle is the imperative API a list owner uses to mutate the list.
type Handle[T any] interface {
	// RequestPullToRefresh runs the same flow as a user pull-to-refresh.
	RequestPullToRefresh() tea.Cmd
	// RequestUpdateItems replaces the items wholesale.
	RequestUpdateItems(items []T)
	// RemoveItem removes the first occurrence of item.
	RemoveItem(item T)
	// AddItemFirst prepends a non-nil item.
	AddItemFirst(item T)
}

// ResultMsg carries a resolved fetch back to the controller that sent it.
type ResultMsg[T any] struct {
	owner uint64
	seq   uint64

	Kind  Kind
	Page  int
	Items []T
	Err   error
	// Offline is set when the callback was skipped for lack of connectivity.
	Offline bool
}
