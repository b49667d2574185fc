package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemorySource keeps entries in memory ordered by Position.
type MemorySource struct {
	mu      sync.RWMutex
	entries []Entry
	filter  FilterConfig
	now     func() time.Time
}

var (
	_ Source  = (*MemorySource)(nil)
	_ Mutator = (*MemorySource)(nil)
)

// NewMemorySource serves n generated fixtures.
func NewMemorySource(n int) *MemorySource {
	return NewMemorySourceFrom(Generate(n))
}

func NewMemorySourceFrom(entries []Entry) *MemorySource {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int { return a.Position - b.Position })
	return &MemorySource{entries: sorted, filter: DefaultFilterConfig(), now: time.Now}
}

// SetFilter replaces the search tuning.
func (s *MemorySource) SetFilter(cfg FilterConfig) {
	s.mu.Lock()
	s.filter = cfg
	s.mu.Unlock()
}

func (s *MemorySource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemorySource) Page(ctx context.Context, q PageQuery) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q = q.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()
	base := make([]string, len(s.entries))
	for i, e := range s.entries {
		base[i] = strings.ToLower(e.Title)
	}
	idx := search(q.Query, base, s.filter)

	start := q.offset()
	if start >= len(idx) {
		return []Entry{}, nil
	}
	end := min(start+q.PerPage, len(idx))
	out := make([]Entry, 0, end-start)
	for _, i := range idx[start:end] {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Create inserts a new entry ahead of all others.
func (s *MemorySource) Create(ctx context.Context, title string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := 0
	if len(s.entries) > 0 {
		pos = s.entries[0].Position - 1
	}
	e, err := newEntry(title, pos, s.now())
	if err != nil {
		return Entry{}, err
	}
	s.entries = slices.Insert(s.entries, 0, e)
	return e, nil
}

func (s *MemorySource) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return nil
}
