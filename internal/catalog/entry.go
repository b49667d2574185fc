// Package catalog provides the entries browsed by listkit and the sources
// that serve them a page at a time.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPerPage is used when a query does not set PerPage.
const DefaultPerPage = 20

// MaxPerPage caps PerPage on every source.
const MaxPerPage = 100

var (
	ErrNotFound = errors.New("entry not found")
	ErrReadOnly = errors.New("source is read-only")
)

type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// SameEntry reports whether a and b carry the same ID.
func SameEntry(a, b Entry) bool { return a.ID == b.ID }

// PageQuery selects one page of entries, optionally narrowed by Query.
type PageQuery struct {
	Page    int
	PerPage int
	Query   string
}

// Normalize clamps the paging fields and trims the query.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	q.PerPage = min(q.PerPage, MaxPerPage)
	q.Query = strings.TrimSpace(q.Query)
	return q
}

func (q PageQuery) offset() int { return q.Page * q.PerPage }

// Source serves entries a page at a time. An empty page marks the end.
type Source interface {
	Page(ctx context.Context, q PageQuery) ([]Entry, error)
}

// Mutator is implemented by sources that accept writes.
type Mutator interface {
	Create(ctx context.Context, title string) (Entry, error)
	Delete(ctx context.Context, id string) error
}

// fixtureNS namespaces the generated fixture IDs so they are stable across runs.
var fixtureNS = uuid.MustParse("6f1d3c52-8a0e-4c1b-9b53-2f0f7f8d8c11")

var (
	adjectives = []string{"Amber", "Brisk", "Cobalt", "Dusky", "Ember", "Frosty", "Gilded", "Hollow", "Ivory", "Jade", "Lunar", "Mossy"}
	nouns      = []string{"Falcon", "Harbor", "Lantern", "Meadow", "Orchid", "Quarry", "Raven", "Summit", "Timber", "Willow"}
)

// Generate returns n deterministic fixture entries with positions 0..n-1.
func Generate(n int) []Entry {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	out := make([]Entry, 0, max(n, 0))
	for i := range max(n, 0) {
		adj := adjectives[i%len(adjectives)]
		noun := nouns[(i/len(adjectives))%len(nouns)]
		out = append(out, Entry{
			ID:        uuid.NewSHA1(fixtureNS, []byte(fmt.Sprintf("entry-%d", i))).String(),
			Title:     fmt.Sprintf("%s %s %03d", adj, noun, i),
			Detail:    fmt.Sprintf("generated entry #%d", i),
			Position:  i,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func newEntry(title string, position int, now time.Time) (Entry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Entry{}, errors.New("title is empty")
	}
	return Entry{
		ID:        uuid.NewString(),
		Title:     title,
		Position:  position,
		CreatedAt: now.UTC().Truncate(time.Second),
	}, nil
}
