package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, path string) *SQLiteSource {
	t.Helper()
	src, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

func TestSQLiteSeedAndPage(t *testing.T) {
	ctx := context.Background()
	src := openTestDB(t, filepath.Join(t.TempDir(), "data", "listkit.db"))
	gen := Generate(30)
	require.NoError(t, src.Seed(ctx, gen))
	require.NoError(t, src.Seed(ctx, gen), "seeding twice upserts")

	n, err := src.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 30, n)

	first, err := src.Page(ctx, PageQuery{Page: 0, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, first, 10)
	require.Equal(t, gen[0].ID, first[0].ID)
	require.True(t, gen[0].CreatedAt.Equal(first[0].CreatedAt))

	second, err := src.Page(ctx, PageQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 10, second[0].Position)

	past, err := src.Page(ctx, PageQuery{Page: 5, PerPage: 10})
	require.NoError(t, err)
	require.NotNil(t, past)
	require.Empty(t, past)
}

func TestSQLiteSearch(t *testing.T) {
	ctx := context.Background()
	src := openTestDB(t, filepath.Join(t.TempDir(), "listkit.db"))
	require.NoError(t, src.Seed(ctx, Generate(30)))

	got, err := src.Page(ctx, PageQuery{PerPage: MaxPerPage, Query: "falcon"})
	require.NoError(t, err)
	require.Len(t, got, 12)
	for _, title := range titles(got) {
		require.Contains(t, title, "Falcon")
	}

	wild, err := src.Page(ctx, PageQuery{Query: "%"})
	require.NoError(t, err)
	require.Empty(t, wild, "LIKE wildcards are matched literally")
}

func TestSQLiteCreateDeleteAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "listkit.db")
	src := openTestDB(t, path)
	require.NoError(t, src.Seed(ctx, Generate(3)))

	e, err := src.Create(ctx, "fresh")
	require.NoError(t, err)
	require.Equal(t, -1, e.Position)
	page, err := src.Page(ctx, PageQuery{})
	require.NoError(t, err)
	require.Equal(t, "fresh", page[0].Title)

	require.NoError(t, src.Delete(ctx, page[1].ID))
	require.ErrorIs(t, src.Delete(ctx, "missing"), ErrNotFound)
	_, err = src.Create(ctx, "")
	require.Error(t, err)
	require.NoError(t, src.Close())

	again := openTestDB(t, path)
	n, err := again.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}
