package posts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cccenter/site-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(dir, filepath.Join(dir, "posts.json"), filepath.Join(dir, "posts.published.json"))
	require.NoError(t, s.EnsureFiles())
	return s
}

func TestEnsureFilesSeedsEmptyCollections(t *testing.T) {
	s := newTestStore(t)
	for _, f := range []string{s.PostsFile, s.PublishedFile} {
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		require.JSONEq(t, "[]", string(b))
	}
}

func TestNormalizeCoercesUnknownType(t *testing.T) {
	p := Normalize(models.Post{Title: "x", Type: "editorial"})
	require.Equal(t, "news", p.Type)
	require.NotEmpty(t, p.CreatedAt)
	require.NotEmpty(t, p.UpdatedAt)

	p2 := Normalize(models.Post{Type: "update", Tags: []string{"a", "", "b"}})
	require.Equal(t, "update", p2.Type)
	require.Equal(t, []string{"a", "b"}, p2.Tags)
}

func TestWriteAllAndReadAll(t *testing.T) {
	s := newTestStore(t)
	list := []models.Post{
		{ID: "p-1", Title: "First", Slug: "first", Type: "news", CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-01T00:00:00Z"},
		{ID: "p-2", Title: "Second", Slug: "second", Type: "bogus", CreatedAt: "2026-01-02T00:00:00Z", UpdatedAt: "2026-01-02T00:00:00Z"},
	}
	require.NoError(t, s.WriteAll(list))

	got, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "news", got[1].Type, "unknown type normalizes on write")
}

func TestSyncPublishedIsFullRecompute(t *testing.T) {
	s := newTestStore(t)
	list := []models.Post{
		{ID: "p-1", Slug: "a", IsPublished: true, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "p-2", Slug: "b", IsPublished: false, CreatedAt: "2026-01-02T00:00:00Z"},
		{ID: "p-3", Slug: "c", IsPublished: true, CreatedAt: "2026-01-03T00:00:00Z"},
	}
	require.NoError(t, s.WriteAll(list))
	require.NoError(t, s.SyncPublished(list))

	published, err := s.ReadPublished()
	require.NoError(t, err)
	require.Len(t, published, 2)
	require.Equal(t, "p-3", published[0].ID, "published projection sorts newest first")
	require.Equal(t, "p-1", published[1].ID)

	// flipping a flag and re-syncing fully replaces the projection
	list[2].IsPublished = false
	require.NoError(t, s.SyncPublished(list))
	published, err = s.ReadPublished()
	require.NoError(t, err)
	require.Len(t, published, 1)
	require.Equal(t, "p-1", published[0].ID)
}

func TestPublishedConsistency(t *testing.T) {
	s := newTestStore(t)
	list := []models.Post{
		{ID: "p-1", Slug: "a", IsPublished: true, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "p-2", Slug: "b", IsPublished: true, CreatedAt: "2026-01-02T00:00:00Z"},
		{ID: "p-3", Slug: "c", IsPublished: false, CreatedAt: "2026-01-03T00:00:00Z"},
	}
	require.NoError(t, s.WriteAll(list))
	require.NoError(t, s.SyncPublished(list))

	published, err := s.ReadPublished()
	require.NoError(t, err)
	byID := map[string]bool{}
	for _, p := range published {
		byID[p.ID] = true
	}
	for _, p := range list {
		require.Equal(t, p.IsPublished, byID[p.ID], "post %s publish flag must match projection membership", p.ID)
	}
}

func TestSortByDateStableOnTies(t *testing.T) {
	same := "2026-01-01T00:00:00Z"
	list := []models.Post{
		{ID: "p-1", CreatedAt: same},
		{ID: "p-2", CreatedAt: same},
		{ID: "p-3", CreatedAt: "2026-02-01T00:00:00Z"},
	}
	sorted := SortByDate(list)
	require.Equal(t, "p-3", sorted[0].ID)
	require.Equal(t, "p-1", sorted[1].ID, "ties keep original relative order")
	require.Equal(t, "p-2", sorted[2].ID)
}

func TestEnsureUniqueSlug(t *testing.T) {
	list := []models.Post{
		{ID: "p-1", Slug: "hello-world"},
		{ID: "p-2", Slug: "hello-world-2"},
	}
	require.Equal(t, "hello-world-3", EnsureUniqueSlug(list, "hello-world", "p-9"))
	require.Equal(t, "fresh", EnsureUniqueSlug(list, "fresh", "p-9"))
	// a post keeps its own slug on update
	require.Equal(t, "hello-world", EnsureUniqueSlug(list, "hello-world", "p-1"))
}
