package content

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/internal/storage"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	data := filepath.Join(root, "data")
	s := NewStore(
		data,
		filepath.Join(root, "uploads"),
		filepath.Join(data, "content.json"),
		filepath.Join(data, "content.published.json"),
		filepath.Join(data, "contacts.json"),
	)
	require.NoError(t, s.Initialize())
	return s
}

func TestInitializeSeedsFiles(t *testing.T) {
	s := newTestStore(t)

	for _, f := range []string{s.ContentFile, s.PublishedFile, s.ContactsFile} {
		_, err := os.Stat(f)
		require.NoError(t, err, "expected %s to exist after initialize", f)
	}

	// published starts identical to draft
	draft, err := os.ReadFile(s.ContentFile)
	require.NoError(t, err)
	published, err := os.ReadFile(s.PublishedFile)
	require.NoError(t, err)
	require.Equal(t, draft, published)
}

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	inputs := []map[string]any{
		{},
		{"siteInfo": map[string]any{"title": "Clinic"}},
		{"sectionsOrder": []any{"hero", "about", "cta"}},
		{"insurance": map[string]any{"blurb": map[string]any{"en": "custom"}}},
		nil,
	}
	for _, in := range inputs {
		once := EnsureDefaults(cloneDoc(in))
		twice := EnsureDefaults(cloneDoc(once))
		require.JSONEq(t, mustJSON(t, once), mustJSON(t, twice))
	}
}

func TestEnsureDefaultsBackfillsSchema(t *testing.T) {
	doc := EnsureDefaults(map[string]any{})
	for _, key := range []string{
		"siteInfo", "contact", "stats", "sectionsOrder", "sectionVisibility",
		"services", "aboutSection", "footer", "insurance", "teamSection",
		"testimonialsSection", "contactSection", "testimonials", "experts",
	} {
		require.Contains(t, doc, key)
	}
}

func TestEnsureDefaultsInsertsDerivedSectionsBeforeAbout(t *testing.T) {
	doc := EnsureDefaults(map[string]any{
		"sectionsOrder": []any{"hero", "services", "about", "cta"},
	})
	order := doc["sectionsOrder"].([]any)
	require.Equal(t, []any{"hero", "services", "testimonials", "news", "updates", "articles", "about", "cta"}, order)

	vis := doc["sectionVisibility"].(map[string]any)
	for _, id := range []string{"testimonials", "news", "updates", "articles"} {
		require.Equal(t, true, vis[id])
	}
}

func TestEnsureDefaultsDoesNotShareReferences(t *testing.T) {
	a := EnsureDefaults(map[string]any{})
	b := EnsureDefaults(map[string]any{})
	a["teamSection"].(map[string]any)["heading"] = "mutated"
	require.NotEqual(t, "mutated", b["teamSection"].(map[string]any)["heading"])
}

func TestWriteDraftRoundTrip(t *testing.T) {
	s := newTestStore(t)
	doc := map[string]any{"siteInfo": map[string]any{"title": "Edited"}}
	require.NoError(t, s.WriteDraft(doc))

	got, err := s.ReadDraft()
	require.NoError(t, err)
	require.Equal(t, "Edited", got["siteInfo"].(map[string]any)["title"])
	// backfill applied on read
	require.Contains(t, got, "footer")

	// backup of the prior draft was taken
	matches, err := filepath.Glob(filepath.Join(s.DataDir, "content.draft.backup.*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestWriteDraftRejectsNil(t *testing.T) {
	s := newTestStore(t)
	require.Error(t, s.WriteDraft(nil))
}

func TestPublishCopiesDraftBytesVerbatim(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteDraft(map[string]any{"siteInfo": map[string]any{"title": "v2"}}))
	require.NoError(t, s.Publish())

	draft, err := os.ReadFile(s.ContentFile)
	require.NoError(t, err)
	published, err := os.ReadFile(s.PublishedFile)
	require.NoError(t, err)
	require.Equal(t, draft, published, "publish must be a byte-for-byte copy")
}

func TestReadDraftCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.ContentFile, []byte("{broken"), 0o644))
	_, err := s.ReadDraft()
	require.True(t, errors.Is(err, storage.ErrUnavailable))
}

func TestAppendContact(t *testing.T) {
	s := newTestStore(t)
	rec := models.ContactSubmission{
		ID: "c-1", FirstName: "A", LastName: "B",
		Email: "a@b.co", Phone: "123", Concern: "support",
		CreatedAt: "2026-01-02T03:04:05Z",
	}
	require.NoError(t, s.AppendContact(rec))
	require.NoError(t, s.AppendContact(models.ContactSubmission{ID: "c-2"}))

	list, err := s.ReadContacts()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "c-1", list[0].ID)
	require.Equal(t, "c-2", list[1].ID)
}

func TestAppendContactRejectsNonListStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.ContactsFile, []byte(`{"not":"a list"}`), 0o644))
	err := s.AppendContact(models.ContactSubmission{ID: "c-3"})
	require.True(t, errors.Is(err, storage.ErrUnavailable))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func cloneDoc(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	b, _ := json.Marshal(doc)
	var out map[string]any
	_ = json.Unmarshal(b, &out)
	return out
}
