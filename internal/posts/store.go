package posts

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/internal/storage"
)

// Store persists the post collection and its derived published projection.
// The published file is never patched incrementally: every change recomputes
// it in full from the draft collection's publish flags.
type Store struct {
	DataDir       string
	PostsFile     string
	PublishedFile string
}

func NewStore(dataDir, postsFile, publishedFile string) *Store {
	return &Store{DataDir: dataDir, PostsFile: postsFile, PublishedFile: publishedFile}
}

// Normalize guarantees a record carries every Post field with sane values
// regardless of its on-disk vintage. Unknown types coerce to "news".
func Normalize(p models.Post) models.Post {
	now := time.Now().UTC().Format(time.RFC3339)
	if !models.ValidPostType(p.Type) {
		p.Type = "news"
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t != "" {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
	if p.CreatedAt == "" {
		p.CreatedAt = now
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = now
	}
	return p
}

func normalizeAll(in []models.Post) []models.Post {
	out := make([]models.Post, len(in))
	for i, p := range in {
		out[i] = Normalize(p)
	}
	return out
}

// EnsureFiles seeds empty collections when absent.
func (s *Store) EnsureFiles() error {
	if err := storage.EnsureDir(s.DataDir); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}
	for _, f := range []string{s.PostsFile, s.PublishedFile} {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			if err := storage.WriteAtomic(f, []byte("[]")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) read(path string) ([]models.Post, error) {
	var list []models.Post
	if err := storage.ReadJSON(path, []byte("[]"), &list); err != nil {
		return nil, err
	}
	return normalizeAll(list), nil
}

// ReadAll loads and normalizes the full draft collection.
func (s *Store) ReadAll() ([]models.Post, error) {
	return s.read(s.PostsFile)
}

// ReadPublished loads and normalizes the published projection.
func (s *Store) ReadPublished() ([]models.Post, error) {
	return s.read(s.PublishedFile)
}

// WriteAll backs up and atomically rewrites the full collection,
// re-normalizing each record on the way out.
func (s *Store) WriteAll(list []models.Post) error {
	b, err := storage.MarshalIndent(normalizeAll(list))
	if err != nil {
		return fmt.Errorf("marshal posts: %w", err)
	}
	storage.BackupBeforeWrite(s.DataDir, s.PostsFile, "posts.draft.backup")
	return storage.WriteAtomic(s.PostsFile, b)
}

// SyncPublished recomputes the published projection — all posts flagged
// isPublished, newest first — and atomically replaces the published file.
func (s *Store) SyncPublished(list []models.Post) error {
	published := make([]models.Post, 0, len(list))
	for _, p := range list {
		if p.IsPublished {
			published = append(published, p)
		}
	}
	published = SortByDate(published)
	b, err := storage.MarshalIndent(normalizeAll(published))
	if err != nil {
		return fmt.Errorf("marshal published posts: %w", err)
	}
	storage.BackupBeforeWrite(s.DataDir, s.PublishedFile, "posts.published.backup")
	return storage.WriteAtomic(s.PublishedFile, b)
}

// SortByDate returns a copy sorted by createdAt descending. The sort is
// stable: ties keep their original relative order.
func SortByDate(list []models.Post) []models.Post {
	out := make([]models.Post, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return parseTime(out[i].CreatedAt).After(parseTime(out[j].CreatedAt))
	})
	return out
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// EnsureUniqueSlug resolves slug collisions against the existing collection.
// The post identified by currentID is excluded (its own slug is not a
// collision). The first free numeric suffix wins: slug, slug-2, slug-3, …
func EnsureUniqueSlug(list []models.Post, slug, currentID string) string {
	taken := func(candidate string) bool {
		for _, p := range list {
			if p.Slug == candidate && p.ID != currentID {
				return true
			}
		}
		return false
	}
	candidate := slug
	for counter := 2; taken(candidate); counter++ {
		candidate = fmt.Sprintf("%s-%d", slug, counter)
	}
	return candidate
}
