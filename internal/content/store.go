package content

import (
	"fmt"
	"os"

	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/internal/storage"
	"github.com/cccenter/site-backend/pkg/logger"
)

// Store persists the draft and published content documents plus the
// append-only contacts collection, all as flat JSON files.
//
// A content document is an arbitrary JSON object: the admin editor owns the
// schema and the store only guarantees atomic persistence and default
// backfill. That trust boundary is deliberate.
type Store struct {
	DataDir       string
	UploadsDir    string
	ContentFile   string
	PublishedFile string
	ContactsFile  string
}

func NewStore(dataDir, uploadsDir, contentFile, publishedFile, contactsFile string) *Store {
	return &Store{
		DataDir:       dataDir,
		UploadsDir:    uploadsDir,
		ContentFile:   contentFile,
		PublishedFile: publishedFile,
		ContactsFile:  contactsFile,
	}
}

func defaultRaw() []byte {
	b, err := storage.MarshalIndent(DefaultDocument())
	if err != nil {
		// the default document is a static literal; this cannot fail at runtime
		panic(err)
	}
	return b
}

// Initialize ensures the data and uploads directories and seeds the content,
// published-content and contacts files when absent. The published file is
// seeded from the draft so both start identical.
func (s *Store) Initialize() error {
	if err := storage.EnsureDir(s.DataDir); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}
	if err := storage.EnsureDir(s.UploadsDir); err != nil {
		return fmt.Errorf("ensure uploads dir: %w", err)
	}

	if _, err := os.Stat(s.ContentFile); os.IsNotExist(err) {
		if err := storage.WriteAtomic(s.ContentFile, defaultRaw()); err != nil {
			return err
		}
		logger.Infof("content file created with default content")
	} else {
		logger.Infof("content file found")
	}

	if _, err := os.Stat(s.PublishedFile); os.IsNotExist(err) {
		draft, err := os.ReadFile(s.ContentFile)
		if err != nil {
			draft = defaultRaw()
		}
		if err := storage.WriteAtomic(s.PublishedFile, draft); err != nil {
			return err
		}
		logger.Infof("published content file created from draft")
	}

	if _, err := os.Stat(s.ContactsFile); os.IsNotExist(err) {
		if err := storage.WriteAtomic(s.ContactsFile, []byte("[]")); err != nil {
			return err
		}
		logger.Infof("contacts file created")
	}

	return nil
}

// ReadDraft loads the draft document and backfills missing fields.
func (s *Store) ReadDraft() (map[string]any, error) {
	var doc map[string]any
	if err := storage.ReadJSON(s.ContentFile, defaultRaw(), &doc); err != nil {
		return nil, err
	}
	return EnsureDefaults(doc), nil
}

// ReadPublished loads the published document and backfills missing fields.
func (s *Store) ReadPublished() (map[string]any, error) {
	var doc map[string]any
	if err := storage.ReadJSON(s.PublishedFile, defaultRaw(), &doc); err != nil {
		return nil, err
	}
	return EnsureDefaults(doc), nil
}

// WriteDraft persists the draft document after backing up the current file.
// The document shape is not validated beyond being an object; the web layer
// owns schema correctness.
func (s *Store) WriteDraft(doc map[string]any) error {
	if doc == nil {
		return fmt.Errorf("content document must be an object")
	}
	b, err := storage.MarshalIndent(doc)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	storage.BackupBeforeWrite(s.DataDir, s.ContentFile, "content.draft.backup")
	return storage.WriteAtomic(s.ContentFile, b)
}

// Publish copies the current draft bytes verbatim into the published file.
// No re-serialization happens, so the published document is byte-for-byte
// what was drafted.
func (s *Store) Publish() error {
	draft, err := os.ReadFile(s.ContentFile)
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	storage.BackupBeforeWrite(s.DataDir, s.PublishedFile, "content.published.backup")
	return storage.WriteAtomic(s.PublishedFile, draft)
}

// ReadContacts loads the contacts collection. A present file that is not a
// JSON array surfaces storage.ErrUnavailable.
func (s *Store) ReadContacts() ([]models.ContactSubmission, error) {
	var list []models.ContactSubmission
	if err := storage.ReadJSON(s.ContactsFile, []byte("[]"), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AppendContact appends one record and rewrites the whole list. Contacts are
// low-frequency, so this write is plain (no temp/rename) — a smaller
// guarantee than the content writes.
func (s *Store) AppendContact(rec models.ContactSubmission) error {
	list, err := s.ReadContacts()
	if err != nil {
		return err
	}
	list = append(list, rec)
	b, err := storage.MarshalIndent(list)
	if err != nil {
		return fmt.Errorf("marshal contacts: %w", err)
	}
	return os.WriteFile(s.ContactsFile, b, 0o644)
}
