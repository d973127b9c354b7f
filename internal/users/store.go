package users

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/internal/storage"
	"github.com/cccenter/site-backend/pkg/logger"
)

const bcryptCost = 12

// ErrNoBootstrapPassword is returned when the credentials file is missing
// and no bootstrap password is configured. Serving traffic without any
// account would leave the admin surface unreachable forever, so startup
// treats this as fatal.
var ErrNoBootstrapPassword = errors.New("users file missing and no bootstrap password configured")

// Store persists credential records as a username-keyed object in a single
// JSON file.
type Store struct {
	UsersFile string
}

func NewStore(usersFile string) *Store {
	return &Store{UsersFile: usersFile}
}

// Read loads the full user map. A missing file yields an empty map; a file
// that exists but does not parse as an object is reported as unavailable
// rather than silently replaced.
func (s *Store) Read() (map[string]models.User, error) {
	if _, err := os.Stat(s.UsersFile); os.IsNotExist(err) {
		logger.Warnw("Users file missing", map[string]any{"file": s.UsersFile})
		return map[string]models.User{}, nil
	}
	users := map[string]models.User{}
	if err := storage.ReadJSON(s.UsersFile, []byte("{}"), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) Write(users map[string]models.User) error {
	data, err := storage.MarshalIndent(users)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	return storage.WriteAtomic(s.UsersFile, data)
}

// Entry pairs a user record with the map key it lives under. The key is
// normally the username but may diverge after a rename interrupted mid-write,
// so lookups match on both.
type Entry struct {
	Key  string
	User models.User
}

func findEntry(users map[string]models.User, username string) *Entry {
	target := strings.TrimSpace(username)
	if target == "" {
		return nil
	}
	if u, ok := users[target]; ok {
		return &Entry{Key: target, User: u}
	}
	for key, u := range users {
		if strings.TrimSpace(u.Username) == target {
			return &Entry{Key: key, User: u}
		}
	}
	return nil
}

// GetByUsername returns the matching entry or nil when no account matches.
func (s *Store) GetByUsername(username string) (*Entry, error) {
	users, err := s.Read()
	if err != nil {
		return nil, err
	}
	return findEntry(users, username), nil
}

// UpdateLastLogin stamps the account's lastLoginAt. Best effort: failures
// are logged and swallowed so a login never fails on the bookkeeping write.
func (s *Store) UpdateLastLogin(username, isoTime string) {
	users, err := s.Read()
	if err != nil {
		logger.Errorw("Failed to update last login", map[string]any{"error": err.Error()})
		return
	}
	entry := findEntry(users, username)
	if entry == nil {
		return
	}
	if isoTime == "" {
		isoTime = time.Now().UTC().Format(time.RFC3339)
	}
	u := entry.User
	u.LastLoginAt = &isoTime
	users[entry.Key] = u
	if err := s.Write(users); err != nil {
		logger.Errorw("Failed to update last login", map[string]any{"error": err.Error()})
	}
}

// UpdateCredentialsParams carries a verified-current-password credential
// change request.
type UpdateCredentialsParams struct {
	CurrentUsername string
	CurrentPassword string
	NewUsername     string
	NewPassword     string
}

// UpdateCredentialsResult mirrors the HTTP outcome of the change: Status is
// the response code the web layer should use.
type UpdateCredentialsResult struct {
	Status          int
	Error           string
	User            *models.PublicUser
	UsernameChanged bool
}

// UpdateCredentials verifies the current password, then applies an optional
// username rename and an optional password change in one write.
func (s *Store) UpdateCredentials(params UpdateCredentialsParams) (UpdateCredentialsResult, error) {
	users, err := s.Read()
	if err != nil {
		return UpdateCredentialsResult{}, err
	}

	oldEntry := findEntry(users, params.CurrentUsername)
	if oldEntry == nil {
		return UpdateCredentialsResult{Status: 404, Error: "Account not found"}, nil
	}
	oldKey := oldEntry.Key
	oldUser := oldEntry.User

	if bcrypt.CompareHashAndPassword([]byte(oldUser.Password), []byte(params.CurrentPassword)) != nil {
		return UpdateCredentialsResult{Status: 401, Error: "Current password is incorrect"}, nil
	}

	normalizedUsername := strings.TrimSpace(params.NewUsername)
	if normalizedUsername == "" {
		normalizedUsername = oldKey
	}

	nextPassword := oldUser.Password
	if params.NewPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(params.NewPassword), bcryptCost)
		if err != nil {
			return UpdateCredentialsResult{}, fmt.Errorf("hash password: %w", err)
		}
		nextPassword = string(hashed)
	}

	if existing := findEntry(users, normalizedUsername); existing != nil && existing.Key != oldKey {
		return UpdateCredentialsResult{Status: 409, Error: "Username is already in use"}, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	updated := oldUser
	updated.Username = normalizedUsername
	updated.Password = nextPassword
	updated.UpdatedAt = now
	if updated.CreatedAt == "" {
		updated.CreatedAt = now
	}

	if normalizedUsername != oldKey {
		delete(users, oldKey)
	}
	users[normalizedUsername] = updated
	if err := s.Write(users); err != nil {
		return UpdateCredentialsResult{}, err
	}

	pub := updated.Public()
	return UpdateCredentialsResult{
		Status:          200,
		User:            &pub,
		UsernameChanged: normalizedUsername != oldKey,
	}, nil
}

// EnsureBootstrap creates the users file with a single admin account on
// first run. When the file already exists this is a no-op. When it is
// missing and no bootstrap password was configured, ErrNoBootstrapPassword
// is returned and the caller must refuse to start.
func (s *Store) EnsureBootstrap(username, password, email string) error {
	if _, err := os.Stat(s.UsersFile); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat users file: %w", err)
	}

	if password == "" {
		return ErrNoBootstrapPassword
	}
	if username == "" {
		username = "admin"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	users := map[string]models.User{
		username: {
			Username:  username,
			Email:     email,
			Password:  string(hashed),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.Write(users); err != nil {
		return err
	}
	logger.Warnw("Users file created with bootstrap account", map[string]any{"username": username})
	return nil
}
