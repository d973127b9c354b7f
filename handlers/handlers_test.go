package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cccenter/site-backend/internal/audit"
	"github.com/cccenter/site-backend/internal/config"
	"github.com/cccenter/site-backend/internal/content"
	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/internal/posts"
	"github.com/cccenter/site-backend/internal/routing"
	"github.com/cccenter/site-backend/internal/sessions"
	"github.com/cccenter/site-backend/internal/tokens"
	"github.com/cccenter/site-backend/internal/users"
	"github.com/cccenter/site-backend/pkg/middleware"
)

type testEnv struct {
	cfg       *config.Config
	router    *gin.Engine
	contentSt *content.Store
	postsSt   *posts.Store
	usersSt   *users.Store
	sessions  *sessions.Service
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Paths: config.PathsConfig{
			RootDir:              root,
			DataDir:              dataDir,
			UploadsDir:           filepath.Join(root, "uploads"),
			BackupsDir:           filepath.Join(root, "backups"),
			WebsiteDir:           filepath.Join(root, "website"),
			AdminDir:             filepath.Join(root, "admin"),
			ContentFile:          filepath.Join(dataDir, "content.json"),
			PublishedContentFile: filepath.Join(dataDir, "content.published.json"),
			PostsFile:            filepath.Join(dataDir, "posts.json"),
			PublishedPostsFile:   filepath.Join(dataDir, "posts.published.json"),
			UsersFile:            filepath.Join(dataDir, "users.json"),
			ContactsFile:         filepath.Join(dataDir, "contacts.json"),
			AuditFile:            filepath.Join(dataDir, "audit.log"),
		},
		Session: config.SessionConfig{Secret: "handlers-test-secret-32-bytes-xxx", TTL: time.Hour},
		SiteURL: "https://clinic.example",
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := newTestConfig(t)

	contentSt := content.NewStore(cfg.Paths.DataDir, cfg.Paths.UploadsDir, cfg.Paths.ContentFile, cfg.Paths.PublishedContentFile, cfg.Paths.ContactsFile)
	require.NoError(t, contentSt.Initialize())
	postsSt := posts.NewStore(cfg.Paths.DataDir, cfg.Paths.PostsFile, cfg.Paths.PublishedPostsFile)
	require.NoError(t, postsSt.EnsureFiles())

	usersSt := users.NewStore(cfg.Paths.UsersFile)
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, usersSt.Write(map[string]models.User{
		"admin": {Username: "admin", Email: "admin@clinic.example", Password: string(hashed), CreatedAt: "2026-01-01T00:00:00Z"},
	}))

	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	sessionsSvc := sessions.NewService(sessions.NewRedisRepository(client, ""))

	auditLog := audit.New(cfg.Paths.AuditFile)
	dispatcher := routing.NewDispatcher(cfg.SMTP, nil)

	r := gin.New()
	NewPublicHandler(cfg, contentSt, postsSt, dispatcher, auditLog).Register(r)
	NewAuthHandler(cfg, usersSt, sessionsSvc, auditLog).Register(r)
	NewAdminHandler(cfg, contentSt, postsSt, sessionsSvc, auditLog, nil).Register(r)

	return &testEnv{cfg: cfg, router: r, contentSt: contentSt, postsSt: postsSt, usersSt: usersSt, sessions: sessionsSvc}
}

// adminCookie creates a session directly so admin tests don't drain the
// login rate limit bucket.
func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	sid, err := e.sessions.CreateSession(context.Background(), "admin", time.Hour)
	require.NoError(t, err)
	tok, err := tokens.GenerateSessionToken(e.cfg.Session.Secret, tokens.SessionClaims{SessionID: sid, Username: "admin"}, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: tok}
}

func (e *testEnv) csrfFor(cookie *http.Cookie) string {
	return tokens.CSRFToken(e.cfg.Session.Secret, cookie.Value)
}

type reqOpt func(*http.Request)

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) { r.AddCookie(c) }
}

func withCSRF(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-CSRF-Token", token) }
}

func withRemoteAddr(addr string) reqOpt {
	return func(r *http.Request) { r.RemoteAddr = addr }
}

func (e *testEnv) do(method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
