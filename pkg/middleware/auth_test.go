package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/cccenter/site-backend/internal/sessions"
	"github.com/cccenter/site-backend/internal/tokens"
)

const testSecret = "middleware-test-secret-32-bytes-xx"

func newAuthService(t *testing.T) *sessions.Service {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return sessions.NewService(sessions.NewRedisRepository(client, ""))
}

func protectedRouter(svc *sessions.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(svc, testSecret), func(c *gin.Context) {
		c.JSON(200, gin.H{"username": c.GetString(ContextUsernameKey)})
	})
	r.POST("/mutate", RequireAuth(svc, testSecret), RequireCSRF(testSecret), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func loginCookie(t *testing.T, svc *sessions.Service) *http.Cookie {
	t.Helper()
	sid, err := svc.CreateSession(context.Background(), "admin", time.Hour)
	require.NoError(t, err)
	tok, err := tokens.GenerateSessionToken(testSecret, tokens.SessionClaims{SessionID: sid, Username: "admin"}, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: tok}
}

func TestRequireAuthMissingCookie(t *testing.T) {
	r := protectedRouter(newAuthService(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBadToken(t *testing.T) {
	r := protectedRouter(newAuthService(t))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthValidSession(t *testing.T) {
	svc := newAuthService(t)
	r := protectedRouter(svc)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(loginCookie(t, svc))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "admin")
}

func TestRequireAuthSignedTokenWithDeadSession(t *testing.T) {
	svc := newAuthService(t)
	r := protectedRouter(svc)

	// token is validly signed but its session id was never stored
	tok, err := tokens.GenerateSessionToken(testSecret, tokens.SessionClaims{SessionID: "gone", Username: "admin"}, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthNilServiceDegradesTo503(t *testing.T) {
	r := protectedRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "Authentication service unavailable")
}

func TestRequireCSRF(t *testing.T) {
	svc := newAuthService(t)
	r := protectedRouter(svc)
	cookie := loginCookie(t, svc)

	// without header
	req := httptest.NewRequest("POST", "/mutate", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	// with derived token
	req2 := httptest.NewRequest("POST", "/mutate", nil)
	req2.AddCookie(cookie)
	req2.Header.Set("X-CSRF-Token", tokens.CSRFToken(testSecret, cookie.Value))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)
}
