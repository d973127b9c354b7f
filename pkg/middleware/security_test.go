package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSecuredRouter(upgradeInsecure bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(upgradeInsecure), BlockSensitivePaths())
	r.NoRoute(func(c *gin.Context) { c.String(200, "page") })
	return r
}

func TestSecurityHeadersSet(t *testing.T) {
	r := newSecuredRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/index.html", nil))

	require.Equal(t, http.StatusOK, w.Code)
	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.NotContains(t, csp, "upgrade-insecure-requests")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestSecurityHeadersUpgradeInProd(t *testing.T) {
	r := newSecuredRouter(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "upgrade-insecure-requests")
}

func TestBlockSensitivePaths(t *testing.T) {
	r := newSecuredRouter(false)

	for _, path := range []string{"/data", "/data/contacts.json", "/logs/app.log", "/.env", "/.git/config"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/about", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
