package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cccenter/site-backend/internal/sessions"
	"github.com/cccenter/site-backend/internal/tokens"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "cc_session"

// ContextUsernameKey is where RequireAuth stores the authenticated username.
const ContextUsernameKey = "username"

// contextSessionTokenKey holds the raw cookie value so RequireCSRF can
// re-derive the expected anti-forgery token.
const contextSessionTokenKey = "sessionToken"

// RequireAuth verifies the session cookie: parse the signed token, then
// confirm the referenced session still exists in Redis. A nil service means
// the session backend is down, which degrades all authenticated routes to 503
// rather than silently letting requests through.
func RequireAuth(svc *sessions.Service, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication service unavailable"})
			return
		}

		raw, err := c.Cookie(SessionCookieName)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := tokens.ParseSessionToken(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		sess, err := svc.Validate(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication service unavailable"})
			return
		}
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set(ContextUsernameKey, sess.Username)
		c.Set(contextSessionTokenKey, raw)
		c.Next()
	}
}

// RequireCSRF checks the X-CSRF-Token header against the token derived from
// the session cookie. Must run after RequireAuth.
func RequireCSRF(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := c.GetString(contextSessionTokenKey)
		presented := c.GetHeader("X-CSRF-Token")
		if sessionToken == "" || !tokens.VerifyCSRF(secret, sessionToken, presented) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
			return
		}
		c.Next()
	}
}
