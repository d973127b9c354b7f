package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var cspDirectives = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' https://cdn.tailwindcss.com https://cdnjs.cloudflare.com https://cdn.jsdelivr.net https://www.googletagmanager.com 'unsafe-inline'",
	"style-src 'self' https://fonts.googleapis.com https://cdn.tailwindcss.com 'unsafe-inline'",
	"font-src 'self' https://fonts.gstatic.com https://fonts.googleapis.com",
	"img-src 'self' data: https: blob:",
	"media-src 'self' https: blob:",
	"frame-src https://www.google.com https://www.facebook.com https://facebook.com https://web.facebook.com",
	"connect-src 'self' https://www.google-analytics.com https://www.googletagmanager.com",
	"object-src 'none'",
	"base-uri 'self'",
	"form-action 'self'",
	"frame-ancestors 'none'",
}, "; ")

// SecurityHeaders sets the response headers every page and API response
// carries. upgradeInsecure adds the upgrade-insecure-requests CSP directive,
// which only makes sense behind TLS.
func SecurityHeaders(upgradeInsecure bool) gin.HandlerFunc {
	csp := cspDirectives
	if upgradeInsecure {
		csp += "; upgrade-insecure-requests"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

var blockedPrefixes = []string{"/data", "/logs", "/.env", "/.git"}

// BlockSensitivePaths rejects direct requests for on-disk state that lives
// under the server root.
func BlockSensitivePaths() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, b := range blockedPrefixes {
			if path == b || strings.HasPrefix(path, b) {
				c.String(http.StatusForbidden, "Forbidden")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
