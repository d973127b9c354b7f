package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/cccenter/site-backend/internal/audit"
	"github.com/cccenter/site-backend/internal/config"
	"github.com/cccenter/site-backend/internal/sessions"
	"github.com/cccenter/site-backend/internal/tokens"
	"github.com/cccenter/site-backend/internal/users"
	"github.com/cccenter/site-backend/internal/validation"
	"github.com/cccenter/site-backend/pkg/logger"
	"github.com/cccenter/site-backend/pkg/middleware"
)

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthHandler holds dependencies. sessionsSvc may be nil when Redis is down;
// every session-backed route then answers 503 instead of serving requests it
// cannot authenticate.
type AuthHandler struct {
	cfg         *config.Config
	usersStore  *users.Store
	sessionsSvc *sessions.Service
	audit       *audit.Logger
}

func NewAuthHandler(cfg *config.Config, u *users.Store, s *sessions.Service, a *audit.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersStore: u, sessionsSvc: s, audit: a}
}

// Register wires the auth routes. The login endpoint carries its own rate
// limit; the credential update additionally requires a CSRF token.
func (h *AuthHandler) Register(r *gin.Engine) {
	r.POST("/login", h.ensureSessionAvailable, middleware.RateLimitMiddleware("login", 0.0056, 5), h.Login)
	r.POST("/logout", h.ensureSessionAvailable, h.Logout)
	r.GET("/api/auth/check", h.ensureSessionAvailable, h.Check)
	r.PUT("/api/user/update-credentials",
		h.ensureSessionAvailable,
		middleware.RequireAuth(h.sessionsSvc, h.cfg.Session.Secret),
		middleware.RateLimitMiddleware("credentials", 0.0056, 5),
		middleware.RequireCSRF(h.cfg.Session.Secret),
		h.UpdateCredentials,
	)
}

func (h *AuthHandler) ensureSessionAvailable(c *gin.Context) {
	if h.sessionsSvc == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication service unavailable"})
		return
	}
	c.Next()
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", h.cfg.IsProd(), true)
}

// issueSession creates a Redis session plus the signed cookie wrapping it.
func (h *AuthHandler) issueSession(c *gin.Context, username string) (string, error) {
	sid, err := h.sessionsSvc.CreateSession(c.Request.Context(), username, h.cfg.Session.TTL)
	if err != nil {
		return "", err
	}
	tok, err := tokens.GenerateSessionToken(h.cfg.Session.Secret, tokens.SessionClaims{SessionID: sid, Username: username}, h.cfg.Session.TTL)
	if err != nil {
		return "", err
	}
	h.setSessionCookie(c, tok, int(h.cfg.Session.TTL.Seconds()))
	return tok, nil
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}
	username, err := validation.SanitizeCredentialText(req.Username, 64)
	if err != nil || username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	entry, err := h.usersStore.GetByUsername(username)
	if err != nil {
		logger.Errorw("Login error", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(entry.User.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tok, err := h.issueSession(c, entry.User.Username)
	if err != nil {
		logger.Errorw("Login error", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	h.usersStore.UpdateLastLogin(entry.User.Username, now)
	h.audit.Record("auth_login_success", map[string]any{"user": entry.User.Username})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Login successful",
		"redirect":  "/dashboard.html",
		"csrfToken": tokens.CSRFToken(h.cfg.Session.Secret, tok),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	raw, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && raw != "" {
		if claims, perr := tokens.ParseSessionToken(h.cfg.Session.Secret, raw); perr == nil {
			if derr := h.sessionsSvc.Delete(c.Request.Context(), claims.SessionID); derr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
				return
			}
		}
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Check(c *gin.Context) {
	raw, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || raw == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	claims, err := tokens.ParseSessionToken(h.cfg.Session.Secret, raw)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	sess, err := h.sessionsSvc.Validate(c.Request.Context(), claims.SessionID)
	if err != nil {
		logger.Errorw("Auth check error", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	entry, err := h.usersStore.GetByUsername(sess.Username)
	if err != nil {
		logger.Errorw("Auth check error", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	pub := entry.User.Public()
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      pub.Username,
		"email":         pub.Email,
		"createdAt":     pub.CreatedAt,
		"lastLoginAt":   pub.LastLoginAt,
	})
}

func (h *AuthHandler) UpdateCredentials(c *gin.Context) {
	currentUser := c.GetString(middleware.ContextUsernameKey)

	var payload validation.CredentialUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials payload."})
		return
	}
	res := validation.ValidateCredentialUpdate(payload)
	if !res.OK {
		status := res.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": res.Error})
		return
	}

	newUsername := res.Data.NewUsername
	if newUsername == "" {
		newUsername = currentUser
	}
	result, err := h.usersStore.UpdateCredentials(users.UpdateCredentialsParams{
		CurrentUsername: currentUser,
		CurrentPassword: res.Data.CurrentPassword,
		NewUsername:     newUsername,
		NewPassword:     res.Data.NewPassword,
	})
	if err != nil {
		logger.Errorw("Credential update failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if result.Status != http.StatusOK {
		h.audit.Record("auth_update_credentials_failed", map[string]any{
			"user":   currentUser,
			"status": result.Status,
		})
		msg := result.Error
		if msg == "" {
			msg = "Unable to update credentials"
		}
		c.JSON(result.Status, gin.H{"error": msg})
		return
	}

	// A rename invalidates the cookie's sub claim, so reissue the session.
	csrfToken := ""
	if result.UsernameChanged {
		tok, serr := h.issueSession(c, result.User.Username)
		if serr != nil {
			logger.Errorw("Credential update failed", map[string]any{"error": serr.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		csrfToken = tokens.CSRFToken(h.cfg.Session.Secret, tok)
	}

	h.audit.Record("auth_update_credentials_success", map[string]any{
		"user":            result.User.Username,
		"usernameChanged": result.UsernameChanged,
		"passwordChanged": res.Data.NewPassword != "",
	})

	resp := gin.H{
		"success": true,
		"message": "Credentials updated successfully",
		"user":    result.User,
	}
	if csrfToken != "" {
		resp["csrfToken"] = csrfToken
	}
	c.JSON(http.StatusOK, resp)
}
