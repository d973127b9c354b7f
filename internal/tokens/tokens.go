package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, tampered, expired, or wrongly signed
// session tokens.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is what the signed session cookie carries: the Redis session
// id plus the account it belongs to.
type SessionClaims struct {
	SessionID string
	Username  string
}

// GenerateSessionToken signs a JWT wrapping the session id. The token itself
// proves nothing beyond authenticity; authorization still requires the
// referenced session to exist in Redis.
func GenerateSessionToken(secret string, claims SessionClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": claims.SessionID,
		"sub": claims.Username,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return jt.SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry and returns the claims.
func ParseSessionToken(secret, tokenStr string) (SessionClaims, error) {
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	sid, _ := mc["sid"].(string)
	sub, _ := mc["sub"].(string)
	if sid == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	return SessionClaims{SessionID: sid, Username: sub}, nil
}

// CSRFToken derives the anti-forgery token for a session token. Deriving it
// keeps the scheme stateless: the server recomputes and compares instead of
// storing a second secret per session.
func CSRFToken(secret, sessionToken string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sessionToken))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCSRF compares a presented token against the derived one in constant
// time.
func VerifyCSRF(secret, sessionToken, presented string) bool {
	if presented == "" {
		return false
	}
	expected := CSRFToken(secret, sessionToken)
	return hmac.Equal([]byte(expected), []byte(presented))
}
