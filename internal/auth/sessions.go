// Package auth implements Discord login, session cookies, and the
// authenticated-user endpoints.
package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/woneyH/game-pot/internal/platform/errors"
	"github.com/woneyH/game-pot/internal/platform/requestctx"
)

// sessionCookieName carries the signed session token.
const sessionCookieName = "gp_session"

// Sessions issues and verifies signed session tokens. Tokens are
// self-contained so the server keeps no session table.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates a session manager signing with the given secret.
func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a session token for the given user id.
func (s *Sessions) Issue(userID string) (string, error) {
	now := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns the user id it names.
func (s *Sessions) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", errors.Wrap(errors.CodeSessionInvalid, "invalid session token", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New(errors.CodeSessionInvalid, "invalid session token")
	}
	return claims.Subject, nil
}

// Middleware resolves the session cookie into a request-scoped user id.
// Requests without a valid session pass through unauthenticated; handlers
// that require identity reject them.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err == nil {
			if userID, err := s.Verify(cookie.Value); err == nil {
				r = r.WithContext(requestctx.WithUserID(r.Context(), userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// setSessionCookie writes the session cookie to the response.
func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
