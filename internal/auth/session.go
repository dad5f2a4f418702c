package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "fintrack_session"

type ctxKey int

const userIDKey ctxKey = 0

var (
	ErrNoSession      = errors.New("no active session")
	ErrInvalidSession = errors.New("invalid session token")
)

// SessionManager issues and verifies signed session cookies. A session
// is an HS256 JWT whose subject is the user id, expiring after ttl.
// Verification re-issues the cookie once the token is past half its
// lifetime, giving the sliding window the login flow promises.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

// Issue sets a fresh session cookie for the given user.
func (m *SessionManager) Issue(w http.ResponseWriter, userID int64) error {
	token, err := m.sign(userID, time.Now())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Verify extracts and validates the session from the request cookie,
// returning the authenticated user id. When the token has passed half
// its lifetime a renewed cookie is written to w.
func (m *SessionManager) Verify(w http.ResponseWriter, r *http.Request) (int64, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, ErrNoSession
	}

	token, err := jwt.ParseWithClaims(c.Value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidSession
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidSession
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidSession
	}

	// Sliding renewal.
	if claims.ExpiresAt != nil && w != nil {
		remaining := time.Until(claims.ExpiresAt.Time)
		if remaining < m.ttl/2 {
			_ = m.Issue(w, userID)
		}
	}

	return userID, nil
}

func (m *SessionManager) sign(userID int64, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// WithUserID stores the authenticated user id in the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
