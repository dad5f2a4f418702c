package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func issueRequest(t *testing.T, m *SessionManager, userID int64) *http.Request {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := m.Issue(rr, userID); err != nil {
		t.Fatalf("issue: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("test-secret-test-secret", 15*time.Minute)
	req := issueRequest(t, m, 42)

	userID, err := m.Verify(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 42 {
		t.Fatalf("userID = %d, want 42", userID)
	}
}

func TestVerifyWithoutCookie(t *testing.T) {
	m := NewSessionManager("test-secret-test-secret", 15*time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := m.Verify(httptest.NewRecorder(), req); err != ErrNoSession {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewSessionManager("issuer-secret-issuer-secret", 15*time.Minute)
	verifier := NewSessionManager("other-secret-other-secret", 15*time.Minute)
	req := issueRequest(t, issuer, 7)

	if _, err := verifier.Verify(httptest.NewRecorder(), req); err != ErrInvalidSession {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewSessionManager("test-secret-test-secret", 15*time.Minute)
	token, err := m.sign(9, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})

	if _, err := m.Verify(httptest.NewRecorder(), req); err != ErrInvalidSession {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}

func TestVerifySlidingRenewal(t *testing.T) {
	m := NewSessionManager("test-secret-test-secret", 15*time.Minute)
	// Token already past half its lifetime.
	token, err := m.sign(5, time.Now().Add(-10*time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})

	rr := httptest.NewRecorder()
	userID, err := m.Verify(rr, req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 5 {
		t.Fatalf("userID = %d, want 5", userID)
	}
	if len(rr.Result().Cookies()) == 0 {
		t.Fatalf("expected renewed cookie past half lifetime")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}
