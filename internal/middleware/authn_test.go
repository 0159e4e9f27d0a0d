//go:build unit

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goyalg325/wikiserver/internal/auth"
)

func captureIdentity(t *testing.T, tokens *auth.TokenManager, header string) (*UserInfo, *httptest.ResponseRecorder) {
	t.Helper()
	var got *UserInfo
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserInfo(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	Authenticator(tokens)(next).ServeHTTP(rec, req)
	return got, rec
}

func TestAuthenticator_MissingHeaderIsAnonymous(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)

	got, rec := captureIdentity(t, tokens, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("request without header must continue, got %d", rec.Code)
	}
	if got == nil || got.Role != AnonymousRole || got.Username != "" {
		t.Errorf("expected anonymous identity, got %+v", got)
	}
}

func TestAuthenticator_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	token, err := tokens.Generate("alice", "Editor")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	got, rec := captureIdentity(t, tokens, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request to continue, got %d", rec.Code)
	}
	if got == nil || got.Username != "alice" || got.Role != "Editor" {
		t.Errorf("unexpected identity: %+v", got)
	}
}

// A present but broken header is rejected, never downgraded to anonymous.
func TestAuthenticator_RejectsBadHeaders(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	otherTokens := auth.NewTokenManager("other-secret", time.Hour)
	forged, err := otherTokens.Generate("alice", "Admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"no scheme", "token-without-scheme"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong signing key", "Bearer " + forged},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, rec := captureIdentity(t, tokens, tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if got != nil {
				t.Errorf("handler must not run, saw identity %+v", got)
			}
		})
	}
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", -time.Minute)
	token, err := tokens.Generate("alice", "Editor")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, rec := captureIdentity(t, tokens, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}
