package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goyalg325/wikiserver/internal/auth"
)

// Authenticator resolves the Authorization header into a UserInfo on the
// request context. A missing header yields the anonymous identity and the
// request continues; the authorizer decides whether anonymous is enough. A
// header that is present but malformed or unverifiable is rejected outright
// with 401, never downgraded to anonymous.
func Authenticator(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				ctx := SetUserInfo(r.Context(), &UserInfo{Role: AnonymousRole})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w)
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := SetUserInfo(r.Context(), &UserInfo{Username: claims.Username, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
