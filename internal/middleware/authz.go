package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates a new middleware for authorization. It checks the
// caller's role against the route policy using Casbin. An anonymous caller
// denied access gets 401 (they may be able to log in); an authenticated
// caller denied access gets 403.
func Authorizer(e *casbin.Enforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := GetUserInfo(r.Context())

			subject := userInfo.Role
			if subject == "" {
				subject = AnonymousRole
			}

			allowed, err := e.Enforce(subject, r.URL.Path, r.Method)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "authorization error")
				return
			}

			if !allowed {
				if subject == AnonymousRole {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
