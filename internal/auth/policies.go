package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"

	"github.com/goyalg325/wikiserver/internal/logger"
)

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	// Anonymous callers get the public read surface plus registration,
	// login, and the category-administration routes the deployment exposes
	// openly. Editors add the page-mutation routes; admins add user
	// administration. Role inheritance chains Admin -> Editor -> anonymous.
	policies := [][]string{
		{"anonymous", "/api/auth/register", "POST"},
		{"anonymous", "/api/auth/login", "POST"},
		{"anonymous", "/api/pages", "GET"},
		{"anonymous", "/api/pages/*", "GET"},
		{"anonymous", "/api/categories", "GET"},
		{"anonymous", "/api/categories", "POST"},
		{"anonymous", "/api/categories", "DELETE"},
		{"anonymous", "/metrics", "GET"},

		{"Editor", "/api/pages", "POST"},
		{"Editor", "/api/pages/*", "PUT"},
		{"Editor", "/api/pages/*", "DELETE"},
		{"Editor", "/api/pages/category", "PATCH"},
		{"Editor", "/api/admin/pages", "GET"},
		{"Editor", "/api/profile", "GET"},

		{"Admin", "/api/users", "GET"},
		{"Admin", "/api/users/*", "DELETE"},
		{"Admin", "/api/users/*", "PUT"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	groupings := [][]string{
		{"Editor", "anonymous"},
		{"Admin", "Editor"},
	}
	for _, g := range groupings {
		if has, _ := e.HasRoleForUser(g[0], g[1]); !has {
			if _, err := e.AddRoleForUser(g[0], g[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role %s -> %s", g[0], g[1]))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
