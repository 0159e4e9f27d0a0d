package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goyalg325/wikiserver/internal/middleware"
)

// NewRouter creates and configures a new chi router. Every request passes
// authentication (bearer resolution) and authorization (role policy) before
// reaching a handler; handlers return AppErrors rendered by errorMW.
func NewRouter(
	pageHandler *PageHandler,
	categoryHandler *CategoryHandler,
	authHandler *AuthHandler,
	authnMW func(http.Handler) http.Handler,
	authzMW func(http.Handler) http.Handler,
	errorMW func(middleware.AppHandler) http.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(authnMW)
	r.Use(authzMW)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/auth/register", errorMW(authHandler.registerHandler))
		r.Method(http.MethodPost, "/auth/login", errorMW(authHandler.loginHandler))
		r.Method(http.MethodGet, "/profile", errorMW(authHandler.profileHandler))

		r.Method(http.MethodGet, "/pages", errorMW(pageHandler.byCategoryHandler))
		r.Method(http.MethodPost, "/pages", errorMW(pageHandler.createHandler))
		r.Method(http.MethodGet, "/pages/direct", errorMW(pageHandler.directPagesHandler))
		r.Method(http.MethodPatch, "/pages/category", errorMW(pageHandler.updateCategoryHandler))
		r.Method(http.MethodGet, "/pages/{title}", errorMW(pageHandler.getHandler))
		r.Method(http.MethodGet, "/pages/{title}/rendered", errorMW(pageHandler.renderedHandler))
		r.Method(http.MethodPut, "/pages/{title}", errorMW(pageHandler.updateHandler))
		r.Method(http.MethodDelete, "/pages/{title}", errorMW(pageHandler.deleteHandler))
		r.Method(http.MethodGet, "/admin/pages", errorMW(pageHandler.listHandler))

		r.Method(http.MethodGet, "/categories", errorMW(categoryHandler.listHandler))
		r.Method(http.MethodPost, "/categories", errorMW(categoryHandler.addHandler))
		r.Method(http.MethodDelete, "/categories", errorMW(categoryHandler.removeHandler))

		r.Method(http.MethodGet, "/users", errorMW(authHandler.listUsersHandler))
		r.Method(http.MethodDelete, "/users/{username}", errorMW(authHandler.deleteUserHandler))
		r.Method(http.MethodPut, "/users/{username}/role", errorMW(authHandler.changeRoleHandler))
	})

	return r
}
