package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goyalg325/wikiserver/internal/middleware"
	"github.com/goyalg325/wikiserver/internal/service"
)

// AuthHandler holds the dependencies for registration, login and user
// administration handlers.
type AuthHandler struct {
	authService service.AuthServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as service.AuthServicer) *AuthHandler {
	return &AuthHandler{authService: as}
}

// registerHandler creates a new account.
func (h *AuthHandler) registerHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req struct {
		Username             string `json:"username"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
		Role                 string `json:"role"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password, req.PasswordConfirmation, req.Role)
	if err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user created successfully",
		"user":    user,
	})
}

// loginHandler verifies credentials and returns a bearer token.
func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		return appErr
	}

	token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusOK, map[string]string{
		"message":      "logged in successfully",
		"access_token": token,
	})
}

// profileHandler echoes the authenticated identity.
func (h *AuthHandler) profileHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userInfo := middleware.GetUserInfo(r.Context())
	return respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": service.UserInfo{Username: userInfo.Username, Role: userInfo.Role},
	})
}

// listUsersHandler lists all accounts. Admin only.
func (h *AuthHandler) listUsersHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	users, err := h.authService.ListUsers(r.Context(), callerIdentity(r))
	if err != nil {
		return toAppError(err)
	}
	return respondJSON(w, http.StatusOK, users)
}

// deleteUserHandler removes an account. Admin only.
func (h *AuthHandler) deleteUserHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := chi.URLParam(r, "username")

	if err := h.authService.DeleteUser(r.Context(), callerIdentity(r), username); err != nil {
		return toAppError(err)
	}
	return respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

// changeRoleHandler sets another user's role. Admin only.
func (h *AuthHandler) changeRoleHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := chi.URLParam(r, "username")
	var req struct {
		Role string `json:"role"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		return appErr
	}

	if err := h.authService.ChangeRole(r.Context(), callerIdentity(r), username, req.Role); err != nil {
		return toAppError(err)
	}
	return respondJSON(w, http.StatusOK, map[string]string{"message": "role updated successfully"})
}
