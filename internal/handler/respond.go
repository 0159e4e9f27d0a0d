package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goyalg325/wikiserver/internal/middleware"
	"github.com/goyalg325/wikiserver/internal/service"
)

// respondJSON writes payload as JSON with the given status code.
func respondJSON(w http.ResponseWriter, code int, payload interface{}) *middleware.AppError {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return nil
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		return &middleware.AppError{Error: err, Message: "failed to encode response", Code: http.StatusInternalServerError}
	}
	return nil
}

// decodeJSON reads the request body into dst, rejecting malformed input.
func decodeJSON(r *http.Request, dst interface{}) *middleware.AppError {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &middleware.AppError{Error: err, Message: "invalid request body", Code: http.StatusBadRequest}
	}
	return nil
}

// toAppError maps a service failure to its HTTP rendering. This is the one
// place error kinds become status codes.
func toAppError(err error) *middleware.AppError {
	var se *service.Error
	if !errors.As(err, &se) {
		return &middleware.AppError{Error: err, Message: "internal server error", Code: http.StatusInternalServerError}
	}

	code := http.StatusInternalServerError
	switch se.Kind {
	case service.KindValidation:
		code = http.StatusBadRequest
	case service.KindConflict:
		code = http.StatusConflict
	case service.KindNotFound:
		code = http.StatusNotFound
	case service.KindForbidden:
		code = http.StatusForbidden
	case service.KindUnauthorized:
		code = http.StatusUnauthorized
	}

	return &middleware.AppError{Error: se.Err, Message: se.Message, Code: code, Fields: se.Fields}
}

// callerIdentity lifts the request-context identity into the service type.
func callerIdentity(r *http.Request) service.Identity {
	userInfo := middleware.GetUserInfo(r.Context())
	return service.Identity{Username: userInfo.Username, Role: userInfo.Role}
}
