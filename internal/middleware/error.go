package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/goyalg325/wikiserver/internal/logger"
)

// AppError represents a handler failure ready to be rendered as JSON.
type AppError struct {
	Error   error
	Message string
	Code    int
	Fields  map[string]string
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into JSON error
// responses. The underlying error goes to the log; the caller only ever
// sees the message and, for validation failures, the field map.
func Error(log logger.Logger) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, &AppError{Message: "internal server error", Code: http.StatusInternalServerError})
				}
			}()

			if err := next(w, r); err != nil {
				if err.Error != nil {
					log.Error(err.Error, err.Message)
				}
				renderError(w, err)
			}
		})
	}
}

func renderError(w http.ResponseWriter, appErr *AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Code)

	if len(appErr.Fields) > 0 {
		json.NewEncoder(w).Encode(map[string]interface{}{"errors": appErr.Fields})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"error": appErr.Message})
}
