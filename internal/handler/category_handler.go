package handler

import (
	"net/http"

	"github.com/goyalg325/wikiserver/internal/middleware"
	"github.com/goyalg325/wikiserver/internal/service"
)

// CategoryHandler holds the dependencies for the category registry handlers.
type CategoryHandler struct {
	pageService service.PageServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(ps service.PageServicer) *CategoryHandler {
	return &CategoryHandler{pageService: ps}
}

// listHandler returns all registered category names.
func (h *CategoryHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categories, err := h.pageService.Categories(r.Context())
	if err != nil {
		return toAppError(err)
	}
	return respondJSON(w, http.StatusOK, categories)
}

// addHandler registers a new category name.
func (h *CategoryHandler) addHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req struct {
		Category string `json:"category"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		return appErr
	}

	categories, err := h.pageService.AddCategory(r.Context(), req.Category)
	if err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "category added successfully",
		"categories": categories,
	})
}

// removeHandler deletes a registered category name. Pages using it keep
// their category value.
func (h *CategoryHandler) removeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req struct {
		Category string `json:"category"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		return appErr
	}

	if err := h.pageService.RemoveCategory(r.Context(), req.Category); err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted successfully"})
}
