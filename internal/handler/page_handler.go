package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goyalg325/wikiserver/internal/data"
	"github.com/goyalg325/wikiserver/internal/logger"
	"github.com/goyalg325/wikiserver/internal/middleware"
	"github.com/goyalg325/wikiserver/internal/render"
	"github.com/goyalg325/wikiserver/internal/service"
)

// PageHandler holds the dependencies for the page handlers.
type PageHandler struct {
	pageService service.PageServicer
	renderer    *render.Renderer
	log         logger.Logger
}

// NewPageHandler creates a new PageHandler with the given dependencies.
func NewPageHandler(ps service.PageServicer, renderer *render.Renderer, log logger.Logger) *PageHandler {
	return &PageHandler{
		pageService: ps,
		renderer:    renderer,
		log:         log,
	}
}

// pageResponse is the default projection of a page: content is excluded
// unless the endpoint is a content fetch.
type pageResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Content  string `json:"content,omitempty"`
}

func toPageResponse(page *data.Page, withContent bool) pageResponse {
	resp := pageResponse{
		ID:       page.ID,
		Title:    page.Title,
		Author:   page.Author,
		Category: page.Category,
	}
	if withContent {
		resp.Content = page.Content
	}
	return resp
}

// createHandler creates a new page. The author defaults to the caller;
// only an admin may file a page under someone else's name.
func (h *PageHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Author   string `json:"author"`
		Category string `json:"category"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		return appErr
	}

	identity := callerIdentity(r)
	if req.Author == "" || identity.Role != service.RoleAdmin {
		req.Author = identity.Username
	}

	page, err := h.pageService.CreatePage(r.Context(), req.Title, req.Content, req.Author, req.Category)
	if err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "page created successfully",
		"page":    toPageResponse(page, false),
	})
}

// getHandler fetches a single page by title, content included.
func (h *PageHandler) getHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	title := chi.URLParam(r, "title")

	page, err := h.pageService.GetPage(r.Context(), title)
	if err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusOK, toPageResponse(page, true))
}

// renderedHandler fetches a page and returns its content rendered to
// sanitized HTML.
func (h *PageHandler) renderedHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	title := chi.URLParam(r, "title")

	page, err := h.pageService.GetPage(r.Context(), title)
	if err != nil {
		return toAppError(err)
	}

	html, err := h.renderer.Render(page.Content)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "failed to render page", Code: http.StatusInternalServerError}
	}

	return respondJSON(w, http.StatusOK, map[string]string{
		"title": page.Title,
		"html":  html,
	})
}

// listHandler lists page titles visible to the caller.
func (h *PageHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	titles, err := h.pageService.ListPages(r.Context(), callerIdentity(r))
	if err != nil {
		return toAppError(err)
	}

	resp := make([]map[string]string, 0, len(titles))
	for _, t := range titles {
		resp = append(resp, map[string]string{"title": t})
	}
	return respondJSON(w, http.StatusOK, resp)
}

// updateHandler replaces a page's content, author and category.
func (h *PageHandler) updateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	title := chi.URLParam(r, "title")
	var req struct {
		Content  string `json:"content"`
		Author   string `json:"author"`
		Category string `json:"category"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		return appErr
	}

	page, err := h.pageService.UpdatePage(r.Context(), callerIdentity(r), title, req.Content, req.Author, req.Category)
	if err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "page updated successfully",
		"page":    toPageResponse(page, false),
	})
}

// updateCategoryHandler changes only a page's category.
func (h *PageHandler) updateCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req struct {
		Title    string `json:"title"`
		Category string `json:"category"`
	}
	if appErr := decodeJSON(r, &req); appErr != nil {
		return appErr
	}

	page, err := h.pageService.UpdateCategory(r.Context(), callerIdentity(r), req.Title, req.Category)
	if err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "category updated successfully",
		"page":    toPageResponse(page, false),
	})
}

// deleteHandler removes a page.
func (h *PageHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	title := chi.URLParam(r, "title")

	if err := h.pageService.DeletePage(r.Context(), callerIdentity(r), title); err != nil {
		return toAppError(err)
	}

	return respondJSON(w, http.StatusOK, map[string]string{"message": "page deleted successfully"})
}

// byCategoryHandler lists title+category pairs of all pages.
func (h *PageHandler) byCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pages, err := h.pageService.PagesByCategory(r.Context())
	if err != nil {
		return toAppError(err)
	}

	resp := make([]map[string]string, 0, len(pages))
	for _, p := range pages {
		resp = append(resp, map[string]string{"title": p.Title, "category": p.Category})
	}
	return respondJSON(w, http.StatusOK, resp)
}

// directPagesHandler lists the titles in the direct-pages registry.
func (h *PageHandler) directPagesHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	titles, err := h.pageService.DirectPages(r.Context())
	if err != nil {
		return toAppError(err)
	}
	return respondJSON(w, http.StatusOK, titles)
}
