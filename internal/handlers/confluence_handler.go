package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/models"
)

// ConfluenceHandler exposes the Confluence service operations over HTTP
type ConfluenceHandler struct {
	confluence interfaces.ConfluenceService
	logger     arbor.ILogger
}

func NewConfluenceHandler(confluence interfaces.ConfluenceService, logger arbor.ILogger) *ConfluenceHandler {
	return &ConfluenceHandler{confluence: confluence, logger: logger}
}

// SpaceInfoHandler handles GET /api/confluence/space?space_key=...
func (h *ConfluenceHandler) SpaceInfoHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	space, err := h.confluence.GetSpaceInfo(r.Context(), r.URL.Query().Get("space_key"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Space %s retrieved", space.Key), space)
}

// ListPagesHandler handles GET /api/confluence/pages?space_key=...&limit=...
func (h *ConfluenceHandler) ListPagesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	pages, err := h.confluence.ListPages(r.Context(), r.URL.Query().Get("space_key"), limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Found %d pages", pages.Total), pages)
}

// GetPageHandler handles GET /api/confluence/page/{pageId}
func (h *ConfluenceHandler) GetPageHandler(w http.ResponseWriter, r *http.Request) {
	pageID := PathParam(r.URL.Path, "/api/confluence/page/")
	if pageID == "" {
		WriteErrorEnvelope(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	page, err := h.confluence.GetPageContent(r.Context(), pageID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Page %s retrieved", page.Title), page)
}

// CreatePageHandler handles POST /api/confluence/page
func (h *ConfluenceHandler) CreatePageHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.CreatePageRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	page, err := h.confluence.CreatePage(r.Context(), req.Title, req.Content, req.SpaceKey, req.ParentID, req.ContentType)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Page %s created successfully", page.Title), page)
}

// UpdatePageHandler handles PUT /api/confluence/page/{pageId}
func (h *ConfluenceHandler) UpdatePageHandler(w http.ResponseWriter, r *http.Request) {
	pageID := PathParam(r.URL.Path, "/api/confluence/page/")
	if pageID == "" {
		WriteErrorEnvelope(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	var req models.UpdatePageRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	page, err := h.confluence.UpdatePage(r.Context(), pageID, req.Title, req.Content, req.VersionComment)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Page updated to version %d", page.Version), page)
}

// AppendPageHandler handles POST /api/confluence/page/{pageId}/append
func (h *ConfluenceHandler) AppendPageHandler(w http.ResponseWriter, r *http.Request) {
	pageID := PathParam(r.URL.Path, "/api/confluence/page/")
	if pageID == "" {
		WriteErrorEnvelope(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	var req models.AppendPageRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	page, err := h.confluence.AppendToPage(r.Context(), pageID, req.Content, req.Separator)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, "Content appended successfully", page)
}

// SearchPagesHandler handles GET /api/confluence/search?query=...&space_key=...
func (h *ConfluenceHandler) SearchPagesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		WriteErrorEnvelope(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	pages, err := h.confluence.SearchPages(r.Context(), query, r.URL.Query().Get("space_key"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Found %d pages", len(pages)), map[string]any{
		"pages": pages,
		"count": len(pages),
	})
}
