package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/models"
)

// WorkflowHandler exposes the combined stories-to-confluence workflow
type WorkflowHandler struct {
	workflow interfaces.WorkflowService
	logger   arbor.ILogger
}

func NewWorkflowHandler(workflow interfaces.WorkflowService, logger arbor.ILogger) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow, logger: logger}
}

// StoriesToConfluenceHandler handles POST /api/workflow/stories-to-confluence
func (h *WorkflowHandler) StoriesToConfluenceHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.WorkflowRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.workflow.StoriesToConfluence(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, "Stories created and documented successfully", result)
}
