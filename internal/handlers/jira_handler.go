package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/models"
)

// JiraHandler exposes the Jira service operations over HTTP
type JiraHandler struct {
	jira   interfaces.JiraService
	logger arbor.ILogger
}

func NewJiraHandler(jira interfaces.JiraService, logger arbor.ILogger) *JiraHandler {
	return &JiraHandler{jira: jira, logger: logger}
}

// ListProjectsHandler handles GET /api/jira/projects
func (h *JiraHandler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	projects, err := h.jira.ListProjects(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Found %d projects", len(projects)), map[string]any{
		"projects": projects,
		"count":    len(projects),
	})
}

// IssueTypesHandler handles GET /api/jira/projects/{projectKey}/issue-types
func (h *JiraHandler) IssueTypesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	projectKey := PathParam(r.URL.Path, "/api/jira/projects/")
	if projectKey == "" {
		WriteErrorEnvelope(w, http.StatusBadRequest, "Project key is required")
		return
	}

	issueTypes, err := h.jira.GetIssueTypes(r.Context(), projectKey)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Found %d issue types", len(issueTypes)), map[string]any{
		"project_key": projectKey,
		"issue_types": issueTypes,
	})
}

// CreateStoryHandler handles POST /api/jira/story
func (h *JiraHandler) CreateStoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.CreateStoryRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	story := models.UserStory{
		Summary:            req.Summary,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		StoryPoints:        req.StoryPoints,
		Priority:           req.Priority,
		Labels:             req.Labels,
		Assignee:           req.Assignee,
	}

	result, err := h.jira.CreateStory(r.Context(), req.ProjectKey, story, req.IssueType)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Story %s created successfully", result.Key), result)
}

// BulkCreateStoriesHandler handles POST /api/jira/stories/bulk
func (h *JiraHandler) BulkCreateStoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.BulkCreateStoriesRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.jira.CreateStoriesBulk(r.Context(), req.ProjectKey, req.Stories)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Created %d stories, %d failed", result.Created, result.Failed), result)
}

// GetIssueHandler handles GET /api/jira/issue/{issueKey}
func (h *JiraHandler) GetIssueHandler(w http.ResponseWriter, r *http.Request) {
	issueKey := PathParam(r.URL.Path, "/api/jira/issue/")
	if issueKey == "" {
		WriteErrorEnvelope(w, http.StatusBadRequest, "Issue key is required")
		return
	}

	issue, err := h.jira.GetIssue(r.Context(), issueKey)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Issue %s retrieved", issue.Key), issue)
}

// AddCommentHandler handles POST /api/jira/issue/{issueKey}/comment
func (h *JiraHandler) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	issueKey := PathParam(r.URL.Path, "/api/jira/issue/")
	if issueKey == "" {
		WriteErrorEnvelope(w, http.StatusBadRequest, "Issue key is required")
		return
	}

	var req models.AddCommentRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.jira.AddComment(r.Context(), issueKey, req.Comment)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, "Comment added successfully", comment)
}

// SearchIssuesHandler handles GET /api/jira/search?jql=...&max_results=...
func (h *JiraHandler) SearchIssuesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	jql := r.URL.Query().Get("jql")
	if jql == "" {
		WriteErrorEnvelope(w, http.StatusBadRequest, "JQL parameter is required")
		return
	}

	maxResults := 0
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			maxResults = parsed
		}
	}

	issues, err := h.jira.SearchIssues(r.Context(), jql, maxResults)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, fmt.Sprintf("Found %d issues", len(issues)), map[string]any{
		"issues": issues,
		"count":  len(issues),
	})
}
