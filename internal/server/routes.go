package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Jira
	mux.HandleFunc("/api/jira/projects", s.app.JiraHandler.ListProjectsHandler)
	mux.HandleFunc("/api/jira/projects/", s.handleJiraProjectRoutes) // GET /{projectKey}/issue-types
	mux.HandleFunc("/api/jira/story", s.app.JiraHandler.CreateStoryHandler)
	mux.HandleFunc("/api/jira/stories/bulk", s.app.JiraHandler.BulkCreateStoriesHandler)
	mux.HandleFunc("/api/jira/issue/", s.handleJiraIssueRoutes) // GET /{issueKey}, POST /{issueKey}/comment
	mux.HandleFunc("/api/jira/search", s.app.JiraHandler.SearchIssuesHandler)

	// API routes - Confluence
	mux.HandleFunc("/api/confluence/space", s.app.ConfluenceHandler.SpaceInfoHandler)
	mux.HandleFunc("/api/confluence/pages", s.app.ConfluenceHandler.ListPagesHandler)
	mux.HandleFunc("/api/confluence/page", s.app.ConfluenceHandler.CreatePageHandler)
	mux.HandleFunc("/api/confluence/page/", s.handleConfluencePageRoutes) // GET/PUT /{pageId}, POST /{pageId}/append
	mux.HandleFunc("/api/confluence/search", s.app.ConfluenceHandler.SearchPagesHandler)

	// API routes - Workflow
	mux.HandleFunc("/api/workflow/stories-to-confluence", s.app.WorkflowHandler.StoriesToConfluenceHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleJiraProjectRoutes routes project sub-resources
func (s *Server) handleJiraProjectRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" && strings.HasSuffix(r.URL.Path, "/issue-types") {
		s.app.JiraHandler.IssueTypesHandler(w, r)
		return
	}

	s.app.APIHandler.NotFoundHandler(w, r)
}

// handleJiraIssueRoutes routes issue reads and comment creation
func (s *Server) handleJiraIssueRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/comment") {
		s.app.JiraHandler.AddCommentHandler(w, r)
		return
	}

	if r.Method == "GET" {
		s.app.JiraHandler.GetIssueHandler(w, r)
		return
	}

	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// handleConfluencePageRoutes routes page reads, updates and appends
func (s *Server) handleConfluencePageRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/append") {
		s.app.ConfluenceHandler.AppendPageHandler(w, r)
		return
	}

	switch r.Method {
	case "GET":
		s.app.ConfluenceHandler.GetPageHandler(w, r)
	case "PUT":
		s.app.ConfluenceHandler.UpdatePageHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
