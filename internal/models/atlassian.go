package models

// ProjectInfo is the minimal projection of a Jira project
type ProjectInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type"`
	Lead string `json:"lead"`
}

// IssueType describes an issue type available in a Jira project
type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subtask     bool   `json:"subtask"`
}

// UserStory is the caller-supplied input for a single story
type UserStory struct {
	Summary            string   `json:"summary" validate:"required"`
	Description        string   `json:"description" validate:"required"`
	AcceptanceCriteria string   `json:"acceptance_criteria,omitempty"`
	StoryPoints        *float64 `json:"story_points,omitempty"`
	Priority           string   `json:"priority,omitempty"`
	Labels             []string `json:"labels,omitempty"`
	Assignee           string   `json:"assignee,omitempty"` // Atlassian account id
}

// IssueResponse is the minimal identity returned after issue creation
type IssueResponse struct {
	Key       string `json:"key"`
	ID        string `json:"id"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
	IssueType string `json:"issue_type"`
}

// IssueDetails is the projection returned by issue reads and JQL search.
// Search results always carry an empty description.
type IssueDetails struct {
	Key         string `json:"key"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee,omitempty"`
	Reporter    string `json:"reporter"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
	URL         string `json:"url"`
}

// BulkCreateError records one failed item of a bulk creation. Index refers
// to the position in the submitted story list.
type BulkCreateError struct {
	Index   int    `json:"index"`
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

// BulkCreateResult reports the outcome of a bulk story creation.
// Created+Failed always equals the number of submitted stories.
type BulkCreateResult struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Stories []IssueResponse   `json:"stories"`
	Errors  []BulkCreateError `json:"errors"`
}

// Comment is the projection returned after adding an issue comment
type Comment struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	Created string `json:"created"`
	Author  string `json:"author"`
}

// SpaceInfo describes a Confluence space
type SpaceInfo struct {
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	HomepageID string         `json:"homepage_id,omitempty"`
	Links      map[string]any `json:"_links,omitempty"`
}

// PageInfo is the listing/search projection of a Confluence page
type PageInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Version     int    `json:"version,omitempty"`
	URL         string `json:"url"`
	LastUpdated string `json:"last_updated,omitempty"`
	UpdatedBy   string `json:"updated_by,omitempty"`
}

// PageList is the result of listing pages within a space
type PageList struct {
	SpaceKey  string     `json:"space_key"`
	SpaceName string     `json:"space_name"`
	Total     int        `json:"total"`
	Pages     []PageInfo `json:"pages"`
}

// PageContent is the canonical page read used as the basis for every
// update/append (read-modify-write).
type PageContent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"` // Storage-format HTML
	Version  int    `json:"version"`
	SpaceKey string `json:"space_key"`
	URL      string `json:"url"`
}

// PageResult is returned after a page create or update
type PageResult struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Version         int    `json:"version"`
	PreviousVersion int    `json:"previous_version,omitempty"`
}

// WorkflowResult combines the Jira and Confluence sides of the
// stories-to-confluence workflow.
type WorkflowResult struct {
	Jira       *BulkCreateResult `json:"jira"`
	Confluence *PageResult       `json:"confluence"`
}
