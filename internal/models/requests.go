package models

// CreateStoryRequest is the inbound body for single story creation
type CreateStoryRequest struct {
	ProjectKey         string   `json:"project_key" validate:"required"`
	Summary            string   `json:"summary" validate:"required"`
	Description        string   `json:"description" validate:"required"`
	AcceptanceCriteria string   `json:"acceptance_criteria,omitempty"`
	StoryPoints        *float64 `json:"story_points,omitempty"`
	Priority           string   `json:"priority,omitempty"`
	Labels             []string `json:"labels,omitempty"`
	Assignee           string   `json:"assignee,omitempty"`
	IssueType          string   `json:"issue_type,omitempty"`
}

// BulkCreateStoriesRequest is the inbound body for bulk story creation
type BulkCreateStoriesRequest struct {
	ProjectKey string      `json:"project_key" validate:"required"`
	Stories    []UserStory `json:"stories" validate:"required,min=1,dive"`
}

// AddCommentRequest is the inbound body for adding an issue comment
type AddCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// CreatePageRequest is the inbound body for page creation
type CreatePageRequest struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content" validate:"required"`
	SpaceKey    string `json:"space_key,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// UpdatePageRequest is the inbound body for page update. Omitted fields keep
// the current page values.
type UpdatePageRequest struct {
	Title          string `json:"title,omitempty"`
	Content        string `json:"content,omitempty"`
	VersionComment string `json:"version_comment,omitempty"`
}

// AppendPageRequest is the inbound body for appending to a page
type AppendPageRequest struct {
	Content   string `json:"content" validate:"required"`
	Separator string `json:"separator,omitempty"`
}

// WorkflowRequest is the inbound body for the stories-to-confluence workflow
type WorkflowRequest struct {
	ProjectKey string      `json:"project_key" validate:"required"`
	Stories    []UserStory `json:"stories" validate:"required,min=1,dive"`
	SpaceKey   string      `json:"space_key,omitempty"`
	PageID     string      `json:"page_id,omitempty"`
	PageTitle  string      `json:"page_title,omitempty"`
}
