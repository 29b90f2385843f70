package interfaces

import (
	"context"

	"github.com/ternarybob/scribe/internal/models"
)

// JiraService wraps Jira Cloud REST v3 behind a stable internal contract
type JiraService interface {
	ListProjects(ctx context.Context) ([]models.ProjectInfo, error)
	GetIssueTypes(ctx context.Context, projectKey string) ([]models.IssueType, error)
	CreateStory(ctx context.Context, projectKey string, story models.UserStory, issueType string) (*models.IssueResponse, error)
	CreateStoriesBulk(ctx context.Context, projectKey string, stories []models.UserStory) (*models.BulkCreateResult, error)
	GetIssue(ctx context.Context, issueKey string) (*models.IssueDetails, error)
	SearchIssues(ctx context.Context, jql string, maxResults int) ([]models.IssueDetails, error)
	AddComment(ctx context.Context, issueKey, comment string) (*models.Comment, error)
}

// ConfluenceService wraps the Confluence Cloud wiki REST API
type ConfluenceService interface {
	GetSpaceInfo(ctx context.Context, spaceKey string) (*models.SpaceInfo, error)
	ListPages(ctx context.Context, spaceKey string, limit int) (*models.PageList, error)
	GetPageContent(ctx context.Context, pageID string) (*models.PageContent, error)
	CreatePage(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error)
	UpdatePage(ctx context.Context, pageID, title, content, versionComment string) (*models.PageResult, error)
	AppendToPage(ctx context.Context, pageID, additionalContent, separator string) (*models.PageResult, error)
	SearchPages(ctx context.Context, query, spaceKey string) ([]models.PageInfo, error)
}

// WorkflowService composes bulk story creation with Confluence documentation
type WorkflowService interface {
	StoriesToConfluence(ctx context.Context, req *models.WorkflowRequest) (*models.WorkflowResult, error)
}
