package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/scribe/internal/common"
	"github.com/ternarybob/scribe/internal/models"
)

// mockJiraService implements interfaces.JiraService for testing
type mockJiraService struct {
	bulkFunc func(ctx context.Context, projectKey string, stories []models.UserStory) (*models.BulkCreateResult, error)
}

func (m *mockJiraService) ListProjects(ctx context.Context) ([]models.ProjectInfo, error) {
	return nil, nil
}

func (m *mockJiraService) GetIssueTypes(ctx context.Context, projectKey string) ([]models.IssueType, error) {
	return nil, nil
}

func (m *mockJiraService) CreateStory(ctx context.Context, projectKey string, story models.UserStory, issueType string) (*models.IssueResponse, error) {
	return nil, nil
}

func (m *mockJiraService) CreateStoriesBulk(ctx context.Context, projectKey string, stories []models.UserStory) (*models.BulkCreateResult, error) {
	if m.bulkFunc != nil {
		return m.bulkFunc(ctx, projectKey, stories)
	}
	return &models.BulkCreateResult{}, nil
}

func (m *mockJiraService) GetIssue(ctx context.Context, issueKey string) (*models.IssueDetails, error) {
	return nil, nil
}

func (m *mockJiraService) SearchIssues(ctx context.Context, jql string, maxResults int) ([]models.IssueDetails, error) {
	return nil, nil
}

func (m *mockJiraService) AddComment(ctx context.Context, issueKey, comment string) (*models.Comment, error) {
	return nil, nil
}

// mockConfluenceService implements interfaces.ConfluenceService for testing
type mockConfluenceService struct {
	createFunc func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error)
	appendFunc func(ctx context.Context, pageID, additionalContent, separator string) (*models.PageResult, error)
}

func (m *mockConfluenceService) GetSpaceInfo(ctx context.Context, spaceKey string) (*models.SpaceInfo, error) {
	return nil, nil
}

func (m *mockConfluenceService) ListPages(ctx context.Context, spaceKey string, limit int) (*models.PageList, error) {
	return nil, nil
}

func (m *mockConfluenceService) GetPageContent(ctx context.Context, pageID string) (*models.PageContent, error) {
	return nil, nil
}

func (m *mockConfluenceService) CreatePage(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, title, content, spaceKey, parentID, contentType)
	}
	return &models.PageResult{}, nil
}

func (m *mockConfluenceService) UpdatePage(ctx context.Context, pageID, title, content, versionComment string) (*models.PageResult, error) {
	return nil, nil
}

func (m *mockConfluenceService) AppendToPage(ctx context.Context, pageID, additionalContent, separator string) (*models.PageResult, error) {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, pageID, additionalContent, separator)
	}
	return &models.PageResult{}, nil
}

func (m *mockConfluenceService) SearchPages(ctx context.Context, query, spaceKey string) ([]models.PageInfo, error) {
	return nil, nil
}

func bulkResult(stories ...models.IssueResponse) *models.BulkCreateResult {
	return &models.BulkCreateResult{
		Created: len(stories),
		Stories: stories,
		Errors:  []models.BulkCreateError{},
	}
}

func TestStoriesToConfluence_CreatesNewPage(t *testing.T) {
	jira := &mockJiraService{
		bulkFunc: func(ctx context.Context, projectKey string, stories []models.UserStory) (*models.BulkCreateResult, error) {
			assert.Equal(t, "PROJ", projectKey)
			return bulkResult(
				models.IssueResponse{Key: "PROJ-1", Summary: "story A", URL: "https://x/browse/PROJ-1"},
				models.IssueResponse{Key: "PROJ-2", Summary: "story C", URL: "https://x/browse/PROJ-2"},
			), nil
		},
	}

	var gotTitle, gotContent, gotSpace string
	confluence := &mockConfluenceService{
		createFunc: func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
			gotTitle, gotContent, gotSpace = title, content, spaceKey
			return &models.PageResult{ID: "900", Title: title, Version: 1}, nil
		},
	}

	service := NewService(jira, confluence, common.GetLogger())

	result, err := service.StoriesToConfluence(context.Background(), &models.WorkflowRequest{
		ProjectKey: "PROJ",
		Stories:    []models.UserStory{{Summary: "story A"}, {Summary: "story C"}},
		SpaceKey:   "DOCS",
		PageTitle:  "Sprint 12",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sprint 12", gotTitle)
	assert.Equal(t, "DOCS", gotSpace)
	assert.Contains(t, gotContent, "<h2>User Stories</h2>")
	assert.Contains(t, gotContent, "<p>Created: 2 stories</p>")
	assert.Contains(t, gotContent, "<td>PROJ-1</td><td>story A</td>")
	assert.Contains(t, gotContent, `<a href="https://x/browse/PROJ-2">PROJ-2</a>`)

	assert.Equal(t, 2, result.Jira.Created)
	assert.Equal(t, "900", result.Confluence.ID)
}

func TestStoriesToConfluence_DefaultPageTitle(t *testing.T) {
	var gotTitle string
	confluence := &mockConfluenceService{
		createFunc: func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
			gotTitle = title
			return &models.PageResult{ID: "901"}, nil
		},
	}

	service := NewService(&mockJiraService{}, confluence, common.GetLogger())

	_, err := service.StoriesToConfluence(context.Background(), &models.WorkflowRequest{
		ProjectKey: "PROJ",
		Stories:    []models.UserStory{{Summary: "s"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "User Stories", gotTitle)
}

func TestStoriesToConfluence_AppendsWhenPageIDSet(t *testing.T) {
	var gotPageID string
	appended := false
	confluence := &mockConfluenceService{
		appendFunc: func(ctx context.Context, pageID, additionalContent, separator string) (*models.PageResult, error) {
			appended = true
			gotPageID = pageID
			return &models.PageResult{ID: pageID, Version: 5}, nil
		},
		createFunc: func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
			t.Fatal("CreatePage must not be called when page_id is supplied")
			return nil, nil
		},
	}

	service := NewService(&mockJiraService{}, confluence, common.GetLogger())

	result, err := service.StoriesToConfluence(context.Background(), &models.WorkflowRequest{
		ProjectKey: "PROJ",
		Stories:    []models.UserStory{{Summary: "s"}},
		PageID:     "777",
	})
	require.NoError(t, err)

	assert.True(t, appended)
	assert.Equal(t, "777", gotPageID)
	assert.Equal(t, 5, result.Confluence.Version)
}

func TestStoriesToConfluence_DocumentsOnlySuccesses(t *testing.T) {
	jira := &mockJiraService{
		bulkFunc: func(ctx context.Context, projectKey string, stories []models.UserStory) (*models.BulkCreateResult, error) {
			return &models.BulkCreateResult{
				Created: 1,
				Failed:  1,
				Stories: []models.IssueResponse{{Key: "PROJ-1", Summary: "good"}},
				Errors:  []models.BulkCreateError{{Index: 1, Summary: "bad", Error: "rejected"}},
			}, nil
		},
	}

	var gotContent string
	confluence := &mockConfluenceService{
		createFunc: func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
			gotContent = content
			return &models.PageResult{ID: "902"}, nil
		},
	}

	service := NewService(jira, confluence, common.GetLogger())

	result, err := service.StoriesToConfluence(context.Background(), &models.WorkflowRequest{
		ProjectKey: "PROJ",
		Stories:    []models.UserStory{{Summary: "good"}, {Summary: "bad"}},
	})
	require.NoError(t, err)

	assert.Contains(t, gotContent, "good")
	assert.NotContains(t, gotContent, "bad", "failed stories never appear in the Confluence table")
	assert.Equal(t, 1, result.Jira.Failed)
}

func TestStoriesToConfluence_ZeroSuccessesStillDocuments(t *testing.T) {
	jira := &mockJiraService{
		bulkFunc: func(ctx context.Context, projectKey string, stories []models.UserStory) (*models.BulkCreateResult, error) {
			return &models.BulkCreateResult{
				Failed: 1,
				Errors: []models.BulkCreateError{{Index: 0, Summary: "bad", Error: "rejected"}},
			}, nil
		},
	}

	created := false
	confluence := &mockConfluenceService{
		createFunc: func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
			created = true
			assert.Contains(t, content, "<p>Created: 0 stories</p>")
			return &models.PageResult{ID: "903"}, nil
		},
	}

	service := NewService(jira, confluence, common.GetLogger())

	_, err := service.StoriesToConfluence(context.Background(), &models.WorkflowRequest{
		ProjectKey: "PROJ",
		Stories:    []models.UserStory{{Summary: "bad"}},
	})
	require.NoError(t, err)
	assert.True(t, created, "an all-failed batch still documents an empty table")
}

func TestStoriesToConfluence_ConfluenceFailureFailsCall(t *testing.T) {
	confluence := &mockConfluenceService{
		createFunc: func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
			return nil, errors.New("space not found")
		},
	}

	service := NewService(&mockJiraService{}, confluence, common.GetLogger())

	result, err := service.StoriesToConfluence(context.Background(), &models.WorkflowRequest{
		ProjectKey: "PROJ",
		Stories:    []models.UserStory{{Summary: "s"}},
	})

	// Jira-side effects are not rolled back; the caller only sees the error
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "space not found")
}

func TestBuildSummaryHTML_Order(t *testing.T) {
	result := bulkResult(
		models.IssueResponse{Key: "PROJ-1", Summary: "first", URL: "u1"},
		models.IssueResponse{Key: "PROJ-2", Summary: "second", URL: "u2"},
	)

	html := buildSummaryHTML(result)

	idx1 := strings.Index(html, "PROJ-1")
	idx2 := strings.Index(html, "PROJ-2")
	require.NotEqual(t, -1, idx1)
	require.NotEqual(t, -1, idx2)
	assert.Less(t, idx1, idx2, "summary table preserves creation order")
}
