package atlassian

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/common"
	"github.com/ternarybob/scribe/internal/models"
)

const (
	jiraAPIRoot          = "/rest/api/3"
	defaultIssueType     = "Story"
	defaultPriority      = "Medium"
	defaultSearchResults = 50
)

// JiraService is a stateless adapter over Jira Cloud REST v3
type JiraService struct {
	client           *Client
	storyPointsField string
	logger           arbor.ILogger
}

// NewJiraService creates a Jira service, validating the credential set
// eagerly at construction.
func NewJiraService(cfg *common.AtlassianConfig, logger arbor.ILogger) (*JiraService, error) {
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	storyPointsField := cfg.StoryPointsField
	if storyPointsField == "" {
		storyPointsField = "customfield_10016"
	}

	return &JiraService{
		client:           client,
		storyPointsField: storyPointsField,
		logger:           logger,
	}, nil
}

// ListProjects returns all visible projects with their lead expanded
func (s *JiraService) ListProjects(ctx context.Context) ([]models.ProjectInfo, error) {
	query := url.Values{"expand": {"lead"}}

	data, err := s.client.Get(ctx, jiraAPIRoot+"/project", query)
	if err != nil {
		return nil, fmt.Errorf("error getting projects: %w", err)
	}

	var raw []struct {
		Key            string `json:"key"`
		Name           string `json:"name"`
		ProjectTypeKey string `json:"projectTypeKey"`
		Lead           *struct {
			DisplayName string `json:"displayName"`
		} `json:"lead"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse projects: %w", err)
	}

	projects := make([]models.ProjectInfo, 0, len(raw))
	for _, p := range raw {
		lead := "Unknown"
		if p.Lead != nil && p.Lead.DisplayName != "" {
			lead = p.Lead.DisplayName
		}
		projects = append(projects, models.ProjectInfo{
			Key:  p.Key,
			Name: p.Name,
			Type: p.ProjectTypeKey,
			Lead: lead,
		})
	}

	s.logger.Debug().Int("count", len(projects)).Msg("Listed Jira projects")

	return projects, nil
}

// GetIssueTypes returns the issue types available in a project. Projects
// without issue types yield an empty slice, not an error.
func (s *JiraService) GetIssueTypes(ctx context.Context, projectKey string) ([]models.IssueType, error) {
	data, err := s.client.Get(ctx, jiraAPIRoot+"/project/"+url.PathEscape(projectKey), nil)
	if err != nil {
		return nil, fmt.Errorf("error getting issue types: %w", err)
	}

	var raw struct {
		IssueTypes []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			Subtask     bool   `json:"subtask"`
		} `json:"issueTypes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}

	issueTypes := make([]models.IssueType, 0, len(raw.IssueTypes))
	for _, it := range raw.IssueTypes {
		issueTypes = append(issueTypes, models.IssueType{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Subtask:     it.Subtask,
		})
	}

	return issueTypes, nil
}

// CreateStory creates a single issue from a user story. Priority defaults to
// "Medium" and issueType to "Story" when empty. Story points are written to
// the configured custom field; if the Jira instance maps story points to a
// different field the upstream validation error is surfaced as-is.
func (s *JiraService) CreateStory(ctx context.Context, projectKey string, story models.UserStory, issueType string) (*models.IssueResponse, error) {
	if issueType == "" {
		issueType = defaultIssueType
	}
	priority := story.Priority
	if priority == "" {
		priority = defaultPriority
	}

	fields := map[string]any{
		"project":     map[string]string{"key": projectKey},
		"summary":     story.Summary,
		"description": storyDescriptionDoc(story.Description, story.AcceptanceCriteria),
		"issuetype":   map[string]string{"name": issueType},
		"priority":    map[string]string{"name": priority},
	}

	if len(story.Labels) > 0 {
		fields["labels"] = story.Labels
	}
	if story.Assignee != "" {
		fields["assignee"] = map[string]string{"accountId": story.Assignee}
	}
	if story.StoryPoints != nil {
		fields[s.storyPointsField] = *story.StoryPoints
	}

	data, err := s.client.Post(ctx, jiraAPIRoot+"/issue", map[string]any{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("error creating story: %w", err)
	}

	var created struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("failed to parse created issue: %w", err)
	}

	s.logger.Info().
		Str("project", projectKey).
		Str("key", created.Key).
		Msg("Created story")

	return &models.IssueResponse{
		Key:       created.Key,
		ID:        created.ID,
		URL:       fmt.Sprintf("%s/browse/%s", s.client.BaseURL(), created.Key),
		Summary:   story.Summary,
		IssueType: issueType,
	}, nil
}

// CreateStoriesBulk creates stories one at a time in input order. Each
// attempt has its own failure boundary: an error at index i is recorded and
// processing continues at i+1, so Created+Failed always equals len(stories).
func (s *JiraService) CreateStoriesBulk(ctx context.Context, projectKey string, stories []models.UserStory) (*models.BulkCreateResult, error) {
	result := &models.BulkCreateResult{
		Stories: make([]models.IssueResponse, 0, len(stories)),
		Errors:  []models.BulkCreateError{},
	}

	for idx, story := range stories {
		created, err := s.CreateStory(ctx, projectKey, story, defaultIssueType)
		if err != nil {
			s.logger.Warn().
				Int("index", idx).
				Str("summary", story.Summary).
				Err(err).
				Msg("Story creation failed")
			result.Errors = append(result.Errors, models.BulkCreateError{
				Index:   idx,
				Summary: story.Summary,
				Error:   err.Error(),
			})
			continue
		}
		result.Stories = append(result.Stories, *created)
	}

	result.Created = len(result.Stories)
	result.Failed = len(result.Errors)

	s.logger.Info().
		Str("project", projectKey).
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("Bulk story creation completed")

	return result, nil
}

// GetIssue returns issue details. The description is the first paragraph's
// first text run of the ADF body; richer descriptions are truncated to that
// single fragment.
func (s *JiraService) GetIssue(ctx context.Context, issueKey string) (*models.IssueDetails, error) {
	data, err := s.client.Get(ctx, jiraAPIRoot+"/issue/"+url.PathEscape(issueKey), nil)
	if err != nil {
		return nil, fmt.Errorf("error getting issue: %w", err)
	}

	var raw struct {
		Key    string `json:"key"`
		Fields struct {
			Summary     string         `json:"summary"`
			Description map[string]any `json:"description"`
			Status      *struct {
				Name string `json:"name"`
			} `json:"status"`
			Priority *struct {
				Name string `json:"name"`
			} `json:"priority"`
			Assignee *struct {
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
			Reporter *struct {
				DisplayName string `json:"displayName"`
			} `json:"reporter"`
			Created string `json:"created"`
			Updated string `json:"updated"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse issue: %w", err)
	}

	details := &models.IssueDetails{
		Key:      raw.Key,
		Summary:  raw.Fields.Summary,
		Status:   "Unknown",
		Priority: "Unknown",
		Reporter: "Unknown",
		Created:  raw.Fields.Created,
		Updated:  raw.Fields.Updated,
		URL:      fmt.Sprintf("%s/browse/%s", s.client.BaseURL(), raw.Key),
	}

	if raw.Fields.Description != nil {
		details.Description = firstTextRun(raw.Fields.Description)
	}
	if raw.Fields.Status != nil {
		details.Status = raw.Fields.Status.Name
	}
	if raw.Fields.Priority != nil {
		details.Priority = raw.Fields.Priority.Name
	}
	if raw.Fields.Assignee != nil {
		details.Assignee = raw.Fields.Assignee.DisplayName
	}
	if raw.Fields.Reporter != nil {
		details.Reporter = raw.Fields.Reporter.DisplayName
	}

	return details, nil
}

// SearchIssues runs a JQL search. Only summary/status/priority/assignee are
// requested to keep the payload small, so descriptions are always empty.
func (s *JiraService) SearchIssues(ctx context.Context, jql string, maxResults int) ([]models.IssueDetails, error) {
	if maxResults <= 0 {
		maxResults = defaultSearchResults
	}

	payload := map[string]any{
		"jql":        jql,
		"maxResults": maxResults,
		"fields":     []string{"summary", "status", "priority", "assignee"},
	}

	data, err := s.client.Post(ctx, jiraAPIRoot+"/search", payload)
	if err != nil {
		return nil, fmt.Errorf("error searching issues: %w", err)
	}

	var raw struct {
		Issues []struct {
			Key    string `json:"key"`
			Fields struct {
				Summary string `json:"summary"`
				Status  *struct {
					Name string `json:"name"`
				} `json:"status"`
				Priority *struct {
					Name string `json:"name"`
				} `json:"priority"`
				Assignee *struct {
					DisplayName string `json:"displayName"`
				} `json:"assignee"`
			} `json:"fields"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	issues := make([]models.IssueDetails, 0, len(raw.Issues))
	for _, issue := range raw.Issues {
		details := models.IssueDetails{
			Key:      issue.Key,
			Summary:  issue.Fields.Summary,
			Status:   "Unknown",
			Priority: "Unknown",
			URL:      fmt.Sprintf("%s/browse/%s", s.client.BaseURL(), issue.Key),
		}
		if issue.Fields.Status != nil {
			details.Status = issue.Fields.Status.Name
		}
		if issue.Fields.Priority != nil {
			details.Priority = issue.Fields.Priority.Name
		}
		if issue.Fields.Assignee != nil {
			details.Assignee = issue.Fields.Assignee.DisplayName
		}
		issues = append(issues, details)
	}

	s.logger.Debug().
		Str("jql", jql).
		Int("count", len(issues)).
		Msg("JQL search completed")

	return issues, nil
}

// AddComment adds a plain-text comment to an issue
func (s *JiraService) AddComment(ctx context.Context, issueKey, comment string) (*models.Comment, error) {
	payload := map[string]any{"body": commentDoc(comment)}

	data, err := s.client.Post(ctx, jiraAPIRoot+"/issue/"+url.PathEscape(issueKey)+"/comment", payload)
	if err != nil {
		return nil, fmt.Errorf("error adding comment: %w", err)
	}

	var raw struct {
		ID      string `json:"id"`
		Created string `json:"created"`
		Author  *struct {
			DisplayName string `json:"displayName"`
		} `json:"author"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse comment response: %w", err)
	}

	author := "Unknown"
	if raw.Author != nil && raw.Author.DisplayName != "" {
		author = raw.Author.DisplayName
	}

	return &models.Comment{
		ID:      raw.ID,
		Body:    comment,
		Created: raw.Created,
		Author:  author,
	}, nil
}
