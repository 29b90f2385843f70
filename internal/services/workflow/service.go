package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/models"
)

const defaultPageTitle = "User Stories"

// Service composes bulk story creation with Confluence documentation into
// one logical action: create N stories, then document the outcome.
type Service struct {
	jira       interfaces.JiraService
	confluence interfaces.ConfluenceService
	logger     arbor.ILogger
}

// NewService creates a workflow service over the two adapters
func NewService(jira interfaces.JiraService, confluence interfaces.ConfluenceService, logger arbor.ILogger) *Service {
	return &Service{
		jira:       jira,
		confluence: confluence,
		logger:     logger,
	}
}

// StoriesToConfluence creates the stories in Jira, then documents the
// successes on a Confluence page. The Confluence step runs even when every
// story failed (it documents an empty table). A Confluence failure fails the
// whole call; issues already created in Jira are not rolled back.
func (s *Service) StoriesToConfluence(ctx context.Context, req *models.WorkflowRequest) (*models.WorkflowResult, error) {
	jiraResult, err := s.jira.CreateStoriesBulk(ctx, req.ProjectKey, req.Stories)
	if err != nil {
		return nil, fmt.Errorf("bulk story creation failed: %w", err)
	}

	content := buildSummaryHTML(jiraResult)

	var confluenceResult *models.PageResult
	if req.PageID != "" {
		confluenceResult, err = s.confluence.AppendToPage(ctx, req.PageID, content, "")
	} else {
		title := req.PageTitle
		if title == "" {
			title = defaultPageTitle
		}
		confluenceResult, err = s.confluence.CreatePage(ctx, title, content, req.SpaceKey, "", "")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to document stories in Confluence: %w", err)
	}

	s.logger.Info().
		Str("project", req.ProjectKey).
		Int("created", jiraResult.Created).
		Int("failed", jiraResult.Failed).
		Str("page_id", confluenceResult.ID).
		Msg("Stories created and documented")

	return &models.WorkflowResult{
		Jira:       jiraResult,
		Confluence: confluenceResult,
	}, nil
}

// buildSummaryHTML renders the storage-format summary: heading, creation
// count, and a table with one row per successfully created story in creation
// order. Failed attempts appear only in the returned counts, never here.
func buildSummaryHTML(result *models.BulkCreateResult) string {
	var b strings.Builder

	b.WriteString("<h2>User Stories</h2>\n")
	b.WriteString(fmt.Sprintf("<p>Created: %d stories</p>\n", result.Created))
	b.WriteString("<table><tr><th>Key</th><th>Summary</th><th>URL</th></tr>\n")

	for _, story := range result.Stories {
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td>", story.Key, story.Summary))
		b.WriteString(fmt.Sprintf("<td><a href=\"%s\">%s</a></td></tr>\n", story.URL, story.Key))
	}

	b.WriteString("</table>\n")

	return b.String()
}
