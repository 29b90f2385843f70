package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/common"
	"github.com/ternarybob/scribe/internal/handlers"
	"github.com/ternarybob/scribe/internal/services/atlassian"
	"github.com/ternarybob/scribe/internal/services/workflow"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Atlassian adapters
	JiraService       *atlassian.JiraService
	ConfluenceService *atlassian.ConfluenceService
	WorkflowService   *workflow.Service

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	JiraHandler       *handlers.JiraHandler
	ConfluenceHandler *handlers.ConfluenceHandler
	WorkflowHandler   *handlers.WorkflowHandler
}

// New wires up services and handlers from configuration. Both Atlassian
// services validate the credential set eagerly, so a broken configuration
// fails here rather than on the first upstream call.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	jiraService, err := atlassian.NewJiraService(&config.Atlassian, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira service: %w", err)
	}

	confluenceService, err := atlassian.NewConfluenceService(&config.Atlassian, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Confluence service: %w", err)
	}

	workflowService := workflow.NewService(jiraService, confluenceService, logger)

	app := &App{
		Config:            config,
		Logger:            logger,
		JiraService:       jiraService,
		ConfluenceService: confluenceService,
		WorkflowService:   workflowService,
		APIHandler:        handlers.NewAPIHandler(),
		JiraHandler:       handlers.NewJiraHandler(jiraService, logger),
		ConfluenceHandler: handlers.NewConfluenceHandler(confluenceService, logger),
		WorkflowHandler:   handlers.NewWorkflowHandler(workflowService, logger),
	}

	if config.Auth.APIKey == "" {
		logger.Warn().Msg("No API key configured - inbound authentication is DISABLED, every caller is accepted")
	}

	if config.Atlassian.DefaultSpaceKey == "" {
		logger.Debug().Msg("No default Confluence space key configured")
	}

	return app, nil
}
