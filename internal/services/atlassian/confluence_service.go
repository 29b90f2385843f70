package atlassian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/common"
	"github.com/ternarybob/scribe/internal/models"
)

const (
	wikiAPIRoot       = "/wiki/rest/api"
	defaultPageLimit  = 50
	searchPageLimit   = 20
	defaultSeparator  = "<hr/>"
	updateMaxAttempts = 3
)

// ConfluenceService is a stateless adapter over the Confluence Cloud wiki
// REST API, sharing the credential set with the Jira service plus an
// optional default space key.
type ConfluenceService struct {
	client          *Client
	defaultSpaceKey string
	logger          arbor.ILogger
}

// NewConfluenceService creates a Confluence service, validating the
// credential set eagerly at construction.
func NewConfluenceService(cfg *common.AtlassianConfig, logger arbor.ILogger) (*ConfluenceService, error) {
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &ConfluenceService{
		client:          client,
		defaultSpaceKey: cfg.DefaultSpaceKey,
		logger:          logger,
	}, nil
}

// resolveSpaceKey falls back to the configured default when the caller did
// not supply an explicit key. An empty resolved key is passed through and
// fails upstream with a not-found error rather than a silent success.
func (s *ConfluenceService) resolveSpaceKey(spaceKey string) string {
	if spaceKey != "" {
		return spaceKey
	}
	return s.defaultSpaceKey
}

// GetSpaceInfo returns space metadata, resolving the key to the configured
// default when omitted.
func (s *ConfluenceService) GetSpaceInfo(ctx context.Context, spaceKey string) (*models.SpaceInfo, error) {
	key := s.resolveSpaceKey(spaceKey)
	query := url.Values{"expand": {"description,homepage"}}

	data, err := s.client.Get(ctx, wikiAPIRoot+"/space/"+url.PathEscape(key), query)
	if err != nil {
		return nil, fmt.Errorf("error getting space info: %w", err)
	}

	var raw struct {
		Key      string `json:"key"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		Homepage *struct {
			ID string `json:"id"`
		} `json:"homepage"`
		Links map[string]any `json:"_links"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse space: %w", err)
	}

	info := &models.SpaceInfo{
		Key:   raw.Key,
		Name:  raw.Name,
		Type:  raw.Type,
		Links: raw.Links,
	}
	if raw.Homepage != nil {
		info.HomepageID = raw.Homepage.ID
	}

	return info, nil
}

// ListPages lists current pages in a space. Space info is fetched first for
// the display name; page URLs are synthesized from base URL, space key and
// page id rather than taken from upstream link fields.
func (s *ConfluenceService) ListPages(ctx context.Context, spaceKey string, limit int) (*models.PageList, error) {
	key := s.resolveSpaceKey(spaceKey)
	if limit <= 0 {
		limit = defaultPageLimit
	}

	spaceInfo, err := s.GetSpaceInfo(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error listing pages: %w", err)
	}

	query := url.Values{
		"spaceKey": {key},
		"type":     {"page"},
		"status":   {"current"},
		"limit":    {strconv.Itoa(limit)},
		"expand":   {"version,body.storage"},
	}

	data, err := s.client.Get(ctx, wikiAPIRoot+"/content", query)
	if err != nil {
		return nil, fmt.Errorf("error listing pages: %w", err)
	}

	var raw struct {
		Results []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Type    string `json:"type"`
			Version *struct {
				Number int    `json:"number"`
				When   string `json:"when"`
				By     *struct {
					DisplayName string `json:"displayName"`
				} `json:"by"`
			} `json:"version"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse content listing: %w", err)
	}

	pages := make([]models.PageInfo, 0, len(raw.Results))
	for _, page := range raw.Results {
		info := models.PageInfo{
			ID:    page.ID,
			Title: page.Title,
			Type:  page.Type,
			URL:   s.pageURL(key, page.ID),
		}
		if page.Version != nil {
			info.Version = page.Version.Number
			info.LastUpdated = page.Version.When
			if page.Version.By != nil {
				info.UpdatedBy = page.Version.By.DisplayName
			}
		}
		pages = append(pages, info)
	}

	return &models.PageList{
		SpaceKey:  key,
		SpaceName: spaceInfo.Name,
		Total:     len(pages),
		Pages:     pages,
	}, nil
}

// GetPageContent returns the raw storage-format body and version of a page.
// This is the canonical read used as the basis for every update/append.
func (s *ConfluenceService) GetPageContent(ctx context.Context, pageID string) (*models.PageContent, error) {
	query := url.Values{"expand": {"body.storage,version,space"}}

	data, err := s.client.Get(ctx, wikiAPIRoot+"/content/"+url.PathEscape(pageID), query)
	if err != nil {
		return nil, fmt.Errorf("error getting page content: %w", err)
	}

	var raw struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Body  struct {
			Storage struct {
				Value string `json:"value"`
			} `json:"storage"`
		} `json:"body"`
		Version struct {
			Number int `json:"number"`
		} `json:"version"`
		Space struct {
			Key string `json:"key"`
		} `json:"space"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return &models.PageContent{
		ID:       raw.ID,
		Title:    raw.Title,
		Content:  raw.Body.Storage.Value,
		Version:  raw.Version.Number,
		SpaceKey: raw.Space.Key,
		URL:      s.pageURL(raw.Space.Key, raw.ID),
	}, nil
}

// CreatePage creates a page in a space, wrapping plain-text content in
// paragraph tags. When parentID is set the page is created as its child.
func (s *ConfluenceService) CreatePage(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
	key := s.resolveSpaceKey(spaceKey)
	if contentType == "" {
		contentType = "page"
	}

	payload := map[string]any{
		"type":  contentType,
		"title": title,
		"space": map[string]string{"key": key},
		"body": map[string]any{
			"storage": map[string]string{
				"value":          promoteToStorageHTML(content),
				"representation": "storage",
			},
		},
	}
	if parentID != "" {
		payload["ancestors"] = []map[string]string{{"id": parentID}}
	}

	data, err := s.client.Post(ctx, wikiAPIRoot+"/content", payload)
	if err != nil {
		return nil, fmt.Errorf("error creating page: %w", err)
	}

	var raw struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Version struct {
			Number int `json:"number"`
		} `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse created page: %w", err)
	}

	s.logger.Info().
		Str("space", key).
		Str("page_id", raw.ID).
		Str("title", raw.Title).
		Msg("Created page")

	return &models.PageResult{
		ID:      raw.ID,
		Title:   raw.Title,
		URL:     s.pageURL(key, raw.ID),
		Version: raw.Version.Number,
	}, nil
}

// UpdatePage performs the read-modify-write page update: the current page is
// fetched for defaults and version, then written with version.number set to
// previous+1. A 409 from a concurrent writer triggers a bounded re-read and
// retry; when attempts are exhausted ErrVersionConflict is returned. Each
// successful write increments the version by exactly one.
func (s *ConfluenceService) UpdatePage(ctx context.Context, pageID, title, content, versionComment string) (*models.PageResult, error) {
	if versionComment == "" {
		versionComment = "Updated via API"
	}

	for attempt := 1; attempt <= updateMaxAttempts; attempt++ {
		current, err := s.GetPageContent(ctx, pageID)
		if err != nil {
			return nil, fmt.Errorf("error updating page: %w", err)
		}

		newTitle := title
		if newTitle == "" {
			newTitle = current.Title
		}
		newContent := content
		if newContent == "" {
			newContent = current.Content
		}
		newContent = promoteToStorageHTML(newContent)

		payload := map[string]any{
			"version": map[string]any{
				"number":  current.Version + 1,
				"message": versionComment,
			},
			"title": newTitle,
			"type":  "page",
			"body": map[string]any{
				"storage": map[string]string{
					"value":          newContent,
					"representation": "storage",
				},
			},
		}

		data, err := s.client.Put(ctx, wikiAPIRoot+"/content/"+url.PathEscape(pageID), payload)
		if err != nil {
			var upstream *UpstreamError
			if errors.As(err, &upstream) && upstream.IsConflict() && attempt < updateMaxAttempts {
				s.logger.Warn().
					Str("page_id", pageID).
					Int("attempt", attempt).
					Msg("Page version conflict, re-reading")
				continue
			}
			if errors.As(err, &upstream) && upstream.IsConflict() {
				return nil, fmt.Errorf("error updating page %s after %d attempts: %w", pageID, attempt, ErrVersionConflict)
			}
			return nil, fmt.Errorf("error updating page: %w", err)
		}

		var raw struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Version struct {
				Number int `json:"number"`
			} `json:"version"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse updated page: %w", err)
		}

		s.logger.Info().
			Str("page_id", pageID).
			Int("version", raw.Version.Number).
			Msg("Updated page")

		return &models.PageResult{
			ID:              raw.ID,
			Title:           raw.Title,
			URL:             s.pageURL(current.SpaceKey, pageID),
			Version:         raw.Version.Number,
			PreviousVersion: current.Version,
		}, nil
	}

	return nil, fmt.Errorf("error updating page %s: %w", pageID, ErrVersionConflict)
}

// AppendToPage concatenates promoted content onto the current page body,
// separated by the given separator (default <hr/>), then delegates to
// UpdatePage.
func (s *ConfluenceService) AppendToPage(ctx context.Context, pageID, additionalContent, separator string) (*models.PageResult, error) {
	if separator == "" {
		separator = defaultSeparator
	}

	current, err := s.GetPageContent(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("error appending to page: %w", err)
	}

	newContent := current.Content + separator + promoteToStorageHTML(additionalContent)

	return s.UpdatePage(ctx, pageID, "", newContent, "Content appended via API")
}

// SearchPages runs a CQL text search scoped to one space. Caller input is
// escaped before interpolation into the CQL expression.
func (s *ConfluenceService) SearchPages(ctx context.Context, query, spaceKey string) ([]models.PageInfo, error) {
	key := s.resolveSpaceKey(spaceKey)
	cql := buildPageSearchCQL(key, query)

	params := url.Values{
		"cql":   {cql},
		"limit": {strconv.Itoa(searchPageLimit)},
	}

	data, err := s.client.Get(ctx, wikiAPIRoot+"/content/search", params)
	if err != nil {
		return nil, fmt.Errorf("error searching pages: %w", err)
	}

	var raw struct {
		Results []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Type  string `json:"type"`
			Links struct {
				WebUI string `json:"webui"`
			} `json:"_links"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	pages := make([]models.PageInfo, 0, len(raw.Results))
	for _, result := range raw.Results {
		pages = append(pages, models.PageInfo{
			ID:    result.ID,
			Title: result.Title,
			Type:  result.Type,
			URL:   s.client.BaseURL() + "/wiki" + result.Links.WebUI,
		})
	}

	s.logger.Debug().
		Str("space", key).
		Int("count", len(pages)).
		Msg("CQL search completed")

	return pages, nil
}

func (s *ConfluenceService) pageURL(spaceKey, pageID string) string {
	return fmt.Sprintf("%s/wiki/spaces/%s/pages/%s", s.client.BaseURL(), spaceKey, pageID)
}
