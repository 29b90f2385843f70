package atlassian

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/common"
)

// Client is the shared credential-bearing REST client for the Jira and
// Confluence services. It is immutable after construction and holds no
// cross-request state beyond the underlying http.Client.
type Client struct {
	baseURL    string
	authHeader string
	timeout    time.Duration
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewClient builds a client from the configured credential set. The base URL
// is normalized (https:// prepended when the scheme is missing) and all three
// credential values are validated eagerly.
func NewClient(cfg *common.AtlassianConfig, logger arbor.ILogger) (*Client, error) {
	if cfg.Email == "" {
		return nil, &ConfigurationError{Field: "atlassian.email", Message: "not set"}
	}
	if cfg.APIToken == "" {
		return nil, &ConfigurationError{Field: "atlassian.api_token", Message: "not set"}
	}

	baseURL, err := common.NormalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, &ConfigurationError{Field: "atlassian.url", Message: err.Error()}
	}

	auth := base64.StdEncoding.EncodeToString([]byte(cfg.Email + ":" + cfg.APIToken))
	timeout := cfg.GetRequestTimeout()

	return &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + auth,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs an authenticated GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post performs an authenticated POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put performs an authenticated PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("Atlassian API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			Operation: fmt.Sprintf("%s %s", method, path),
			Status:    resp.StatusCode,
			Messages:  extractErrorMessages(respBody),
		}
	}

	return respBody, nil
}

// extractErrorMessages pulls human-readable messages out of an Atlassian
// error body. Jira returns {errorMessages: [...], errors: {...}}, Confluence
// returns {message: "..."}. Falls back to the raw body.
func extractErrorMessages(body []byte) []string {
	var parsed struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
		Message       string            `json:"message"`
	}

	if err := json.Unmarshal(body, &parsed); err == nil {
		var messages []string
		messages = append(messages, parsed.ErrorMessages...)
		for field, msg := range parsed.Errors {
			messages = append(messages, fmt.Sprintf("%s: %s", field, msg))
		}
		if parsed.Message != "" {
			messages = append(messages, parsed.Message)
		}
		if len(messages) > 0 {
			return messages
		}
	}

	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return []string{trimmed}
	}
	return nil
}
