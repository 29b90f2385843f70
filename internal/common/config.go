package common

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Atlassian   AtlassianConfig `toml:"atlassian"`
	Auth        AuthConfig      `toml:"auth"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string `toml:"format"`      // "json" or "text"
	TimeFormat string `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// AtlassianConfig contains the credential set shared by the Jira and
// Confluence services. A single deployment carries exactly one credential set.
type AtlassianConfig struct {
	URL              string `toml:"url"`                // Base URL, e.g. https://your-domain.atlassian.net
	Email            string `toml:"email"`              // Account email for Basic auth
	APIToken         string `toml:"api_token"`          // API token for Basic auth
	DefaultSpaceKey  string `toml:"default_space_key"`  // Optional fallback Confluence space
	StoryPointsField string `toml:"story_points_field"` // Custom field id for story points
	RequestTimeout   string `toml:"request_timeout"`    // Per upstream call timeout, e.g. "30s"
}

// AuthConfig controls inbound authentication. An empty APIKey disables the
// check and every caller is admitted.
type AuthConfig struct {
	APIKey string `toml:"api_key"`
}

// NewDefaultConfig returns configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "localhost",
			Port: 8085,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			TimeFormat: "15:04:05",
		},
		Atlassian: AtlassianConfig{
			StoryPointsField: "customfield_10016",
			RequestTimeout:   "30s",
		},
	}
}

// LoadFromFile loads configuration from a single TOML file
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration by layering defaults, then each TOML file
// in order (later files override earlier ones), then environment variables.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SCRIBE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("SCRIBE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("SCRIBE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("SCRIBE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Atlassian credentials use the variable names the calling agent is
	// documented against, not SCRIBE_ prefixed ones.
	if jiraURL := os.Getenv("JIRA_URL"); jiraURL != "" {
		config.Atlassian.URL = jiraURL
	}

	if email := os.Getenv("JIRA_EMAIL"); email != "" {
		config.Atlassian.Email = email
	}

	if token := os.Getenv("JIRA_API_TOKEN"); token != "" {
		config.Atlassian.APIToken = token
	}

	if spaceKey := os.Getenv("DEFAULT_SPACE_KEY"); spaceKey != "" {
		config.Atlassian.DefaultSpaceKey = spaceKey
	}

	if field := os.Getenv("STORY_POINTS_FIELD"); field != "" {
		config.Atlassian.StoryPointsField = field
	}

	if apiKey := os.Getenv("SCRIBE_API_KEY"); apiKey != "" {
		config.Auth.APIKey = apiKey
	} else if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		config.Auth.APIKey = apiKey
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// NormalizeBaseURL prepends https:// when the scheme is missing and verifies
// the result parses as an absolute URL.
func NormalizeBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("base URL is empty")
	}

	normalized := raw
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	parsed, err := url.Parse(normalized)
	if err != nil || parsed.Host == "" || strings.ContainsAny(raw, " \t") {
		return "", fmt.Errorf("invalid base URL %q: must be a valid URL like https://your-domain.atlassian.net", raw)
	}

	return strings.TrimSuffix(normalized, "/"), nil
}

// GetRequestTimeout returns the configured upstream timeout, falling back to 30s
func (c *AtlassianConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout != "" {
		if d, err := time.ParseDuration(c.RequestTimeout); err == nil && d > 0 {
			return d
		}
	}
	return 30 * time.Second
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}
