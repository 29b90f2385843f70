package atlassian

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVersionConflict is returned when a page update loses the version race
// against a concurrent writer and the bounded re-read retries are exhausted.
var ErrVersionConflict = errors.New("page version conflict")

// ConfigurationError indicates a missing or invalid credential or base URL.
// It is raised at service construction and is fatal to the request.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// UpstreamError wraps any non-2xx or transport failure from Jira/Confluence
type UpstreamError struct {
	Operation string
	Status    int
	Messages  []string
}

func (e *UpstreamError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.Status, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("%s failed with status %d", e.Operation, e.Status)
}

// IsNotFound reports whether the upstream rejected the request with a 404
func (e *UpstreamError) IsNotFound() bool {
	return e.Status == 404
}

// IsConflict reports whether the upstream rejected the request with a 409
func (e *UpstreamError) IsConflict() bool {
	return e.Status == 409
}
