package atlassian

import (
	"fmt"
	"strings"
)

// escapeCQL escapes a value for interpolation inside a double-quoted CQL
// string so caller input cannot break out of the quoting or alter the
// search scope.
func escapeCQL(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return value
}

// buildPageSearchCQL builds the page text search expression scoped to one
// space. Semantics match a substring/text match within the given space.
func buildPageSearchCQL(spaceKey, query string) string {
	return fmt.Sprintf(`space = "%s" AND type = page AND text ~ "%s"`,
		escapeCQL(spaceKey), escapeCQL(query))
}
