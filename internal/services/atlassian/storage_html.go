package atlassian

import "strings"

// promoteToStorageHTML promotes plain text to Confluence storage-format HTML.
// Content already starting with a tag is passed through untouched; plain text
// is wrapped in paragraph tags with newlines splitting paragraphs.
func promoteToStorageHTML(content string) string {
	if strings.HasPrefix(content, "<") {
		return content
	}
	return "<p>" + strings.ReplaceAll(content, "\n", "</p><p>") + "</p>"
}
