package atlassian

// Minimal Atlassian Document Format (ADF) construction and extraction.
// Only the node types this service writes are modeled: doc, heading,
// paragraph, text.

type adfNode struct {
	Type    string         `json:"type"`
	Version int            `json:"version,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []adfNode      `json:"content,omitempty"`
}

func adfText(text string) adfNode {
	return adfNode{Type: "text", Text: text}
}

func adfParagraph(text string) adfNode {
	return adfNode{Type: "paragraph", Content: []adfNode{adfText(text)}}
}

func adfHeading(level int, text string) adfNode {
	return adfNode{
		Type:    "heading",
		Attrs:   map[string]any{"level": level},
		Content: []adfNode{adfText(text)},
	}
}

// adfDocument wraps content nodes in a version-1 ADF doc
func adfDocument(content ...adfNode) adfNode {
	return adfNode{Type: "doc", Version: 1, Content: content}
}

// storyDescriptionDoc builds the story description: a "Description" heading
// section followed by an optional "Acceptance Criteria" heading section.
// Both bodies stay plain text paragraphs, not structured sub-fields.
func storyDescriptionDoc(description, acceptanceCriteria string) adfNode {
	content := []adfNode{
		adfHeading(3, "Description"),
		adfParagraph(description),
	}

	if acceptanceCriteria != "" {
		content = append(content,
			adfHeading(3, "Acceptance Criteria"),
			adfParagraph(acceptanceCriteria),
		)
	}

	return adfDocument(content...)
}

// commentDoc builds a single-paragraph comment body
func commentDoc(text string) adfNode {
	return adfDocument(adfParagraph(text))
}

// firstTextRun extracts the first content node's first text run from a
// decoded ADF body. Multi-paragraph or rich-formatted descriptions are
// deliberately truncated to this single fragment.
func firstTextRun(doc map[string]any) string {
	content, ok := doc["content"].([]any)
	if !ok || len(content) == 0 {
		return ""
	}

	first, ok := content[0].(map[string]any)
	if !ok {
		return ""
	}

	inner, ok := first["content"].([]any)
	if !ok || len(inner) == 0 {
		return ""
	}

	run, ok := inner[0].(map[string]any)
	if !ok {
		return ""
	}

	text, _ := run["text"].(string)
	return text
}
