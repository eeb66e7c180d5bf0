package utils

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// CleanMarkdown trims the text and strips an outer code fence if the whole
// text is wrapped in one.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "```"), "```")
		cleaned = strings.TrimPrefix(cleaned, "markdown")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// RenderMarkdown converts methodology or rationale text to HTML. Raw HTML in
// the input is not passed through.
func RenderMarkdown(input string) (string, error) {
	cleaned := CleanMarkdown(input)
	if cleaned == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(cleaned), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
