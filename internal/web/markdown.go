package web

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var answerPolicy = bluemonday.UGCPolicy()

// RenderMarkdown turns model output into sanitized HTML.
func RenderMarkdown(content string) template.HTML {
	// Single newlines stay soft breaks.
	extensions := blackfriday.CommonExtensions | blackfriday.NoEmptyLineBeforeBlock
	raw := blackfriday.Run([]byte(content), blackfriday.WithExtensions(extensions))
	return template.HTML(answerPolicy.SanitizeBytes(raw)) //nolint:gosec // sanitized above
}
