// Package render turns turn content into HTML safe to embed in the chat page.
package render

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	// Model output and user input are both untrusted.
	policy = bluemonday.UGCPolicy()
)

// Markdown renders content as sanitized HTML. It never fails: content that
// cannot be converted is returned escaped.
func Markdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}

	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
