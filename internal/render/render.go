// Package render turns raw page content into sanitized HTML for the
// rendered-view endpoint. Stored content is never modified; sanitizing
// happens on the way out only.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts markdown page content to sanitized HTML.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// New creates a Renderer with GFM extensions and the bluemonday UGC policy.
func New() *Renderer {
	return &Renderer{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Render converts content to HTML and strips anything the UGC policy
// disallows.
func (r *Renderer) Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}
