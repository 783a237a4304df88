package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Campaign descriptions and updates are authored in Markdown; raw HTML in the
// source is escaped, never passed through.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// Render converts Markdown source to HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderOrRaw renders Markdown, falling back to the raw source on failure so a
// malformed description never breaks a read endpoint.
func RenderOrRaw(source string) string {
	html, err := Render(source)
	if err != nil {
		return source
	}
	return html
}
