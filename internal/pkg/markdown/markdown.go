package markdown

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Render converts markdown text to HTML. On conversion failure the
// source is returned escaped rather than lost.
func Render(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var out bytes.Buffer
	if err := engine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return out.String()
}

// Summary renders markdown and strips markup, returning a plain-text
// excerpt of at most maxRunes runes for list views.
func Summary(text string, maxRunes int) string {
	plain := htmlTagPattern.ReplaceAllString(Render(text), " ")
	plain = strings.TrimSpace(whitespacePattern.ReplaceAllString(plain, " "))
	runes := []rune(plain)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return plain
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
