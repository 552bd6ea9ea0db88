package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoolboard/core/internal/pkg/markdown"
)

func TestRenderBasics(t *testing.T) {
	assert.Equal(t, "", markdown.Render("   "))

	html := markdown.Render("School **closed** Monday.")
	assert.Contains(t, html, "<strong>closed</strong>")

	html = markdown.Render("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.Contains(t, html, "<table>")
}

func TestSummaryStripsMarkup(t *testing.T) {
	got := markdown.Summary("# Heading\n\nSome **bold** text.", 0)
	assert.Equal(t, "Heading Some bold text.", got)
	assert.NotContains(t, got, "<")
}

func TestSummaryTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("字", 50)
	got := markdown.Summary(long, 10)
	assert.Equal(t, strings.Repeat("字", 10)+"…", got)

	short := "brief"
	assert.Equal(t, short, markdown.Summary(short, 10))
}
