package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown through glamour, rebuilding the
// underlying renderer only when the wrap width or the light/dark style
// changes.
type MarkdownRenderer struct {
	tr    *glamour.TermRenderer
	width int
	dark  bool
}

// NewMarkdownRenderer returns a renderer for the given width and mode.
func NewMarkdownRenderer(width int, dark bool) *MarkdownRenderer {
	r := &MarkdownRenderer{}
	r.configure(width, dark)
	return r
}

func (r *MarkdownRenderer) configure(width int, dark bool) {
	if width < 20 {
		width = 20
	}
	if r.tr != nil && r.width == width && r.dark == dark {
		return
	}
	style := "light"
	if dark {
		style = "dark"
	}
	// A nil renderer falls back to plain text in Render.
	r.tr, _ = glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	r.width, r.dark = width, dark
}

// SetWidth changes the wrap width.
func (r *MarkdownRenderer) SetWidth(width int) {
	r.configure(width, r.dark)
}

// SetDark switches between the light and dark glamour styles.
func (r *MarkdownRenderer) SetDark(dark bool) {
	r.configure(r.width, dark)
}

// Render returns the styled markdown, or the source unchanged if glamour
// could not be set up or fails.
func (r *MarkdownRenderer) Render(md string) string {
	if r == nil || r.tr == nil {
		return md
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// fencedCode wraps code in a markdown fence tagged with lang.
func fencedCode(code, lang string) string {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	return fence + lang + "\n" + strings.TrimRight(code, "\n") + "\n" + fence
}
