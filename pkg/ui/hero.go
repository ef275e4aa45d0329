package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

// renderHeader is the top bar: brand pair on the left, mode toggle on the
// right.
func (t Theme) renderHeader(site fixture.Site, width int) string {
	left := t.Header.Render(site.Brand.Left.Icon + " " + site.Brand.Left.Name + " × " +
		site.Brand.Right.Icon + " " + site.Brand.Right.Name)

	mode := "🌙 [d]"
	if t.Dark {
		mode = "☀️ [d]"
	}
	right := t.MutedText.Render(site.Brand.Left.Name+" Docs "+site.Brand.Left.Docs) + "  " + mode

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncateANSI(left+" "+right, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHero is the badge, title, tagline and the Edge → Cloud → Record
// strip.
func (t Theme) renderHero(site fixture.Site, width int) string {
	h := site.Hero
	boxes := make([]string, 0, len(h.Steps)*2)
	for i, s := range h.Steps {
		if i > 0 {
			boxes = append(boxes, t.MutedText.Render(" → "))
		}
		color := t.LayerColor(fixture.Layer(i))
		boxes = append(boxes, t.Box.BorderForeground(color).Align(lipgloss.Center).Render(
			lipgloss.JoinVertical(lipgloss.Center,
				t.Renderer.NewStyle().Foreground(color).Bold(true).Render(s.Title),
				t.Title.Render(s.Subtitle),
				t.MutedText.Render(s.Description),
			)))
	}

	tagline := strings.Join(wrapText(h.Tagline, clamp(width-4, 20, 80)), "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		t.RenderBadge(h.Badge, ColorText, ColorBgSubtle),
		t.PrimaryBold.Render(h.Title),
		t.MutedText.Render(tagline),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, boxes...),
	)
}

// renderScenarioCards draws one card per scenario, highlighting the active
// one.
func (t Theme) renderScenarioCards(store *fixture.Store, active fixture.Scenario, width int) string {
	scs := fixture.Scenarios()
	cardWidth := (width - len(scs) + 1) / len(scs)
	if cardWidth < 28 {
		cardWidth = 28
	}

	cards := make([]string, 0, len(scs)*2)
	for i, sc := range scs {
		info := store.Info(sc)
		accent := t.AccentColor(info.Accent)
		inner := cardWidth - 4

		lines := []string{
			t.MutedText.Render(fmt.Sprintf("[%d]  ", i+1)) + t.Title.Render(truncate(info.Title, inner-5)),
			t.RenderBadge(info.Subtitle, accent, ColorBgSubtle),
		}
		for _, l := range wrapText(info.Description, inner) {
			lines = append(lines, t.MutedText.Render(l))
		}
		for _, b := range info.Benefits {
			lines = append(lines, t.Renderer.NewStyle().Foreground(accent).Render("✓ ")+truncate(b, inner-2))
		}

		style := t.Panel.Width(cardWidth - 2)
		if sc == active {
			style = style.Border(lipgloss.ThickBorder()).BorderForeground(accent)
			lines = append(lines, "", t.Renderer.NewStyle().Foreground(accent).Bold(true).Render("● Selected"))
		}
		if i > 0 {
			cards = append(cards, " ")
		}
		cards = append(cards, style.Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.RenderSectionTitle("Choose a Scenario", "Two real-world use cases for edge-to-cloud integration"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	)
}

// renderScenarioHeading is the deep-dive title and the problem statement.
func (t Theme) renderScenarioHeading(info fixture.ScenarioInfo, width int) string {
	problem := strings.Join(wrapText(info.Problem, clamp(width-6, 20, 120)), "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		t.RenderSectionTitle(info.Heading, info.Tagline),
		"",
		t.Panel.BorderForeground(ColorDanger).Width(width-2).Render(
			t.Title.Render("🎯 The Problem")+"\n"+t.MutedText.Render(problem)),
	)
}

// renderSummary is the closing "why this matters" cards and the disclaimer.
func (t Theme) renderSummary(site fixture.Site, width int) string {
	s := site.Summary
	n := len(s.Cards)
	if n == 0 {
		return ""
	}
	cardWidth := (width - n + 1) / n
	if cardWidth < 24 {
		cardWidth = 24
	}

	cards := make([]string, 0, n*2)
	for i, c := range s.Cards {
		lines := []string{t.Title.Render(c.Icon + " " + c.Title)}
		for _, b := range c.Benefits {
			lines = append(lines, t.MutedText.Render("• "+truncate(b, cardWidth-6)))
		}
		if i > 0 {
			cards = append(cards, " ")
		}
		cards = append(cards, t.Panel.Width(cardWidth-2).Render(strings.Join(lines, "\n")))
	}

	disclaimer := strings.Join(wrapText(site.Disclaimer, clamp(width-2, 20, 120)), "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		t.RenderSectionTitle(s.Title, strings.Join(wrapText(s.Description, clamp(width, 20, 120)), "\n")),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		"",
		t.MutedText.Italic(true).Render(disclaimer),
	)
}
