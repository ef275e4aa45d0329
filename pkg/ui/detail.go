package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
	"github.com/vanderheijden86/edgerecord/pkg/session"
)

// resolveDetail looks up the focused component under the active scenario.
// A focus id that does not belong to the scenario resolves to nothing.
func resolveDetail(store *fixture.Store, sel *session.Selection) (fixture.ComponentDetail, bool) {
	id, ok := sel.ActiveComponent()
	if !ok {
		return fixture.ComponentDetail{}, false
	}
	if _, ok := store.ComponentIn(sel.ActiveScenario(), id); !ok {
		return fixture.ComponentDetail{}, false
	}
	return store.DetailFor(id)
}

// renderDetailPlaceholder is shown while nothing is focused.
func (t Theme) renderDetailPlaceholder(width int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		"👆",
		t.Title.Render("Select a Component"),
		t.MutedText.Render("Move with the arrow keys and press enter"),
		t.MutedText.Render("to see details, capabilities and configuration."),
	)
	return t.Panel.Width(width - 2).Align(lipgloss.Center).Render(body)
}

// renderDetail draws the component detail panel.
func (t Theme) renderDetail(d fixture.ComponentDetail, width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(d.Icon + " " + d.Name))
	b.WriteString("  ")
	b.WriteString(t.MutedText.Render("[esc] close"))
	b.WriteString("\n")
	b.WriteString(t.RenderBadge(d.Type, ColorSubtext, ColorBgSubtle))
	b.WriteString("\n\n")

	for _, line := range wrapText(d.Description, inner) {
		b.WriteString(t.SecondaryText.Render(line))
		b.WriteString("\n")
	}

	if d.HasDataFlow() {
		b.WriteString("\n")
		b.WriteString(t.Title.Render("Data Flow"))
		b.WriteString("\n")
		if d.DataIn != "" {
			b.WriteString(t.MutedText.Render("Input   "))
			b.WriteString(truncate(d.DataIn, inner-8))
			b.WriteString("\n")
		}
		if d.DataOut != "" {
			b.WriteString(t.MutedText.Render("Output  "))
			b.WriteString(t.SuccessText.Render(truncate(d.DataOut, inner-8)))
			b.WriteString("\n")
		}
	}

	if len(d.Capabilities) > 0 {
		b.WriteString("\n")
		b.WriteString(t.Title.Render("Capabilities"))
		b.WriteString("\n")
		for _, c := range d.Capabilities {
			b.WriteString(t.PrimaryBold.Render("• "))
			b.WriteString(truncate(c, inner-2))
			b.WriteString("\n")
		}
	}

	if len(d.Benefits) > 0 {
		b.WriteString("\n")
		b.WriteString(t.Title.Render("Benefits"))
		b.WriteString("\n")
		for _, benefit := range d.Benefits {
			b.WriteString(t.SuccessText.Render("✓ "))
			b.WriteString(truncate(benefit, inner-2))
			b.WriteString("\n")
		}
	}

	if d.Config != "" {
		b.WriteString("\n")
		b.WriteString(t.Title.Render("Configuration"))
		b.WriteString("\n")
		for _, line := range strings.Split(strings.TrimRight(d.Config, "\n"), "\n") {
			b.WriteString(t.Code.Render(padRight(line, inner-2)))
			b.WriteString("\n")
		}
	}

	return t.Panel.
		BorderForeground(t.Primary).
		Width(width - 2).
		Render(strings.TrimRight(b.String(), "\n"))
}
