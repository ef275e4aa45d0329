package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

// cursorPos addresses a component box by column and row.
type cursorPos struct {
	Layer fixture.Layer
	Row   int
}

// archProps is everything the architecture diagram needs for one frame.
type archProps struct {
	Layers    fixture.Layers
	Steps     []fixture.FlowStep
	Stage     int
	Animating bool
	Focus     string
	Cursor    cursorPos
	Width     int
}

// moveCursor steps the cursor and clamps it to the populated boxes.
func moveCursor(c cursorPos, layers fixture.Layers, dLayer, dRow int) cursorPos {
	next := int(c.Layer) + dLayer
	c.Layer = fixture.Layer(clamp(next, 0, int(fixture.NumLayers)-1))
	c.Row += dRow
	return clampCursor(c, layers)
}

// clampCursor keeps the cursor on an existing box after the layer contents
// change (scenario switch, fixture reload).
func clampCursor(c cursorPos, layers fixture.Layers) cursorPos {
	n := len(layers.Layer(c.Layer))
	if n == 0 {
		c.Row = 0
		return c
	}
	c.Row = clamp(c.Row, 0, n-1)
	return c
}

// componentAt returns the component under the cursor.
func componentAt(c cursorPos, layers fixture.Layers) (fixture.Component, bool) {
	comps := layers.Layer(c.Layer)
	if c.Row < 0 || c.Row >= len(comps) {
		return fixture.Component{}, false
	}
	return comps[c.Row], true
}

// cursorFor finds the box holding id.
func cursorFor(id string, layers fixture.Layers) (cursorPos, bool) {
	for l := fixture.LayerEdge; l < fixture.NumLayers; l++ {
		for i, c := range layers.Layer(l) {
			if c.ID == id {
				return cursorPos{Layer: l, Row: i}, true
			}
		}
	}
	return cursorPos{}, false
}

// renderArchitecture draws the three layer columns, the pulse, the focus
// ring and the flow indicator.
func (t Theme) renderArchitecture(p archProps) string {
	width := p.Width
	if width < 60 {
		width = 60
	}

	toggle := "⏸ Pause Animation"
	if !p.Animating {
		toggle = "▶ Play Animation"
	}
	head := lipgloss.JoinHorizontal(lipgloss.Top,
		t.RenderSectionTitle("Architecture Overview", "Select a component and press enter to learn more"),
		"   ",
		t.MutedText.Render("[space] "+toggle),
	)

	arrow := t.MutedText.Render(" → ")
	colWidth := (width - 2*lipgloss.Width(arrow)) / int(fixture.NumLayers)

	var cols []string
	for l := fixture.LayerEdge; l < fixture.NumLayers; l++ {
		if l > fixture.LayerEdge {
			cols = append(cols, lipgloss.Place(lipgloss.Width(arrow), 5, lipgloss.Center, lipgloss.Center, arrow))
		}
		cols = append(cols, t.renderLayerColumn(l, p, colWidth))
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	return lipgloss.JoinVertical(lipgloss.Left, head, "", grid, "", t.renderFlowIndicator(p.Steps, p.Stage, width))
}

func (t Theme) renderLayerColumn(l fixture.Layer, p archProps, width int) string {
	inner := width - 4 // border + padding
	if inner < 8 {
		inner = 8
	}

	parts := []string{t.RenderLayerBadge(l.String(), t.LayerColor(l))}
	for i, c := range p.Layers.Layer(l) {
		pulsed := c.FlowStep == p.Stage
		focused := c.ID == p.Focus
		underCursor := p.Cursor.Layer == l && p.Cursor.Row == i

		marker := "  "
		if underCursor {
			marker = t.PrimaryBold.Render("› ")
		}
		name := marker + t.Title.Render(truncate(c.Icon+" "+c.Name, inner-2))
		body := []string{name, t.MutedText.Render(truncate(c.Type, inner))}
		for _, line := range wrapText(c.Description, inner) {
			body = append(body, t.SecondaryText.Render(line))
		}
		if pulsed {
			body = append(body, t.Renderer.NewStyle().Foreground(t.LayerColor(l)).Render("● processing"))
		}

		box := t.BoxStyle(l, pulsed, focused).Width(inner + 2).Render(strings.Join(body, "\n"))
		parts = append(parts, box)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// flowDots returns one glyph per step: done, current or pending.
func flowDots(n, stage int) []string {
	dots := make([]string, n)
	for i := range dots {
		switch {
		case i < stage:
			dots[i] = "●"
		case i == stage:
			dots[i] = "◉"
		default:
			dots[i] = "○"
		}
	}
	return dots
}

func (t Theme) renderFlowIndicator(steps []fixture.FlowStep, stage int, width int) string {
	if len(steps) == 0 {
		return ""
	}
	dots := flowDots(len(steps), stage)
	styled := make([]string, len(dots))
	for i, d := range dots {
		switch {
		case i < stage:
			styled[i] = t.SuccessText.Render(d)
		case i == stage:
			styled[i] = t.PrimaryBold.Render(d)
		default:
			styled[i] = t.MutedText.Render(d)
		}
	}

	label := ""
	if stage >= 0 && stage < len(steps) {
		s := steps[stage]
		label = fmt.Sprintf("%s  %s", t.Title.Render(s.Label), t.MutedText.Render(s.Data))
	}
	line := "Data flow  " + strings.Join(styled, " ") + "   " + label
	return truncateANSI(line, width)
}

// truncateANSI trims a styled line to width cells.
func truncateANSI(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
