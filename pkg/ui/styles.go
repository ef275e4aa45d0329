package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Status line backgrounds
	ColorSuccessBg = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorDangerBg  = lipgloss.AdaptiveColor{Light: "#F8D7DA", Dark: "#3D1A1A"}

	// Case priority
	ColorPrioHigh   = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorPrioHighBg = lipgloss.AdaptiveColor{Light: "#F8D7DA", Dark: "#3D1A1A"}
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
// ══════════════════════════════════════════════════════════════════════════════

// RenderBadge renders a compact pill with the given colors.
func (t Theme) RenderBadge(label string, fg, bg lipgloss.TerminalColor) string {
	return t.Renderer.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// RenderLayerBadge renders the label above an architecture column.
func (t Theme) RenderLayerBadge(label string, c lipgloss.AdaptiveColor) string {
	return t.Renderer.NewStyle().
		Foreground(c).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(0, 1).
		Render(label)
}

// RenderPriorityBadge renders a case priority; anything but High is neutral.
func (t Theme) RenderPriorityBadge(priority string) string {
	if strings.EqualFold(priority, "high") || strings.EqualFold(priority, "critical") {
		return t.RenderBadge(priority, ColorPrioHigh, ColorPrioHighBg)
	}
	return t.RenderBadge(priority, ColorSubtext, ColorBgSubtle)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal rule of the given width.
func (t Theme) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", width))
}

// RenderSectionTitle renders a bold title with an optional muted subtitle.
func (t Theme) RenderSectionTitle(title, subtitle string) string {
	out := t.Title.Render(title)
	if subtitle != "" {
		out += "\n" + t.MutedText.Render(subtitle)
	}
	return out
}
