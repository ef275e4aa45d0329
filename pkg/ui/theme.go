package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme bundles the renderer with every style the views use. Styles are
// built from the renderer, so flipping its dark-background flag and
// rebuilding the theme switches every adaptive color at once.
type Theme struct {
	Renderer *lipgloss.Renderer
	Dark     bool

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Layers
	Edge   lipgloss.AdaptiveColor
	Cloud  lipgloss.AdaptiveColor
	Action lipgloss.AdaptiveColor

	// Scenario accents
	Emerald lipgloss.AdaptiveColor
	Amber   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base      lipgloss.Style
	Header    lipgloss.Style
	Title     lipgloss.Style
	Panel     lipgloss.Style
	Box       lipgloss.Style
	Code      lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style

	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	SuccessText   lipgloss.Style
	DangerText    lipgloss.Style
	WarningText   lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired theme for r. The renderer's
// dark-background flag picks the Light or Dark half of each color.
// Dark is left for the caller to set.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Edge:   lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"},
		Cloud:  lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"},
		Action: lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"},

		Emerald: lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"},
		Amber:   lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Title = r.NewStyle().Foreground(ColorText).Bold(true)

	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.Box = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.Code = r.NewStyle().
		Foreground(ColorText).
		Background(ColorBgSubtle).
		Padding(0, 1)

	t.TabActive = r.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Underline(true).
		Padding(0, 1)

	t.TabIdle = r.NewStyle().
		Foreground(t.Muted).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.SuccessText = r.NewStyle().Foreground(ColorSuccess)
	t.DangerText = r.NewStyle().Foreground(ColorDanger)
	t.WarningText = r.NewStyle().Foreground(ColorWarning)

	return t
}

// ThemeFor returns a theme on a fresh renderer forced to the given mode.
func ThemeFor(dark bool) Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetHasDarkBackground(dark)
	t := DefaultTheme(r)
	t.Dark = dark
	return t
}

// LayerColor returns the accent of an architecture column.
func (t Theme) LayerColor(l fixture.Layer) lipgloss.AdaptiveColor {
	switch l {
	case fixture.LayerEdge:
		return t.Edge
	case fixture.LayerCloud:
		return t.Cloud
	case fixture.LayerAction:
		return t.Action
	default:
		return t.Subtext
	}
}

// AccentColor maps a scenario accent family to a color.
func (t Theme) AccentColor(accent string) lipgloss.AdaptiveColor {
	switch accent {
	case "emerald":
		return t.Emerald
	case "amber":
		return t.Amber
	default:
		return t.Primary
	}
}

// BoxStyle returns the component box style for the given highlight state.
// Focus wins over the pulse.
func (t Theme) BoxStyle(l fixture.Layer, pulsed, focused bool) lipgloss.Style {
	s := t.Box
	switch {
	case focused:
		return s.Border(lipgloss.ThickBorder()).BorderForeground(t.Primary)
	case pulsed:
		return s.Border(lipgloss.DoubleBorder()).BorderForeground(t.LayerColor(l))
	default:
		return s
	}
}
