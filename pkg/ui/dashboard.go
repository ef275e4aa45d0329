package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

// chartHeight is the number of terminal rows the bar chart spans.
const chartHeight = 6

var barEighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// feedStats are the figures derived from the current sample window.
type feedStats struct {
	Current int
	Peak    int
	Mean    int
}

// computeFeedStats derives current/peak/mean from a window snapshot. Peak is
// at least 1 so bar heights never divide by zero.
func computeFeedStats(window []int) feedStats {
	if len(window) == 0 {
		return feedStats{Peak: 1}
	}
	xs := make([]float64, len(window))
	for i, v := range window {
		xs[i] = float64(v)
	}
	peak := int(floats.Max(xs))
	if peak < 1 {
		peak = 1
	}
	return feedStats{
		Current: window[len(window)-1],
		Peak:    peak,
		Mean:    int(math.Round(stat.Mean(xs, nil))),
	}
}

// barColumns scales each sample against peak into chartHeight*8 eighths and
// returns the chart rows top to bottom.
func barColumns(window []int, peak int) []string {
	if peak < 1 {
		peak = 1
	}
	rows := make([][]rune, chartHeight)
	for r := range rows {
		rows[r] = make([]rune, 0, len(window)*2)
	}
	for _, v := range window {
		eighths := int(math.Round(float64(v) / float64(peak) * chartHeight * 8))
		for r := range chartHeight {
			// row 0 is the top
			level := (chartHeight - 1 - r) * 8
			fill := clamp(eighths-level, 0, 8)
			rows[r] = append(rows[r], barEighths[fill], ' ')
		}
	}
	out := make([]string, chartHeight)
	for r, row := range rows {
		out[r] = strings.TrimRight(string(row), " ")
	}
	return out
}

// renderDashboard draws the live smart-city dashboard.
func (t Theme) renderDashboard(d *fixture.Dashboard, window []int, live bool, width int) string {
	if d == nil {
		return ""
	}
	st := computeFeedStats(window)

	badge := t.RenderBadge("● Live", ColorBg, t.Emerald)
	if !live {
		badge = t.RenderBadge("○ Paused", ColorSubtext, ColorBgSubtle)
	}
	head := lipgloss.JoinHorizontal(lipgloss.Top,
		t.RenderSectionTitle(d.Title, d.Description), "   ", badge)

	cardWidth := (width - 4) / 3
	if cardWidth < 16 {
		cardWidth = 16
	}
	card := func(label string, value int, caption string) string {
		body := lipgloss.JoinVertical(lipgloss.Left,
			t.MutedText.Render(label),
			t.Renderer.NewStyle().Bold(true).Foreground(ColorText).Render(fmt.Sprintf("%d", value)),
			t.MutedText.Render(truncate(caption, cardWidth-4)),
		)
		return t.Panel.Width(cardWidth - 2).Render(body)
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Current", st.Current, d.Unit), " ",
		card("Peak Today", st.Peak, d.PeakCaption), " ",
		card("24h Average", st.Mean, d.MeanCaption),
	)

	bar := t.Renderer.NewStyle().Foreground(ThemeFg(t.emeraldHex()))
	chartRows := barColumns(window, st.Peak)
	for i, row := range chartRows {
		chartRows[i] = bar.Render(row)
	}
	axisLabels := []string{"24h ago", "12h ago", "Now"}
	axisWidth := max(len(window)*2-1, labelsWidth(axisLabels))
	axis := spreadLabels(axisLabels, axisWidth)
	chart := t.Panel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render(d.ChartTitle),
		"",
		strings.Join(chartRows, "\n"),
		t.MutedText.Render(axis),
	))

	pb := progress.New(
		progress.WithSolidFill(t.emeraldHex()),
		progress.WithWidth(clamp(width-8, 10, 60)),
		progress.WithoutPercentage(),
	)
	reduction := t.Panel.
		BorderForeground(t.Emerald).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			t.Title.Render("💾 Data Reduction Impact"),
			"",
			lipgloss.JoinHorizontal(lipgloss.Top,
				t.MutedText.Render(d.RawLabel)+"  "+t.DangerText.Bold(true).Render(d.RawValue),
				"     ",
				t.MutedText.Render(d.SentLabel)+"  "+t.SuccessText.Bold(true).Render(d.SentValue),
			),
			"",
			fmt.Sprintf("Data Reduction  %s", t.SuccessText.Bold(true).Render(formatPct(d.ReductionPct))),
			pb.ViewAs(d.ReductionPct/100),
			t.MutedText.Render(d.PrivacyNote),
		))

	return lipgloss.JoinVertical(lipgloss.Left, head, "", cards, chart, reduction)
}

// emeraldHex picks the emerald half matching the theme mode.
func (t Theme) emeraldHex() string {
	if t.Dark {
		return t.Emerald.Dark
	}
	return t.Emerald.Light
}

// formatPct trims trailing zeros: 99.9994 -> "99.9994%", 50 -> "50%".
func formatPct(p float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", p), "0"), ".")
	return s + "%"
}

// labelsWidth is the narrowest line holding labels separated by one space.
func labelsWidth(labels []string) int {
	w := len(labels) - 1
	for _, l := range labels {
		w += len([]rune(l))
	}
	return max(w, 0)
}

// spreadLabels places labels at the start, middle and end of width cells.
// A label never starts before the previous one ends plus a space; the line
// grows when width is too narrow to hold them all.
func spreadLabels(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", max(width, 0)))
	next := 0
	for i, l := range labels {
		rs := []rune(l)
		var pos int
		if len(labels) > 1 {
			pos = i * (width - len(rs)) / (len(labels) - 1)
		}
		pos = max(pos, next)
		for pos+len(rs) > len(line) {
			line = append(line, ' ')
		}
		copy(line[pos:], rs)
		next = pos + len(rs) + 1
	}
	return strings.TrimRight(string(line), " ")
}
