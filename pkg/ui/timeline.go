package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
	"github.com/vanderheijden86/edgerecord/pkg/sim"
)

// stepStatus is how a timeline step renders at a given stage.
type stepStatus int

const (
	stepPending stepStatus = iota
	stepActive
	stepComplete
)

// timelineStepStatus maps the 1-based step n against the sequencer stage.
// Step n lights up once stage reaches n and is complete once stage passes n.
func timelineStepStatus(n, stage int) stepStatus {
	switch {
	case stage > n:
		return stepComplete
	case stage >= n:
		return stepActive
	default:
		return stepPending
	}
}

// revealed reports whether a mock with the given threshold shows at stage.
// A zero threshold means the last stage.
func revealed(revealAt, stage, maxStage int) bool {
	if revealAt <= 0 {
		revealAt = maxStage
	}
	return stage >= revealAt
}

// runLabel is the text of the run control for a sequencer state.
func runLabel(st sim.State) string {
	switch st {
	case sim.StateRunning:
		return "Running..."
	case sim.StateComplete:
		return "↻ Run Again"
	default:
		return "▶ Run Simulation"
	}
}

// renderTimeline draws the scripted utility workflow.
func (t Theme) renderTimeline(tl *fixture.Timeline, seq sim.Sequencer, width int) string {
	if tl == nil {
		return ""
	}
	stage := seq.Stage()
	maxStage := seq.MaxStage()

	control := t.RenderBadge("[r] "+runLabel(seq.State()), ColorBg, t.Amber)
	if seq.Running() {
		control = t.RenderBadge(runLabel(seq.State()), ColorSubtext, ColorBgSubtle)
	}
	head := lipgloss.JoinHorizontal(lipgloss.Top,
		t.RenderSectionTitle(tl.Title, tl.Description), "   ", control)

	inner := width - 8
	if inner < 20 {
		inner = 20
	}

	var steps []string
	for i, s := range tl.Steps {
		n := i + 1
		status := timelineStepStatus(n, stage)

		var bullet, title string
		switch status {
		case stepComplete:
			bullet = t.SuccessText.Bold(true).Render("✓")
			title = t.Title.Render(s.Title)
		case stepActive:
			bullet = t.WarningText.Bold(true).Render(fmt.Sprintf("%d", n))
			title = t.Title.Render(s.Title)
		default:
			bullet = t.MutedText.Render(fmt.Sprintf("%d", n))
			title = t.MutedText.Render(s.Title)
		}

		lines := []string{fmt.Sprintf("(%s) %s", bullet, title)}
		for _, l := range wrapText(s.Description, inner) {
			lines = append(lines, "    "+t.MutedText.Render(l))
		}
		if status != stepPending && len(s.Details) > 0 {
			for _, kv := range s.Details {
				line := t.MutedText.Render(kv.Key+": ") + truncate(kv.Value, inner-len(kv.Key)-2)
				lines = append(lines, "    "+t.Code.Render(line))
			}
		}
		steps = append(steps, strings.Join(lines, "\n"))
	}

	parts := []string{head, "", strings.Join(steps, "\n")}
	if tl.Case != nil && revealed(tl.Case.RevealAt, stage, maxStage) {
		parts = append(parts, "", t.renderCaseMock(tl.Case, width))
	}
	if tl.Chat != nil && revealed(tl.Chat.RevealAt, stage, maxStage) {
		parts = append(parts, "", t.renderChatMock(tl.Chat, width))
	}
	if tl.Impact != nil && stage >= maxStage {
		parts = append(parts, "", t.renderImpact(tl.Impact, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (t Theme) renderCaseMock(c *fixture.CaseMock, width int) string {
	field := func(label, value string) string {
		return t.MutedText.Render(padRight(label, 10)) + value
	}
	inner := width - 4

	var b strings.Builder
	b.WriteString(t.RenderBadge(c.System, ColorBg, t.Action))
	b.WriteString("  ")
	b.WriteString(t.MutedText.Render(c.Number))
	b.WriteString("\n\n")
	b.WriteString(field("Priority", t.RenderPriorityBadge(c.Priority)))
	b.WriteString("\n")
	b.WriteString(field("Status", c.Status))
	b.WriteString("\n")
	b.WriteString(field("Type", c.Type))
	b.WriteString("\n")
	b.WriteString(field("Queue", c.Queue))
	b.WriteString("\n\n")
	b.WriteString(t.MutedText.Render("Description"))
	b.WriteString("\n")
	for _, l := range wrapText(c.Description, inner) {
		b.WriteString(l)
		b.WriteString("\n")
	}
	if len(c.Assets) > 0 {
		b.WriteString("\n")
		b.WriteString(t.MutedText.Render("Related Assets"))
		b.WriteString("\n")
		assets := make([]string, len(c.Assets))
		for i, a := range c.Assets {
			assets[i] = t.RenderBadge(a, ColorText, ColorBgSubtle)
		}
		b.WriteString(strings.Join(assets, " "))
	}

	return t.Panel.
		BorderForeground(t.Action).
		Width(width - 2).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (t Theme) renderChatMock(c *fixture.ChatMock, width int) string {
	var b strings.Builder
	b.WriteString("💬 ")
	b.WriteString(t.Title.Render(c.Channel))
	b.WriteString("  ")
	b.WriteString(t.MutedText.Render("[" + c.Platform + "]"))
	b.WriteString("\n\n")
	b.WriteString(t.Title.Render(c.Author))
	b.WriteString("  ")
	b.WriteString(t.MutedText.Render(c.Time))
	b.WriteString("\n")

	alert := []string{t.Title.Render(c.Headline)}
	for _, kv := range c.Fields {
		alert = append(alert, t.MutedText.Render(kv.Key+": ")+kv.Value)
	}
	b.WriteString(t.Renderer.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorDanger).
		PaddingLeft(1).
		Render(strings.Join(alert, "\n")))

	if len(c.Actions) > 0 {
		b.WriteString("\n")
		actions := make([]string, len(c.Actions))
		for i, a := range c.Actions {
			actions[i] = t.MutedText.Render("[ " + a + " ]")
		}
		b.WriteString(strings.Join(actions, " "))
	}

	return t.Panel.
		BorderForeground(t.Cloud).
		Width(width - 2).
		Render(b.String())
}

func (t Theme) renderImpact(im *fixture.Impact, width int) string {
	n := len(im.Stats)
	if n == 0 {
		n = 1
	}
	colWidth := (width - 4) / n
	amber := t.Renderer.NewStyle().Foreground(t.Amber).Bold(true)

	cols := make([]string, len(im.Stats))
	for i, s := range im.Stats {
		cols[i] = t.Renderer.NewStyle().Width(colWidth).Align(lipgloss.Center).Render(
			lipgloss.JoinVertical(lipgloss.Center, amber.Render(s.Value), t.MutedText.Render(s.Label)))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render(im.Title),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		"",
		t.MutedText.Render(im.Footnote),
	)
	return t.Panel.BorderForeground(t.Amber).Width(width - 2).Render(body)
}
