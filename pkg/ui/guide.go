package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

// GuideModel is the setup-guide tab: a row of guide tabs over a scrolling
// list of numbered steps with rendered code blocks.
type GuideModel struct {
	guides []fixture.Guide
	active int // Selected guide
	step   int // Selected step within the guide
	copied int // Step showing copy feedback, -1 for none

	viewport    viewport.Model
	md          *MarkdownRenderer
	theme       Theme
	width       int
	height      int
	stepOffsets []int // First content line of each step
}

// NewGuideModel creates a guide view sized width x height.
func NewGuideModel(guides []fixture.Guide, theme Theme, width, height int) GuideModel {
	g := GuideModel{
		guides:   guides,
		copied:   -1,
		viewport: viewport.New(width, height),
		md:       NewMarkdownRenderer(width-6, theme.Dark),
		theme:    theme,
		width:    width,
		height:   height,
	}
	g.refresh()
	return g
}

// SetGuides swaps the guide set (scenario switch or fixture reload) and
// resets the selection.
func (g *GuideModel) SetGuides(guides []fixture.Guide) {
	g.guides = guides
	g.active, g.step, g.copied = 0, 0, -1
	g.refresh()
	g.viewport.GotoTop()
}

// SetTheme applies a new theme and glamour style.
func (g *GuideModel) SetTheme(theme Theme) {
	g.theme = theme
	g.md.SetDark(theme.Dark)
	g.refresh()
}

// SetSize resizes the viewport and rewraps the content.
func (g *GuideModel) SetSize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width, g.height = width, height
	g.viewport.Width = width
	g.viewport.Height = height
	g.md.SetWidth(width - 6)
	g.refresh()
}

// ActiveGuide returns the selected guide.
func (g GuideModel) ActiveGuide() (fixture.Guide, bool) {
	if g.active < 0 || g.active >= len(g.guides) {
		return fixture.Guide{}, false
	}
	return g.guides[g.active], true
}

// ActiveStep returns the selected step index.
func (g GuideModel) ActiveStep() int { return g.step }

// CopiedStep returns the step showing copy feedback, or -1.
func (g GuideModel) CopiedStep() int { return g.copied }

// NextGuide selects the following guide, wrapping around.
func (g *GuideModel) NextGuide() { g.selectGuide(g.active + 1) }

// PrevGuide selects the preceding guide, wrapping around.
func (g *GuideModel) PrevGuide() { g.selectGuide(g.active - 1) }

func (g *GuideModel) selectGuide(i int) {
	n := len(g.guides)
	if n == 0 {
		return
	}
	g.active = (i%n + n) % n
	g.step, g.copied = 0, -1
	g.refresh()
	g.viewport.GotoTop()
}

// NextStep moves the step selection down and scrolls it into view.
func (g *GuideModel) NextStep() { g.selectStep(g.step + 1) }

// PrevStep moves the step selection up and scrolls it into view.
func (g *GuideModel) PrevStep() { g.selectStep(g.step - 1) }

func (g *GuideModel) selectStep(i int) {
	guide, ok := g.ActiveGuide()
	if !ok || len(guide.Steps) == 0 {
		return
	}
	g.step = clamp(i, 0, len(guide.Steps)-1)
	g.refresh()
	if g.step < len(g.stepOffsets) {
		g.viewport.SetYOffset(g.stepOffsets[g.step])
	}
}

// SelectedCode returns the code of the selected step, if it has any.
func (g GuideModel) SelectedCode() (string, bool) {
	guide, ok := g.ActiveGuide()
	if !ok || g.step >= len(guide.Steps) {
		return "", false
	}
	code := guide.Steps[g.step].Code
	return code, code != ""
}

// MarkCopied shows copy feedback on step.
func (g *GuideModel) MarkCopied(step int) {
	g.copied = step
	g.refresh()
}

// ClearCopied removes copy feedback.
func (g *GuideModel) ClearCopied() {
	if g.copied == -1 {
		return
	}
	g.copied = -1
	g.refresh()
}

// Update forwards scrolling to the viewport.
func (g GuideModel) Update(msg tea.Msg) (GuideModel, tea.Cmd) {
	var cmd tea.Cmd
	g.viewport, cmd = g.viewport.Update(msg)
	return g, cmd
}

// refresh re-renders the step list into the viewport.
func (g *GuideModel) refresh() {
	guide, ok := g.ActiveGuide()
	if !ok {
		g.stepOffsets = nil
		g.viewport.SetContent(g.theme.MutedText.Render("No setup guides for this scenario."))
		return
	}

	t := g.theme
	var lines []string
	offsets := make([]int, len(guide.Steps))
	for i, s := range guide.Steps {
		offsets[i] = len(lines)

		marker := "  "
		if i == g.step {
			marker = t.PrimaryBold.Render("› ")
		}
		num := t.RenderBadge(fmt.Sprintf("%d", i+1), ColorBg, t.Primary)
		lines = append(lines, marker+num+" "+t.Title.Render(s.Title))
		for _, l := range wrapText(s.Description, g.width-6) {
			lines = append(lines, "    "+t.MutedText.Render(l))
		}

		if s.Code != "" {
			action := t.MutedText.Render("[y] Copy")
			if i == g.copied {
				action = t.SuccessText.Render("✓ Copied")
			}
			lines = append(lines, "    "+t.SecondaryText.Render(s.DisplayLanguage())+"  "+action)
			for _, l := range strings.Split(g.md.Render(fencedCode(s.Code, s.DisplayLanguage())), "\n") {
				lines = append(lines, "  "+l)
			}
		}
		lines = append(lines, "")
	}
	g.stepOffsets = offsets
	g.viewport.SetContent(strings.Join(lines, "\n"))
}

// View renders the guide tabs, the guide header and the step viewport.
func (g GuideModel) View() string {
	t := g.theme
	if len(g.guides) == 0 {
		return g.viewport.View()
	}

	tabs := make([]string, len(g.guides))
	for i, gd := range g.guides {
		label := gd.Icon + " " + gd.Name
		if i == g.active {
			tabs[i] = t.TabActive.Render(label)
		} else {
			tabs[i] = t.TabIdle.Render(label)
		}
	}

	guide := g.guides[g.active]
	header := t.Panel.Width(g.width - 2).Render(
		t.Title.Render(guide.Icon+" "+guide.Name) + "\n" +
			t.MutedText.Render(truncate(guide.Description, g.width-6)))

	return lipgloss.JoinVertical(lipgloss.Left,
		t.MutedText.Render("[ ")+strings.Join(tabs, " ")+t.MutedText.Render(" ]"),
		header,
		g.viewport.View(),
	)
}
