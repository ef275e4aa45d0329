// Package ui is the terminal rendition of the Real-World to Record demo:
// scenario cards, the animated architecture diagram, the component detail
// panel and the outcome and setup tabs.
package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/edgerecord/pkg/config"
	"github.com/vanderheijden86/edgerecord/pkg/debug"
	"github.com/vanderheijden86/edgerecord/pkg/fixture"
	"github.com/vanderheijden86/edgerecord/pkg/metrics"
	"github.com/vanderheijden86/edgerecord/pkg/session"
	"github.com/vanderheijden86/edgerecord/pkg/sim"
	"github.com/vanderheijden86/edgerecord/pkg/watcher"
)

const (
	defaultWidth  = 120
	defaultHeight = 40

	// Stock demo timings, used when the config leaves them unset.
	defaultPulseInterval    = 1500 * time.Millisecond
	defaultTimelineInterval = 2000 * time.Millisecond
	defaultMetricsInterval  = 2000 * time.Millisecond
	defaultCopyFeedback     = 2000 * time.Millisecond

	// pulseStages is the last index of the five-frame data-flow loop.
	pulseStages = fixture.FlowStepCount - 1

	guideHeight = 18

	// Side-by-side architecture and detail above this width.
	splitMinWidth = 130
)

// FixturesChangedMsg is sent when the fixture override file changes on disk.
type FixturesChangedMsg struct{}

// copyFeedbackMsg clears the "Copied" marker. Only the tick carrying the
// current tag does anything, so a second copy restarts the window.
type copyFeedbackMsg struct{ tag int }

// WatchFileCmd returns a command that waits for file changes and sends FixturesChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FixturesChangedMsg{}
	}
}

// Model is the root bubbletea model.
type Model struct {
	store *fixture.Store
	// Shared by every copy Update returns; the selection is one per session.
	sel   *session.Selection
	theme Theme
	keys  keyMap
	help  help.Model

	// Intervals
	pulseInterval    time.Duration
	timelineInterval time.Duration
	metricsInterval  time.Duration
	copyFeedback     time.Duration

	// Timed components. The pulse lives for the whole program; the feed and
	// the timeline exist only while their outcome view is mounted.
	pulse           sim.Sequencer
	timeline        sim.Sequencer
	feed            sim.Generator
	feedMounted     bool
	timelineMounted bool

	guide  GuideModel
	cursor cursorPos
	page   viewport.Model

	width    int
	height   int
	showHelp bool

	// Status bar
	statusMsg     string
	statusIsError bool
	copyTag       int

	// Live reload
	watcher      *watcher.Watcher
	baseStore    *fixture.Store
	overridePath string

	// Seams for tests
	copyFn     func(string) error
	sourceFunc func() sim.RandSource
}

// NewModel creates the root model over store, configured by cfg.
func NewModel(store *fixture.Store, cfg config.Config) Model {
	policy := session.FocusKeep
	if cfg.UI.ClearFocusOnSwitch {
		policy = session.FocusClearOnSwitch
	}
	sel := session.New(
		session.WithScenario(cfg.Scenario()),
		session.WithFocusPolicy(policy),
		session.WithDarkMode(cfg.UI.DarkMode),
		session.WithTab(session.ParseTab(cfg.UI.DefaultTab)),
	)

	theme := ThemeFor(sel.DarkMode())
	m := Model{
		store: store,
		sel:   sel,
		theme: theme,
		keys:  defaultKeyMap(),
		help:  help.New(),

		pulseInterval:    config.Interval(cfg.Timing.PulseMs, defaultPulseInterval),
		timelineInterval: config.Interval(cfg.Timing.TimelineMs, defaultTimelineInterval),
		metricsInterval:  config.Interval(cfg.Timing.MetricsMs, defaultMetricsInterval),
		copyFeedback:     config.Interval(cfg.Timing.CopyFeedbackMs, defaultCopyFeedback),

		width:  defaultWidth,
		height: defaultHeight,
		page:   viewport.New(defaultWidth, defaultHeight-2),

		copyFn: clipboard.WriteAll,
		sourceFunc: func() sim.RandSource {
			return sim.DefaultRandSource()
		},
	}
	m.pulse = sim.NewSequencer(pulseStages, m.pulseInterval, sim.ModeLoop)
	m.guide = NewGuideModel(nil, theme, m.contentWidth(), guideHeight)
	m.mount()
	m.syncPage()
	return m
}

// WithWatcher enables live reload of the override file at path, layered
// over base.
func (m Model) WithWatcher(w *watcher.Watcher, base *fixture.Store, path string) Model {
	m.watcher = w
	m.baseStore = base
	m.overridePath = path
	return m
}

// WithStatus sets the initial status line.
func (m Model) WithStatus(msg string, isError bool) Model {
	m.statusMsg = msg
	m.statusIsError = isError
	m.syncPage()
	return m
}

// Init starts the pulse, the mounted outcome view and the file watch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.pulse.Init()}
	if m.feedMounted {
		cmds = append(cmds, m.feed.Init())
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Stop releases the file watcher.
func (m Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.page.Width = msg.Width
		m.page.Height = m.bodyHeight()
		m.guide.SetSize(m.contentWidth(), guideHeight)

	case sim.SequencerTickMsg:
		m.pulse, cmd = m.pulse.Update(msg)
		cmds = append(cmds, cmd)
		m.timeline, cmd = m.timeline.Update(msg)
		cmds = append(cmds, cmd)

	case sim.GeneratorTickMsg:
		m.feed, cmd = m.feed.Update(msg)
		cmds = append(cmds, cmd)

	case copyFeedbackMsg:
		if msg.tag == m.copyTag {
			m.guide.ClearCopied()
		}

	case FixturesChangedMsg:
		cmds = append(cmds, m.reloadFixtures())
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}

	case tea.MouseMsg:
		m.page, cmd = m.page.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.teardown()
			return m, tea.Quit
		}
		cmds = append(cmds, m.handleKey(msg))
	}

	m.syncPage()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc {
			m.showHelp = false
		}
		return nil
	}

	// Any key dismisses the previous status line
	m.statusMsg = ""
	m.statusIsError = false

	layers := m.store.ComponentsFor(m.sel.ActiveScenario())
	onSetup := m.sel.ActiveTab() == session.TabSetup

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.SmartCity):
		return m.selectScenario(fixture.ScenarioSmartCity)
	case key.Matches(msg, m.keys.Utility):
		return m.selectScenario(fixture.ScenarioUtility)
	case key.Matches(msg, m.keys.Up):
		m.cursor = moveCursor(m.cursor, layers, 0, -1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = moveCursor(m.cursor, layers, 0, 1)
	case key.Matches(msg, m.keys.Left):
		m.cursor = moveCursor(m.cursor, layers, -1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursor = moveCursor(m.cursor, layers, 1, 0)
	case key.Matches(msg, m.keys.Focus):
		if c, ok := componentAt(m.cursor, layers); ok {
			m.sel.FocusComponent(c.ID)
		}
	case key.Matches(msg, m.keys.Clear):
		m.sel.ClearFocus()
	case key.Matches(msg, m.keys.Animate):
		return m.pulse.Toggle()
	case key.Matches(msg, m.keys.Tab):
		m.sel.SetTab(m.sel.ActiveTab().Next())
		return m.mount()
	case key.Matches(msg, m.keys.Run):
		return m.startSimulation()
	case key.Matches(msg, m.keys.Dark):
		m.applyTheme(m.sel.ToggleDarkMode())
	case onSetup && key.Matches(msg, m.keys.PrevGuide):
		m.guide.PrevGuide()
	case onSetup && key.Matches(msg, m.keys.NextGuide):
		m.guide.NextGuide()
	case onSetup && key.Matches(msg, m.keys.PrevStep):
		m.guide.PrevStep()
	case onSetup && key.Matches(msg, m.keys.NextStep):
		m.guide.NextStep()
	case onSetup && key.Matches(msg, m.keys.Copy):
		return m.copySnippet()
	case key.Matches(msg, m.keys.ScrollUp):
		m.page.HalfPageUp()
	case key.Matches(msg, m.keys.ScrollDown):
		m.page.HalfPageDown()
	}
	return nil
}

// selectScenario switches the active scenario and remounts the bottom
// panel. Reselecting the active scenario changes nothing.
func (m *Model) selectScenario(sc fixture.Scenario) tea.Cmd {
	if sc == m.sel.ActiveScenario() {
		return nil
	}
	m.sel.Select(sc)
	layers := m.store.ComponentsFor(sc)
	m.cursor = clampCursor(m.cursor, layers)
	if id, ok := m.sel.ActiveComponent(); ok {
		if pos, found := cursorFor(id, layers); found {
			m.cursor = pos
		}
	}
	debug.Log("ui: scenario %s", sc)
	return m.mount()
}

// startSimulation restarts the outcome timeline. It does nothing while the
// timeline is running or when the active view has none.
func (m *Model) startSimulation() tea.Cmd {
	if !m.timelineMounted || m.timeline.Running() {
		return nil
	}
	return m.timeline.Restart()
}

// mount tears down the outcome components of the previous view and creates
// fresh ones for the active scenario and tab. The metric feed is reseeded
// on every mount.
func (m *Model) mount() tea.Cmd {
	m.unmount()

	sc := m.sel.ActiveScenario()
	switch m.sel.ActiveTab() {
	case session.TabOutcome:
		if m.store.DashboardFor(sc) != nil {
			m.feed = sim.NewGenerator(sim.DefaultWindowSize, m.metricsInterval, m.sourceFunc())
			m.feedMounted = true
			return m.feed.Init()
		}
		if tl := m.store.TimelineFor(sc); tl != nil {
			m.timeline = sim.NewSequencer(len(tl.Steps), m.timelineInterval, sim.ModeOneShot)
			m.timelineMounted = true
		}
	case session.TabSetup:
		m.guide.SetGuides(m.store.SetupGuidesFor(sc))
	}
	return nil
}

// unmount stops the outcome components so their in-flight ticks are dropped.
func (m *Model) unmount() {
	m.feed.Stop()
	m.timeline.Stop()
	m.feedMounted = false
	m.timelineMounted = false
}

// teardown stops every timed component before quitting.
func (m *Model) teardown() {
	m.unmount()
	m.pulse.Stop()
}

func (m *Model) copySnippet() tea.Cmd {
	code, ok := m.guide.SelectedCode()
	if !ok {
		return nil
	}
	if err := m.copyFn(code); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		m.statusIsError = true
		return nil
	}

	m.copyTag++
	m.guide.MarkCopied(m.guide.ActiveStep())
	m.statusMsg = fmt.Sprintf("📋 Copied step %d to clipboard", m.guide.ActiveStep()+1)

	tag := m.copyTag
	return tea.Tick(m.copyFeedback, func(time.Time) tea.Msg {
		return copyFeedbackMsg{tag: tag}
	})
}

func (m *Model) applyTheme(dark bool) {
	m.theme = ThemeFor(dark)
	m.guide.SetTheme(m.theme)
}

// reloadFixtures re-reads the override file. On failure the current tables
// stay in place and the error goes to the status line.
func (m *Model) reloadFixtures() tea.Cmd {
	if m.overridePath == "" {
		return nil
	}
	stop := metrics.Timer(metrics.FixtureReload)
	defer stop()

	next, err := fixture.LoadOverride(m.baseStore, m.overridePath)
	if err != nil {
		debug.Log("ui: fixture reload failed: %v", err)
		m.statusMsg = fmt.Sprintf("Fixture reload failed: %v", err)
		m.statusIsError = true
		return nil
	}
	m.store = next
	m.cursor = clampCursor(m.cursor, m.store.ComponentsFor(m.sel.ActiveScenario()))
	m.statusMsg = fmt.Sprintf("Reloaded fixtures from %s", filepath.Base(m.overridePath))
	m.statusIsError = false
	return m.mount()
}

func (m Model) bodyHeight() int {
	h := m.height - 2 // header + footer
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) contentWidth() int {
	w := m.width - 2
	if w < 60 {
		w = 60
	}
	return w
}

// syncPage renders the scrollable page into the viewport.
func (m *Model) syncPage() {
	stop := metrics.Timer(metrics.UIRender)
	defer stop()
	m.page.SetContent(m.renderPage())
}

func (m Model) renderPage() string {
	t := m.theme
	w := m.contentWidth()
	sc := m.sel.ActiveScenario()
	site := m.store.Site()

	sections := []string{
		t.renderHero(site, w),
		t.renderScenarioCards(m.store, sc, w),
		t.RenderDivider(w),
		t.renderScenarioHeading(m.store.Info(sc), w),
		m.renderArchitectureAndDetail(w),
		m.renderTabs(w),
		t.RenderDivider(w),
		t.renderSummary(site, w),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderArchitectureAndDetail(w int) string {
	t := m.theme
	sc := m.sel.ActiveScenario()
	focus, _ := m.sel.ActiveComponent()

	var detail string
	if d, ok := resolveDetail(m.store, m.sel); ok {
		detail = t.renderDetail(d, w/3)
	} else if focus == "" {
		detail = t.renderDetailPlaceholder(w / 3)
	}

	archWidth := w
	if w >= splitMinWidth {
		archWidth = w - w/3 - 1
	}
	arch := t.renderArchitecture(archProps{
		Layers:    m.store.ComponentsFor(sc),
		Steps:     m.store.FlowStepsFor(sc),
		Stage:     m.pulse.Stage(),
		Animating: m.pulse.Running(),
		Focus:     focus,
		Cursor:    m.cursor,
		Width:     archWidth,
	})

	if detail == "" {
		return arch
	}
	if w >= splitMinWidth {
		return lipgloss.JoinHorizontal(lipgloss.Top, arch, " ", detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, arch, "", detail)
}

func (m Model) renderTabs(w int) string {
	t := m.theme
	active := m.sel.ActiveTab()

	var labels []string
	for _, tab := range []session.Tab{session.TabOutcome, session.TabSetup} {
		if tab == active {
			labels = append(labels, t.TabActive.Render(tab.String()))
		} else {
			labels = append(labels, t.TabIdle.Render(tab.String()))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, labels...) + "  " + t.MutedText.Render("[tab] switch")

	var body string
	sc := m.sel.ActiveScenario()
	switch active {
	case session.TabOutcome:
		switch {
		case m.feedMounted:
			body = t.renderDashboard(m.store.DashboardFor(sc), m.feed.CurrentWindow(), m.feed.Running(), w)
		case m.timelineMounted:
			body = t.renderTimeline(m.store.TimelineFor(sc), m.timeline, w)
		}
	case session.TabSetup:
		body = m.guide.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar, "", body)
}

func (m Model) View() string {
	header := m.theme.renderHeader(m.store.Site(), m.width)

	var body string
	if m.showHelp {
		body = m.renderHelpOverlay()
	} else {
		body = m.page.View()
	}

	finalStyle := m.theme.Renderer.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)
	return finalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter()))
}

func (m Model) renderHelpOverlay() string {
	h := m.help
	h.ShowAll = true
	panel := m.theme.Panel.
		BorderForeground(m.theme.Primary).
		Render(m.theme.Title.Render("Keyboard Shortcuts") + "\n\n" + h.View(m.keys))
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, panel)
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		var msgStyle lipgloss.Style
		if m.statusIsError {
			msgStyle = m.theme.Renderer.NewStyle().
				Background(ColorDangerBg).
				Foreground(ColorDanger).
				Bold(true).
				Padding(0, 2)
		} else {
			msgStyle = m.theme.Renderer.NewStyle().
				Background(ColorSuccessBg).
				Foreground(ColorSuccess).
				Bold(true).
				Padding(0, 2)
		}
		prefix := "✓ "
		if m.statusIsError {
			prefix = "✗ "
		}
		return truncateANSI(msgStyle.Render(prefix+m.statusMsg), m.width)
	}

	h := m.help
	h.ShowAll = false
	return truncateANSI(h.View(m.keys), m.width)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCESSORS - read-only state for tests and the CLI
// ══════════════════════════════════════════════════════════════════════════════

// ActiveScenario returns the selected scenario.
func (m Model) ActiveScenario() fixture.Scenario { return m.sel.ActiveScenario() }

// ActiveComponent returns the focused component id.
func (m Model) ActiveComponent() (string, bool) { return m.sel.ActiveComponent() }

// ActiveTab returns the bottom tab.
func (m Model) ActiveTab() session.Tab { return m.sel.ActiveTab() }

// DarkMode reports whether the dark theme is active.
func (m Model) DarkMode() bool { return m.sel.DarkMode() }

// PulseStage returns the architecture pulse position.
func (m Model) PulseStage() int { return m.pulse.Stage() }

// Animating reports whether the pulse is running.
func (m Model) Animating() bool { return m.pulse.Running() }

// TimelineStage returns the outcome timeline stage, or -1 if none is mounted.
func (m Model) TimelineStage() int {
	if !m.timelineMounted {
		return -1
	}
	return m.timeline.Stage()
}

// FeedWindow returns the dashboard samples, or nil if none is mounted.
func (m Model) FeedWindow() []int {
	if !m.feedMounted {
		return nil
	}
	return m.feed.CurrentWindow()
}

// Status returns the footer message and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// Snapshot returns the session state for the robot output.
func (m Model) Snapshot() session.Snapshot { return m.sel.Snapshot() }
