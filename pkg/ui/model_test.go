package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/edgerecord/pkg/config"
	"github.com/vanderheijden86/edgerecord/pkg/fixture"
	"github.com/vanderheijden86/edgerecord/pkg/session"
	"github.com/vanderheijden86/edgerecord/pkg/sim"
	"github.com/vanderheijden86/edgerecord/pkg/testutil"
)

// fastConfig shrinks every interval so executing a tick command returns
// almost immediately.
func fastConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Timing = config.TimingConfig{PulseMs: 1, TimelineMs: 1, MetricsMs: 1, CopyFeedbackMs: 1}
	return cfg
}

func newTestModel(t *testing.T, cfg config.Config) (Model, *[]string) {
	t.Helper()
	m := NewModel(fixture.Default(), cfg)
	var copied []string
	m.copyFn = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	m.sourceFunc = func() sim.RandSource { return testutil.CountingSource() }
	m.mount()
	return m, &copied
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runCmd executes cmd and flattens batches into the resulting messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestNewModel_Defaults(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())

	if m.ActiveScenario() != fixture.ScenarioSmartCity {
		t.Errorf("scenario = %s, want smart-city", m.ActiveScenario())
	}
	if _, ok := m.ActiveComponent(); ok {
		t.Error("no component should be focused at start")
	}
	if m.ActiveTab() != session.TabOutcome {
		t.Errorf("tab = %v, want outcome", m.ActiveTab())
	}
	if !m.Animating() {
		t.Error("pulse should run from the start")
	}
	if got := len(m.FeedWindow()); got != sim.DefaultWindowSize {
		t.Errorf("feed window = %d samples, want %d", got, sim.DefaultWindowSize)
	}
	if m.TimelineStage() != -1 {
		t.Error("smart city mounts no timeline")
	}
}

func TestNewModel_ConfigSelectsStartState(t *testing.T) {
	cfg := fastConfig()
	cfg.UI.DefaultScenario = "utility"
	cfg.UI.DefaultTab = config.TabSetup
	cfg.UI.DarkMode = true

	m, _ := newTestModel(t, cfg)
	if m.ActiveScenario() != fixture.ScenarioUtility {
		t.Errorf("scenario = %s", m.ActiveScenario())
	}
	if m.ActiveTab() != session.TabSetup {
		t.Errorf("tab = %v", m.ActiveTab())
	}
	if !m.DarkMode() || !m.theme.Dark {
		t.Error("dark mode from config not applied")
	}
	if m.FeedWindow() != nil || m.TimelineStage() != -1 {
		t.Error("setup tab mounts no outcome components")
	}
}

func TestFocusComponent_SmartCityCamera(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	id, ok := m.ActiveComponent()
	if !ok || id != "camera" {
		t.Fatalf("focused = %q, %v; want camera", id, ok)
	}
	page := m.renderPage()
	if !strings.Contains(page, "IP Camera") {
		t.Error("detail panel should show the camera detail")
	}
	if strings.Contains(page, "Select a Component") {
		t.Error("placeholder should be replaced by the detail")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.ActiveComponent(); ok {
		t.Error("esc should clear focus")
	}
	if !strings.Contains(m.renderPage(), "Select a Component") {
		t.Error("placeholder should return after clearing focus")
	}
}

func TestFocusComponent_UtilityHerokuConnect(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())

	m, _ = press(t, m,
		runes("2"),
		runes("l"), runes("j"), runes("j"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	id, _ := m.ActiveComponent()
	if id != "heroku-connect" {
		t.Fatalf("focused = %q, want heroku-connect", id)
	}
	if !strings.Contains(m.renderPage(), "Salesforce Cases") {
		t.Error("detail should show the Salesforce Cases output")
	}
}

func TestCursor_ClampsToLayer(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())

	m, _ = press(t, m, runes("h"), runes("k"), runes("k"))
	if m.cursor != (cursorPos{Layer: fixture.LayerEdge, Row: 0}) {
		t.Errorf("cursor escaped the grid: %+v", m.cursor)
	}

	m, _ = press(t, m, runes("l"), runes("l"), runes("l"), runes("j"), runes("j"), runes("j"))
	if m.cursor.Layer != fixture.LayerAction {
		t.Errorf("layer = %v, want action", m.cursor.Layer)
	}
	if n := len(m.store.ComponentsFor(m.ActiveScenario()).Action); m.cursor.Row != n-1 {
		t.Errorf("row = %d, want last (%d)", m.cursor.Row, n-1)
	}
}

func TestSelectScenario_KeepsFocusByDefault(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("2"))
	id, ok := m.ActiveComponent()
	if !ok || id != "camera" {
		t.Fatalf("focus should survive the switch, got %q, %v", id, ok)
	}

	page := m.renderPage()
	if strings.Contains(page, "IP Camera") {
		t.Error("a focus id from another scenario must not render a detail")
	}
	if strings.Contains(page, "Select a Component") {
		t.Error("an unresolved focus renders nothing, not the placeholder")
	}

	// Switching back resolves the kept focus again
	m, _ = press(t, m, runes("1"))
	if !strings.Contains(m.renderPage(), "IP Camera") {
		t.Error("camera detail should reappear under smart city")
	}
}

func TestSelectScenario_ClearFocusPolicy(t *testing.T) {
	cfg := fastConfig()
	cfg.UI.ClearFocusOnSwitch = true
	m, _ := newTestModel(t, cfg)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("1"))
	if _, ok := m.ActiveComponent(); !ok {
		t.Error("reselecting the active scenario must not clear focus")
	}

	m, _ = press(t, m, runes("2"))
	if _, ok := m.ActiveComponent(); ok {
		t.Error("focus should be cleared on scenario change")
	}
}

func TestSelectScenario_TearsDownFeed(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())

	// Capture a tick addressed to the first feed
	tick, ok := findMsg[sim.GeneratorTickMsg](runCmd(m.feed.Init()))
	if !ok {
		t.Fatal("feed should schedule a tick on mount")
	}

	m, _ = press(t, m, runes("2"))
	if m.FeedWindow() != nil {
		t.Fatal("utility mounts no feed")
	}
	if m.TimelineStage() != 0 {
		t.Fatalf("utility timeline should mount idle, stage %d", m.TimelineStage())
	}

	m, _ = press(t, m, runes("1"))
	before := m.FeedWindow()
	m, cmd := update(t, m, tick)
	if cmd != nil {
		t.Error("stale tick must not reschedule")
	}
	after := m.FeedWindow()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("stale tick from the unmounted feed mutated the new window")
		}
	}
}

func TestFeed_TickAppendsSample(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	before := m.FeedWindow()

	tick, ok := findMsg[sim.GeneratorTickMsg](runCmd(m.Init()))
	if !ok {
		t.Fatal("Init should schedule a feed tick")
	}
	m, cmd := update(t, m, tick)
	if cmd == nil {
		t.Error("feed should reschedule after a tick")
	}

	after := m.FeedWindow()
	if len(after) != sim.DefaultWindowSize {
		t.Fatalf("window = %d", len(after))
	}
	for i := 0; i < len(before)-1; i++ {
		if after[i] != before[i+1] {
			t.Fatal("window should shift left by one")
		}
	}
}

func TestToggleAnimation_DropsInFlightPulse(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())

	tick, ok := findMsg[sim.SequencerTickMsg](runCmd(m.pulse.Init()))
	if !ok {
		t.Fatal("pulse should schedule a tick")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.Animating() {
		t.Fatal("space should pause the pulse")
	}
	m, _ = update(t, m, tick)
	if m.PulseStage() != 0 {
		t.Errorf("paused pulse advanced to %d", m.PulseStage())
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.Animating() {
		t.Fatal("space should resume the pulse")
	}
	fresh, ok := findMsg[sim.SequencerTickMsg](runCmd(cmd))
	if !ok {
		t.Fatal("resume should schedule a tick")
	}
	m, _ = update(t, m, fresh)
	if m.PulseStage() != 1 {
		t.Errorf("stage = %d, want 1", m.PulseStage())
	}
}

func TestPulse_HighlightsMatchingFlowStep(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	tick, _ := findMsg[sim.SequencerTickMsg](runCmd(m.Init()))
	m, _ = update(t, m, tick)

	steps := m.store.FlowStepsFor(m.ActiveScenario())
	if !strings.Contains(m.renderPage(), steps[1].Label) {
		t.Errorf("flow indicator should name step 1 (%q)", steps[1].Label)
	}
}

func TestTimeline_RunRevealsMocks(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	m, _ = press(t, m, runes("2"))

	m, cmd := press(t, m, runes("r"))
	if cmd == nil {
		t.Fatal("r should start the timeline")
	}
	if _, again := press(t, m, runes("r")); again != nil {
		t.Error("r is ignored while the timeline runs")
	}

	seen := map[int]string{}
	for i := 0; i < 10 && cmd != nil; i++ {
		tick, ok := findMsg[sim.SequencerTickMsg](runCmd(cmd))
		if !ok {
			break
		}
		m, cmd = update(t, m, tick)
		seen[m.TimelineStage()] = m.renderPage()
	}

	if m.TimelineStage() != 5 {
		t.Fatalf("timeline ended at %d, want 5", m.TimelineStage())
	}
	if cmd != nil {
		t.Error("a completed timeline schedules nothing")
	}

	if strings.Contains(seen[3], "Related Assets") {
		t.Error("case mock should stay hidden before stage 4")
	}
	if !strings.Contains(seen[4], "Related Assets") {
		t.Error("case mock should show at stage 4")
	}
	if strings.Contains(seen[4], "Service Cloud Bot") || strings.Contains(seen[4], "Proactive Service Impact") {
		t.Error("chat and impact should wait for stage 5")
	}
	if !strings.Contains(seen[5], "Service Cloud Bot") || !strings.Contains(seen[5], "Proactive Service Impact") {
		t.Error("chat and impact should show at stage 5")
	}

	// Run again from the complete state
	m, cmd = press(t, m, runes("r"))
	if cmd == nil || m.TimelineStage() != 0 {
		t.Errorf("rerun should restart from 0, stage %d", m.TimelineStage())
	}
}

func TestTimeline_SwitchAwayDropsTicks(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	m, _ = press(t, m, runes("2"))
	m, cmd := press(t, m, runes("r"))
	tick, _ := findMsg[sim.SequencerTickMsg](runCmd(cmd))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd = update(t, m, tick)
	if cmd != nil {
		t.Error("tick of an unmounted timeline must not reschedule")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.TimelineStage() != 0 {
		t.Errorf("remounted timeline starts idle, stage %d", m.TimelineStage())
	}
}

func TestSetupTab_GuideNavigationAndCopy(t *testing.T) {
	m, copied := newTestModel(t, fastConfig())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.ActiveTab() != session.TabSetup {
		t.Fatal("tab should switch to setup")
	}
	if m.FeedWindow() != nil {
		t.Error("leaving the outcome tab should unmount the feed")
	}
	guides := m.store.SetupGuidesFor(fixture.ScenarioSmartCity)
	if g, _ := m.guide.ActiveGuide(); g.ID != guides[0].ID {
		t.Fatalf("active guide = %s", g.ID)
	}

	m, cmd := press(t, m, runes("y"))
	if len(*copied) != 1 || (*copied)[0] != guides[0].Steps[0].Code {
		t.Fatalf("copied %q", *copied)
	}
	if status, isErr := m.Status(); isErr || !strings.Contains(status, "Copied") {
		t.Errorf("status = %q, %v", status, isErr)
	}
	if m.guide.CopiedStep() != 0 || !strings.Contains(m.renderPage(), "✓ Copied") {
		t.Error("copy feedback should show on step 1")
	}
	first := runCmd(cmd)

	// A second copy restarts the window: the first tick must not clear it
	m, cmd = press(t, m, runes("y"))
	for _, msg := range first {
		m, _ = update(t, m, msg)
	}
	if m.guide.CopiedStep() != 0 {
		t.Error("stale feedback tick cleared the marker")
	}
	for _, msg := range runCmd(cmd) {
		m, _ = update(t, m, msg)
	}
	if m.guide.CopiedStep() != -1 {
		t.Error("current feedback tick should clear the marker")
	}

	m, _ = press(t, m, runes("]"))
	if g, _ := m.guide.ActiveGuide(); g.ID != guides[1%len(guides)].ID {
		t.Errorf("] should select the next guide, got %s", g.ID)
	}
	m, _ = press(t, m, runes("["))
	if g, _ := m.guide.ActiveGuide(); g.ID != guides[0].ID {
		t.Errorf("[ should select the previous guide, got %s", g.ID)
	}
}

func TestSetupTab_CopyError(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	m.copyFn = func(string) error { return errors.New("no clipboard utility") }

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("y"))
	if cmd != nil {
		t.Error("failed copy schedules no feedback tick")
	}
	status, isErr := m.Status()
	if !isErr || !strings.Contains(status, "no clipboard utility") {
		t.Errorf("status = %q, %v", status, isErr)
	}
	if m.guide.CopiedStep() != -1 {
		t.Error("failed copy shows no feedback")
	}
}

func TestOutcomeKeys_IgnoredOnSetup(t *testing.T) {
	m, copied := newTestModel(t, fastConfig())
	m, _ = press(t, m, runes("y"), runes("]"))
	if len(*copied) != 0 {
		t.Error("y does nothing on the outcome tab")
	}
	m, cmd := press(t, m, runes("r"))
	if cmd != nil {
		t.Error("r does nothing without a timeline")
	}
	_ = m
}

func TestDarkModeToggle(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	m, _ = press(t, m, runes("d"))
	if !m.DarkMode() || !m.theme.Dark || !m.guide.theme.Dark {
		t.Error("d should switch everything to dark")
	}
	m, _ = press(t, m, runes("d"))
	if m.DarkMode() || m.theme.Dark {
		t.Error("second d should switch back")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	m, _ = press(t, m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay missing")
	}
	// Keys other than ? and esc are swallowed while help is open
	m, _ = press(t, m, runes("2"))
	if m.ActiveScenario() != fixture.ScenarioSmartCity {
		t.Error("help overlay should swallow scenario keys")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("esc should close help")
	}
}

func TestQuit_StopsTimers(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	m, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if m.Animating() || m.feed.Running() {
		t.Error("quit should stop the pulse and the feed")
	}
}

func TestFixturesChanged_ReloadsOverride(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "fixtures.yaml", `
site:
  brand:
    left: {icon: "🛰", name: EdgeCo}
    right: {icon: "☁️", name: Heroku}
scenarios: []
`)
	m, _ := newTestModel(t, fastConfig())
	m = m.WithWatcher(nil, fixture.Default(), path)

	m, _ = update(t, m, FixturesChangedMsg{})
	if status, isErr := m.Status(); isErr || !strings.Contains(status, "fixtures.yaml") {
		t.Fatalf("status = %q, %v", status, isErr)
	}
	if !strings.Contains(m.View(), "EdgeCo") {
		t.Error("header should use the reloaded brand")
	}

	testutil.WriteFile(t, dir, "fixtures.yaml", "scenarios: [{scenario: harbour}]\n")
	m, _ = update(t, m, FixturesChangedMsg{})
	status, isErr := m.Status()
	if !isErr || !strings.Contains(status, "reload failed") {
		t.Errorf("status = %q, %v", status, isErr)
	}
	if !strings.Contains(m.View(), "EdgeCo") {
		t.Error("a failed reload keeps the previous tables")
	}
}

func TestWindowSize_ResizesViews(t *testing.T) {
	m, _ := newTestModel(t, fastConfig())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	if m.width != 160 || m.page.Height != 48 {
		t.Errorf("size = %dx%d (page %d)", m.width, m.height, m.page.Height)
	}
	if m.guide.width != m.contentWidth() {
		t.Errorf("guide width = %d, want %d", m.guide.width, m.contentWidth())
	}
}
