// Package session holds the visitor's selection state: the active scenario,
// the focused architecture component, the dark-mode flag and the active
// bottom tab. It is owned by the root view and mutated only through the
// named intents below. Writes are not validated against the fixtures; a
// stale component id simply fails to resolve at render time.
package session

import (
	"github.com/vanderheijden86/edgerecord/pkg/debug"
	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

// FocusPolicy decides what happens to the focused component on a scenario
// switch.
type FocusPolicy int

const (
	// FocusKeep leaves the focused id in place across scenario switches.
	FocusKeep FocusPolicy = iota
	// FocusClearOnSwitch drops the focus whenever the scenario changes.
	FocusClearOnSwitch
)

// Tab is a bottom section of the demo.
type Tab int

const (
	TabOutcome Tab = iota
	TabSetup
)

// String returns the tab label.
func (t Tab) String() string {
	if t == TabSetup {
		return "Setup Guide"
	}
	return "See It In Action"
}

// Next returns the other tab.
func (t Tab) Next() Tab {
	if t == TabSetup {
		return TabOutcome
	}
	return TabSetup
}

// ParseTab maps a config value ("outcome", "setup") onto a Tab.
func ParseTab(s string) Tab {
	if s == "setup" {
		return TabSetup
	}
	return TabOutcome
}

// Selection is the state container.
type Selection struct {
	scenario  fixture.Scenario
	component string
	focused   bool
	policy    FocusPolicy
	dark      bool
	tab       Tab
}

// Option configures a new Selection.
type Option func(*Selection)

// WithScenario sets the starting scenario.
func WithScenario(sc fixture.Scenario) Option {
	return func(s *Selection) { s.scenario = sc }
}

// WithFocusPolicy sets the scenario-switch focus policy.
func WithFocusPolicy(p FocusPolicy) Option {
	return func(s *Selection) { s.policy = p }
}

// WithDarkMode sets the starting theme.
func WithDarkMode(dark bool) Option {
	return func(s *Selection) { s.dark = dark }
}

// WithTab sets the starting bottom tab.
func WithTab(t Tab) Option {
	return func(s *Selection) { s.tab = t }
}

// New returns a Selection on the default scenario with nothing focused.
func New(opts ...Option) *Selection {
	s := &Selection{scenario: fixture.DefaultScenario}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select replaces the active scenario.
func (s *Selection) Select(sc fixture.Scenario) {
	if sc != s.scenario && s.policy == FocusClearOnSwitch {
		s.ClearFocus()
	}
	debug.LogIf(sc != s.scenario, "session: scenario %s -> %s", s.scenario, sc)
	s.scenario = sc
}

// FocusComponent marks id as the focused component.
func (s *Selection) FocusComponent(id string) {
	s.component = id
	s.focused = true
}

// ClearFocus removes any component focus.
func (s *Selection) ClearFocus() {
	s.component = ""
	s.focused = false
}

// ActiveScenario returns the active scenario.
func (s *Selection) ActiveScenario() fixture.Scenario {
	return s.scenario
}

// ActiveComponent returns the focused id, if any.
func (s *Selection) ActiveComponent() (string, bool) {
	return s.component, s.focused
}

// FocusPolicy returns the configured switch policy.
func (s *Selection) FocusPolicy() FocusPolicy {
	return s.policy
}

// DarkMode reports whether the dark theme is active.
func (s *Selection) DarkMode() bool {
	return s.dark
}

// ToggleDarkMode flips the theme and returns the new value.
func (s *Selection) ToggleDarkMode() bool {
	s.dark = !s.dark
	return s.dark
}

// ActiveTab returns the bottom tab on display.
func (s *Selection) ActiveTab() Tab {
	return s.tab
}

// SetTab switches the bottom tab.
func (s *Selection) SetTab(t Tab) {
	s.tab = t
}

// Snapshot is a plain copy of the selection for robot output and tests.
type Snapshot struct {
	Scenario  fixture.Scenario `json:"scenario"`
	Component string           `json:"component,omitempty"`
	DarkMode  bool             `json:"dark_mode"`
	Tab       string           `json:"tab"`
}

// Snapshot returns the current state.
func (s *Selection) Snapshot() Snapshot {
	tab := "outcome"
	if s.tab == TabSetup {
		tab = "setup"
	}
	return Snapshot{Scenario: s.scenario, Component: s.component, DarkMode: s.dark, Tab: tab}
}
