package fixture

// FlowStepCount is the number of frames in every data-flow animation.
const FlowStepCount = 5

// scenarioTable is the on-disk shape of one scenario file.
type scenarioTable struct {
	Scenario   Scenario                   `yaml:"scenario"`
	Info       ScenarioInfo               `yaml:"info"`
	Components Layers                     `yaml:"components"`
	Details    map[string]ComponentDetail `yaml:"details"`
	Flow       []FlowStep                 `yaml:"flow"`
	Guides     []Guide                    `yaml:"guides"`
	Outcome    Outcome                    `yaml:"outcome"`
}

// Store is an immutable, fully validated set of fixture tables.
// All lookups are total: unknown keys yield empty values, never errors.
type Store struct {
	site      Site
	scenarios map[Scenario]*scenarioTable
	details   map[string]ComponentDetail // Keyed by component id across all scenarios
	source    string
}

// Source describes where the tables were loaded from ("embedded" or a path).
func (s *Store) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

func (s *Store) table(sc Scenario) *scenarioTable {
	if s == nil {
		return nil
	}
	return s.scenarios[sc]
}

// ComponentsFor returns the architecture components of a scenario grouped by
// layer. Unknown scenarios yield empty layers.
func (s *Store) ComponentsFor(sc Scenario) Layers {
	t := s.table(sc)
	if t == nil {
		return Layers{}
	}
	return t.Components.clone()
}

// ComponentIn resolves id within a single scenario's component set.
func (s *Store) ComponentIn(sc Scenario, id string) (Component, bool) {
	t := s.table(sc)
	if t == nil || id == "" {
		return Component{}, false
	}
	for _, c := range t.Components.All() {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// DetailFor looks up the detail record for a component id.
func (s *Store) DetailFor(id string) (ComponentDetail, bool) {
	if s == nil {
		return ComponentDetail{}, false
	}
	d, ok := s.details[id]
	if !ok {
		return ComponentDetail{}, false
	}
	d.Capabilities = append([]string(nil), d.Capabilities...)
	d.Benefits = append([]string(nil), d.Benefits...)
	return d, true
}

// FlowStepsFor returns the ordered data-flow labels of a scenario.
func (s *Store) FlowStepsFor(sc Scenario) []FlowStep {
	t := s.table(sc)
	if t == nil {
		return nil
	}
	return append([]FlowStep(nil), t.Flow...)
}

// SetupGuidesFor returns the ordered setup guides of a scenario.
func (s *Store) SetupGuidesFor(sc Scenario) []Guide {
	t := s.table(sc)
	if t == nil {
		return nil
	}
	out := make([]Guide, len(t.Guides))
	for i, g := range t.Guides {
		g.Steps = append([]GuideStep(nil), g.Steps...)
		out[i] = g
	}
	return out
}

// Info returns the narrative copy of a scenario.
func (s *Store) Info(sc Scenario) ScenarioInfo {
	t := s.table(sc)
	if t == nil {
		return ScenarioInfo{}
	}
	info := t.Info
	info.Benefits = append([]string(nil), info.Benefits...)
	return info
}

// OutcomeFor returns the "see it in action" content of a scenario.
// The pointed-to records are shared and must be treated as read-only.
func (s *Store) OutcomeFor(sc Scenario) Outcome {
	t := s.table(sc)
	if t == nil {
		return Outcome{}
	}
	return t.Outcome
}

// Site returns the scenario-independent copy.
func (s *Store) Site() Site {
	if s == nil {
		return Site{}
	}
	return s.site
}

// TimelineFor returns the scripted outcome timeline, or nil when the
// scenario's outcome is a dashboard.
func (s *Store) TimelineFor(sc Scenario) *Timeline {
	return s.OutcomeFor(sc).Timeline
}

// DashboardFor returns the live-dashboard copy, or nil when the scenario's
// outcome is a timeline.
func (s *Store) DashboardFor(sc Scenario) *Dashboard {
	return s.OutcomeFor(sc).Dashboard
}
