package fixture

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/edgerecord/pkg/debug"
	"github.com/vanderheijden86/edgerecord/pkg/metrics"
)

//go:embed data/*.yaml
var embedded embed.FS

// siteFile is the scenario-independent table inside the data directory.
const siteFile = "demo.yaml"

// ErrInvalidFixtures wraps every validation failure.
var ErrInvalidFixtures = errors.New("invalid fixtures")

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the embedded tables, decoded once per process.
// The embedded data is validated by tests; a failure here is a build defect.
func Default() *Store {
	defaultOnce.Do(func() {
		s, err := Load(embedded, "data")
		if err != nil {
			panic(fmt.Sprintf("fixture: embedded tables: %v", err))
		}
		s.source = "embedded"
		defaultStore = s
	})
	return defaultStore
}

// Load decodes every *.yaml file in dir of fsys into a validated Store.
func Load(fsys fs.FS, dir string) (*Store, error) {
	defer metrics.Timer(metrics.FixtureLoad)()

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading fixture dir: %w", err)
	}

	s := &Store{scenarios: make(map[Scenario]*scenarioTable)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}

		if e.Name() == siteFile {
			if err := yaml.Unmarshal(data, &s.site); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
			}
			continue
		}

		var t scenarioTable
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		if _, dup := s.scenarios[t.Scenario]; dup {
			return nil, fmt.Errorf("%w: scenario %q defined twice", ErrInvalidFixtures, t.Scenario)
		}
		s.scenarios[t.Scenario] = &t
	}

	if err := s.index(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.source = dir
	debug.Log("fixture: loaded %d scenarios from %s", len(s.scenarios), dir)
	return s, nil
}

// overrideFile is the shape of a user-supplied override. Each listed
// scenario replaces the embedded one wholesale; site replaces the shared
// copy when present.
type overrideFile struct {
	Site      *Site           `yaml:"site,omitempty"`
	Scenarios []scenarioTable `yaml:"scenarios"`
}

// LoadOverride applies the override file at p on top of base and returns a
// new validated Store. base is never modified.
func LoadOverride(base *Store, p string) (*Store, error) {
	defer metrics.Timer(metrics.FixtureLoad)()

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading fixture override: %w", err)
	}

	var ov overrideFile
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parsing fixture override: %w", err)
	}

	s := &Store{
		site:      base.Site(),
		scenarios: make(map[Scenario]*scenarioTable, len(Scenarios())),
		source:    p,
	}
	if base != nil {
		for sc, t := range base.scenarios {
			s.scenarios[sc] = t
		}
	}
	if ov.Site != nil {
		s.site = *ov.Site
	}
	for i := range ov.Scenarios {
		t := ov.Scenarios[i]
		if !t.Scenario.Valid() {
			return nil, fmt.Errorf("%w: override names unknown scenario %q", ErrInvalidFixtures, t.Scenario)
		}
		s.scenarios[t.Scenario] = &t
	}

	if err := s.index(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	debug.Log("fixture: applied override %s (%d scenarios replaced)", p, len(ov.Scenarios))
	return s, nil
}

// index builds the cross-scenario detail map.
func (s *Store) index() error {
	s.details = make(map[string]ComponentDetail)
	for _, sc := range sortedScenarios(s.scenarios) {
		for id, d := range s.scenarios[sc].Details {
			if _, dup := s.details[id]; dup {
				return fmt.Errorf("%w: detail %q defined in more than one scenario", ErrInvalidFixtures, id)
			}
			s.details[id] = d
		}
	}
	return nil
}

func sortedScenarios(m map[Scenario]*scenarioTable) []Scenario {
	out := make([]Scenario, 0, len(m))
	for sc := range m {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks the table invariants the rest of the program relies on:
// every scenario present with non-empty layers, exactly FlowStepCount flow
// steps, flow steps in range, unique component ids, a detail for every
// component, and exactly one outcome kind.
func (s *Store) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, sc := range Scenarios() {
		t := s.scenarios[sc]
		if t == nil {
			add("scenario %q missing", sc)
			continue
		}
		if len(t.Flow) != FlowStepCount {
			add("%s: want %d flow steps, got %d", sc, FlowStepCount, len(t.Flow))
		}
		seen := make(map[string]bool)
		for l := LayerEdge; l < NumLayers; l++ {
			comps := t.Components.Layer(l)
			if len(comps) == 0 {
				add("%s: %s is empty", sc, l)
			}
			for _, c := range comps {
				if c.ID == "" {
					add("%s: component without id in %s", sc, l)
					continue
				}
				if seen[c.ID] {
					add("%s: duplicate component id %q", sc, c.ID)
				}
				seen[c.ID] = true
				if c.FlowStep < 0 || c.FlowStep >= len(t.Flow) {
					add("%s: component %q flow step %d out of range", sc, c.ID, c.FlowStep)
				}
				if _, ok := s.details[c.ID]; !ok {
					add("%s: component %q has no detail", sc, c.ID)
				}
			}
		}
		guideIDs := make(map[string]bool)
		for _, g := range t.Guides {
			if guideIDs[g.ID] {
				add("%s: duplicate guide id %q", sc, g.ID)
			}
			guideIDs[g.ID] = true
			if len(g.Steps) == 0 {
				add("%s: guide %q has no steps", sc, g.ID)
			}
		}
		if (t.Outcome.Dashboard == nil) == (t.Outcome.Timeline == nil) {
			add("%s: outcome needs exactly one of dashboard or timeline", sc)
		}
		if tl := t.Outcome.Timeline; tl != nil && len(tl.Steps) == 0 {
			add("%s: timeline has no steps", sc)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFixtures, strings.Join(problems, "; "))
	}
	return nil
}
