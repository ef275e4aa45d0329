package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

// AssertLayersPopulated verifies every layer of sc has at least one component.
func AssertLayersPopulated(t *testing.T, store *fixture.Store, sc fixture.Scenario) {
	t.Helper()
	layers := store.ComponentsFor(sc)
	for l := fixture.LayerEdge; l < fixture.NumLayers; l++ {
		if len(layers.Layer(l)) == 0 {
			t.Errorf("%s: %s has no components", sc, l)
		}
	}
}

// AssertDetailsResolve verifies every component of sc has a detail record.
func AssertDetailsResolve(t *testing.T, store *fixture.Store, sc fixture.Scenario) {
	t.Helper()
	for _, c := range store.ComponentsFor(sc).All() {
		if _, ok := store.DetailFor(c.ID); !ok {
			t.Errorf("%s: component %q has no detail", sc, c.ID)
		}
	}
}

// AssertNoDuplicateIDs verifies component ids are unique within sc.
func AssertNoDuplicateIDs(t *testing.T, store *fixture.Store, sc fixture.Scenario) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range store.ComponentsFor(sc).All() {
		if seen[c.ID] {
			t.Errorf("%s: duplicate component id %q", sc, c.ID)
		}
		seen[c.ID] = true
	}
}

// AssertFlowStepsInRange verifies sc has the fixed number of flow frames and
// every component points at one of them.
func AssertFlowStepsInRange(t *testing.T, store *fixture.Store, sc fixture.Scenario) {
	t.Helper()
	steps := store.FlowStepsFor(sc)
	if len(steps) != fixture.FlowStepCount {
		t.Errorf("%s: expected %d flow steps, got %d", sc, fixture.FlowStepCount, len(steps))
	}
	for _, c := range store.ComponentsFor(sc).All() {
		if c.FlowStep < 0 || c.FlowStep >= len(steps) {
			t.Errorf("%s: component %q flow step %d out of range", sc, c.ID, c.FlowStep)
		}
	}
}

// AssertStoreInvariants runs every fixture assertion for every scenario.
func AssertStoreInvariants(t *testing.T, store *fixture.Store) {
	t.Helper()
	for _, sc := range fixture.Scenarios() {
		AssertLayersPopulated(t, store, sc)
		AssertDetailsResolve(t, store, sc)
		AssertNoDuplicateIDs(t, store, sc)
		AssertFlowStepsInRange(t, store, sc)
	}
}

// WriteFile writes content to name under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
