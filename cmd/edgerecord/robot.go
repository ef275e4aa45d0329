package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/edgerecord/pkg/config"
	"github.com/vanderheijden86/edgerecord/pkg/debug"
	"github.com/vanderheijden86/edgerecord/pkg/fixture"
	"github.com/vanderheijden86/edgerecord/pkg/metrics"
	"github.com/vanderheijden86/edgerecord/pkg/sim"
)

// Stock intervals used when the config leaves a timing unset.
const (
	robotPulseInterval    = 1500 * time.Millisecond
	robotTimelineInterval = 2000 * time.Millisecond
	robotMetricsInterval  = 2000 * time.Millisecond
)

// FixturesOutput is the --robot-fixtures document for one scenario.
type FixturesOutput struct {
	Scenario   fixture.Scenario                   `json:"scenario"`
	Source     string                             `json:"source"`
	Info       fixture.ScenarioInfo               `json:"info"`
	Components fixture.Layers                     `json:"components"`
	Details    map[string]fixture.ComponentDetail `json:"details"`
	Flow       []fixture.FlowStep                 `json:"flow"`
	Guides     []fixture.Guide                    `json:"guides"`
	Outcome    fixture.Outcome                    `json:"outcome"`
}

func buildFixturesOutput(store *fixture.Store, sc fixture.Scenario) FixturesOutput {
	layers := store.ComponentsFor(sc)
	details := make(map[string]fixture.ComponentDetail)
	for _, c := range layers.All() {
		if d, ok := store.DetailFor(c.ID); ok {
			details[c.ID] = d
		}
	}
	return FixturesOutput{
		Scenario:   sc,
		Source:     store.Source(),
		Info:       store.Info(sc),
		Components: layers,
		Details:    details,
		Flow:       store.FlowStepsFor(sc),
		Guides:     store.SetupGuidesFor(sc),
		Outcome:    store.OutcomeFor(sc),
	}
}

func writeFixturesJSON(w io.Writer, store *fixture.Store, sc fixture.Scenario) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(buildFixturesOutput(store, sc)); err != nil {
		return fmt.Errorf("encoding fixtures: %w", err)
	}
	return nil
}

// runSimulation drives the architecture pulse and the scenario's outcome
// view (timeline or metric feed) concurrently, writing one JSON line per
// frame. The pulse loops, so it stops after ticks frames; a timeline stops
// at its last step even when ticks allows more.
func runSimulation(ctx context.Context, w io.Writer, store *fixture.Store, cfg config.Config, sc fixture.Scenario, ticks int) error {
	defer metrics.Timer(metrics.HeadlessRun)()

	var mu sync.Mutex
	enc := json.NewEncoder(w)
	var encErr error
	emit := func(f sim.Frame) {
		mu.Lock()
		defer mu.Unlock()
		if encErr == nil {
			encErr = enc.Encode(f)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	pulse := sim.NewSequencer(fixture.FlowStepCount-1,
		config.Interval(cfg.Timing.PulseMs, robotPulseInterval), sim.ModeLoop)
	g.Go(func() error {
		return sim.DriveSequencer(gctx, "pulse", &pulse, ticks, emit)
	})

	if tl := store.TimelineFor(sc); tl != nil {
		timeline := sim.NewSequencer(len(tl.Steps),
			config.Interval(cfg.Timing.TimelineMs, robotTimelineInterval), sim.ModeOneShot)
		g.Go(func() error {
			return sim.DriveSequencer(gctx, "timeline", &timeline, ticks, emit)
		})
	}

	if store.DashboardFor(sc) != nil {
		feed := sim.NewGenerator(sim.DefaultWindowSize,
			config.Interval(cfg.Timing.MetricsMs, robotMetricsInterval), sim.DefaultRandSource())
		g.Go(func() error {
			return sim.DriveGenerator(gctx, "feed", &feed, ticks, emit)
		})
	}

	debug.Log("robot: simulating %s for %d ticks", sc, ticks)
	if err := g.Wait(); err != nil {
		return err
	}
	if encErr != nil {
		return fmt.Errorf("writing frames: %w", encErr)
	}
	return nil
}
