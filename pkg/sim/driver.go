package sim

import (
	"context"
	"time"
)

// Frame is one observation emitted by a headless run.
type Frame struct {
	Source string    `json:"source"`
	Tick   int       `json:"tick"`
	Time   time.Time `json:"time"`
	Stage  *int      `json:"stage,omitempty"`
	State  *State    `json:"state,omitempty"`
	Latest *int      `json:"latest,omitempty"`
	Window []int     `json:"window,omitempty"`
}

// DriveSequencer runs s against a real ticker outside of bubbletea, calling
// emit after every advance. An idle or paused sequencer is started first.
// It returns nil when s stops on its own (a completed one-shot) or after
// maxTicks advances (0 means unbounded), and ctx.Err() on cancellation.
// The ticker is always released before returning.
func DriveSequencer(ctx context.Context, source string, s *Sequencer, maxTicks int, emit func(Frame)) error {
	if s.State() == StateComplete {
		s.Reset()
	}
	s.Start()
	defer s.Stop()

	return drive(ctx, s.Interval(), maxTicks, func(n int, now time.Time) bool {
		if !s.Advance() {
			return false
		}
		stage, state := s.Stage(), s.State()
		emit(Frame{Source: source, Tick: n, Time: now, Stage: &stage, State: &state})
		return s.Running()
	})
}

// DriveGenerator samples g once per interval, calling emit with the window
// after every sample. It returns nil after maxTicks samples and ctx.Err()
// on cancellation; maxTicks 0 runs until ctx is done.
func DriveGenerator(ctx context.Context, source string, g *Generator, maxTicks int, emit func(Frame)) error {
	defer g.Stop()

	return drive(ctx, g.Interval(), maxTicks, func(n int, now time.Time) bool {
		v := g.Sample()
		emit(Frame{Source: source, Tick: n, Time: now, Latest: &v, Window: g.CurrentWindow()})
		return true
	})
}

// drive calls step on every tick until step returns false, maxTicks is
// reached or ctx is cancelled.
func drive(ctx context.Context, interval time.Duration, maxTicks int, step func(n int, now time.Time) bool) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; maxTicks <= 0 || n <= maxTicks; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if !step(n, now) {
				return nil
			}
		}
	}
	return nil
}
