// Package sim drives the timed parts of the demo: the stage sequencer behind
// the data-flow pulse and the outcome timeline, and the synthetic metric feed
// behind the live dashboard.
//
// Sequencer and Generator are bubbletea components. Their ticks carry the
// owner's ID and a generation tag; Pause and Stop bump the tag so a tick
// already in flight is dropped on arrival. A stopped component therefore
// never mutates state again, even though tea.Tick itself cannot be cancelled.
package sim

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID atomic.Int64

func nextID() int64 {
	return lastID.Add(1)
}

// Mode selects how a sequencer behaves at its last stage.
type Mode int

const (
	// ModeLoop wraps back to stage 0 and runs until paused.
	ModeLoop Mode = iota
	// ModeOneShot stops at the last stage.
	ModeOneShot
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeOneShot {
		return "one-shot"
	}
	return "loop"
}

// State is the observable lifecycle position of a sequencer.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateComplete
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// MarshalText lets states appear by name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SequencerTickMsg advances the sequencer with the matching ID.
type SequencerTickMsg struct {
	ID   int64
	Time time.Time
	tag  int
}

// Sequencer advances a bounded stage index on a timer.
// The zero value is not usable; construct one with NewSequencer.
type Sequencer struct {
	id       int64
	tag      int
	mode     Mode
	maxStage int
	interval time.Duration
	stage    int
	running  bool
}

// NewSequencer returns a sequencer at stage 0. Loop sequencers start running
// (Init schedules the first tick); one-shot sequencers start idle.
func NewSequencer(maxStage int, interval time.Duration, mode Mode) Sequencer {
	if maxStage < 0 {
		maxStage = 0
	}
	return Sequencer{
		id:       nextID(),
		mode:     mode,
		maxStage: maxStage,
		interval: interval,
		running:  mode == ModeLoop,
	}
}

// ID returns the process-unique sequencer id.
func (s Sequencer) ID() int64 { return s.id }

// Stage returns the current stage in [0, MaxStage].
func (s Sequencer) Stage() int { return s.stage }

// MaxStage returns the last stage index.
func (s Sequencer) MaxStage() int { return s.maxStage }

// Mode returns the sequencer mode.
func (s Sequencer) Mode() Mode { return s.mode }

// Interval returns the tick interval.
func (s Sequencer) Interval() time.Duration { return s.interval }

// Running reports whether ticks are being scheduled.
func (s Sequencer) Running() bool { return s.running }

// State maps (stage, running) onto the lifecycle states.
func (s Sequencer) State() State {
	switch {
	case s.running:
		return StateRunning
	case s.mode == ModeOneShot && s.stage == s.maxStage:
		return StateComplete
	case s.mode == ModeOneShot && s.stage == 0:
		return StateIdle
	default:
		return StatePaused
	}
}

// Init schedules the first tick of a running sequencer.
func (s Sequencer) Init() tea.Cmd {
	if !s.running {
		return nil
	}
	return s.tick()
}

// Start resumes ticking from the current stage. It is a no-op on a running
// sequencer and on a completed one-shot; use Restart to run again.
func (s *Sequencer) Start() tea.Cmd {
	if s.running || s.State() == StateComplete {
		return nil
	}
	s.running = true
	return s.tick()
}

// Pause stops ticking and invalidates any tick in flight. Idempotent.
func (s *Sequencer) Pause() {
	if !s.running {
		return
	}
	s.running = false
	s.tag++
}

// Toggle pauses a running sequencer and starts a paused one.
func (s *Sequencer) Toggle() tea.Cmd {
	if s.running {
		s.Pause()
		return nil
	}
	return s.Start()
}

// Reset returns to stage 0. A loop sequencer keeps its running flag; a
// one-shot always ends up idle.
func (s *Sequencer) Reset() {
	s.stage = 0
	if s.mode == ModeOneShot {
		s.Pause()
	}
}

// Restart resets and starts in one step.
func (s *Sequencer) Restart() tea.Cmd {
	s.Reset()
	if s.mode == ModeLoop && s.running {
		return nil
	}
	return s.Start()
}

// Stop is the teardown hook: it pauses and makes every outstanding tick
// inert, including ones scheduled before an earlier Pause.
func (s *Sequencer) Stop() {
	s.running = false
	s.tag++
}

// Advance applies one tick. It returns false, changing nothing, when the
// sequencer is not running. A one-shot that reaches its last stage stops.
func (s *Sequencer) Advance() bool {
	if !s.running {
		return false
	}
	switch s.mode {
	case ModeLoop:
		s.stage = (s.stage + 1) % (s.maxStage + 1)
	case ModeOneShot:
		if s.stage < s.maxStage {
			s.stage++
		}
		if s.stage >= s.maxStage {
			s.Pause()
		}
	}
	return true
}

// Update handles tick messages addressed to this sequencer.
func (s Sequencer) Update(msg tea.Msg) (Sequencer, tea.Cmd) {
	tick, ok := msg.(SequencerTickMsg)
	if !ok || tick.ID != s.id || tick.tag != s.tag {
		return s, nil
	}
	if !s.Advance() || !s.running {
		return s, nil
	}
	return s, s.tick()
}

func (s Sequencer) tick() tea.Cmd {
	id, tag := s.id, s.tag
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return SequencerTickMsg{ID: id, Time: t, tag: tag}
	})
}
