package sim

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"pgregory.net/rapid"
)

// deliver feeds a tick built for s's current generation.
func deliver(s Sequencer) (Sequencer, tea.Cmd) {
	return s.Update(SequencerTickMsg{ID: s.id, tag: s.tag, Time: time.Now()})
}

func TestNewSequencer_InitialState(t *testing.T) {
	loop := NewSequencer(4, 1500*time.Millisecond, ModeLoop)
	if loop.Stage() != 0 || !loop.Running() || loop.State() != StateRunning {
		t.Errorf("loop should start running at 0, got stage=%d state=%s", loop.Stage(), loop.State())
	}
	if loop.Init() == nil {
		t.Error("running loop should schedule a tick on Init")
	}

	once := NewSequencer(5, 2000*time.Millisecond, ModeOneShot)
	if once.Stage() != 0 || once.Running() || once.State() != StateIdle {
		t.Errorf("one-shot should start idle at 0, got stage=%d state=%s", once.Stage(), once.State())
	}
	if once.Init() != nil {
		t.Error("idle one-shot should not schedule a tick")
	}
}

func TestSequencer_UniqueIDs(t *testing.T) {
	a := NewSequencer(4, time.Second, ModeLoop)
	b := NewSequencer(4, time.Second, ModeLoop)
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct ids, both %d", a.ID())
	}

	// b ignores a's ticks
	b, cmd := b.Update(SequencerTickMsg{ID: a.ID(), tag: a.tag})
	if b.Stage() != 0 || cmd != nil {
		t.Errorf("foreign tick advanced b to %d", b.Stage())
	}
}

func TestSequencer_LoopWrapsModulo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxStage := rapid.IntRange(0, 8).Draw(t, "maxStage")
		n := rapid.IntRange(0, 200).Draw(t, "ticks")

		s := NewSequencer(maxStage, time.Millisecond, ModeLoop)
		for range n {
			var cmd tea.Cmd
			s, cmd = deliver(s)
			if cmd == nil {
				t.Fatalf("loop stopped rescheduling at stage %d", s.Stage())
			}
		}
		if want := n % (maxStage + 1); s.Stage() != want {
			t.Fatalf("after %d ticks want stage %d, got %d", n, want, s.Stage())
		}
		if !s.Running() {
			t.Fatal("loop stopped on its own")
		}
	})
}

func TestSequencer_OneShotCompletes(t *testing.T) {
	s := NewSequencer(5, 2000*time.Millisecond, ModeOneShot)
	if s.Start() == nil {
		t.Fatal("Start on idle one-shot should schedule a tick")
	}

	var cmd tea.Cmd
	for i := 1; i <= 5; i++ {
		stale := s.tag
		s, cmd = deliver(s)
		if s.Stage() != i {
			t.Fatalf("tick %d: want stage %d, got %d", i, i, s.Stage())
		}
		if i < 5 && cmd == nil {
			t.Fatalf("tick %d: expected reschedule", i)
		}
		if i == 5 && s.tag == stale {
			t.Error("terminal transition should invalidate the live tick")
		}
	}
	if cmd != nil {
		t.Error("no tick may be scheduled after the terminal stage")
	}
	if s.State() != StateComplete || s.Running() {
		t.Fatalf("want complete, got %s running=%v", s.State(), s.Running())
	}

	// A sixth tick, current tag or not, must not over-advance.
	if s.Advance() {
		t.Error("Advance on a complete sequencer should be a no-op")
	}
	s, cmd = deliver(s)
	if s.Stage() != 5 || cmd != nil {
		t.Errorf("over-advance: stage=%d cmd=%v", s.Stage(), cmd != nil)
	}
}

func TestSequencer_StartIsIdempotent(t *testing.T) {
	s := NewSequencer(5, time.Second, ModeOneShot)
	if s.Start() == nil {
		t.Fatal("first Start should schedule")
	}
	tag := s.tag
	if s.Start() != nil {
		t.Error("Start on running sequencer should be a no-op")
	}
	if s.tag != tag {
		t.Error("second Start must not touch the live tick")
	}
}

func TestSequencer_StartOnCompleteIsNoop(t *testing.T) {
	s := NewSequencer(2, time.Second, ModeOneShot)
	s.Start()
	s.Advance()
	s.Advance()
	if s.State() != StateComplete {
		t.Fatalf("want complete, got %s", s.State())
	}
	if s.Start() != nil || s.Running() {
		t.Error("Start on complete one-shot should do nothing")
	}
	if s.Restart() == nil || s.Stage() != 0 || !s.Running() {
		t.Errorf("Restart should rerun from 0, got stage=%d running=%v", s.Stage(), s.Running())
	}
}

func TestSequencer_PauseFreezesStage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mode := Mode(rapid.IntRange(0, 1).Draw(t, "mode"))
		before := rapid.IntRange(0, 3).Draw(t, "before")
		elapsed := rapid.IntRange(0, 20).Draw(t, "elapsed")

		s := NewSequencer(5, time.Millisecond, mode)
		s.Start()
		for range before {
			s, _ = deliver(s)
		}
		paused := s.Stage()
		inFlight := SequencerTickMsg{ID: s.id, tag: s.tag}

		s.Pause()
		s.Pause() // idempotent
		for range elapsed {
			var cmd tea.Cmd
			s, cmd = s.Update(inFlight)
			if cmd != nil {
				t.Fatal("stale tick rescheduled")
			}
			s.Advance()
		}
		if s.Stage() != paused {
			t.Fatalf("stage moved while paused: %d -> %d", paused, s.Stage())
		}

		// Resume continues from the paused stage, not from 0.
		if s.Start() == nil {
			t.Fatal("Start after Pause should schedule")
		}
		s, _ = deliver(s)
		want := paused + 1
		if mode == ModeLoop {
			want %= 6
		}
		if s.Stage() != want {
			t.Fatalf("resume: want %d, got %d", want, s.Stage())
		}
	})
}

func TestSequencer_ResetOneShot(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewSequencer(5, time.Millisecond, ModeOneShot)
		ops := rapid.SliceOfN(rapid.IntRange(0, 3), 0, 20).Draw(t, "ops")
		for _, op := range ops {
			switch op {
			case 0:
				s.Start()
			case 1:
				s.Pause()
			case 2:
				s.Advance()
			case 3:
				s.Toggle()
			}
		}
		s.Reset()
		if s.Stage() != 0 || s.Running() || s.State() != StateIdle {
			t.Fatalf("reset one-shot: stage=%d running=%v state=%s", s.Stage(), s.Running(), s.State())
		}
	})
}

func TestSequencer_ResetLoopKeepsRunning(t *testing.T) {
	s := NewSequencer(4, time.Millisecond, ModeLoop)
	s, _ = deliver(s)
	s, _ = deliver(s)
	tag := s.tag
	s.Reset()
	if s.Stage() != 0 || !s.Running() {
		t.Errorf("want stage 0 running, got %d running=%v", s.Stage(), s.Running())
	}
	if s.tag != tag {
		t.Error("resetting a running loop should keep its live tick")
	}

	s.Pause()
	s.Reset()
	if s.Running() {
		t.Error("resetting a paused loop should leave it paused")
	}
}

func TestSequencer_StageBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxStage := rapid.IntRange(0, 6).Draw(t, "maxStage")
		mode := Mode(rapid.IntRange(0, 1).Draw(t, "mode"))
		s := NewSequencer(maxStage, time.Millisecond, mode)
		ops := rapid.SliceOfN(rapid.IntRange(0, 5), 0, 60).Draw(t, "ops")
		for _, op := range ops {
			switch op {
			case 0:
				s.Start()
			case 1:
				s.Pause()
			case 2:
				s.Reset()
			case 3:
				s.Toggle()
			case 4:
				s, _ = deliver(s)
			case 5:
				s.Restart()
			}
			if s.Stage() < 0 || s.Stage() > maxStage {
				t.Fatalf("stage %d outside [0,%d]", s.Stage(), maxStage)
			}
		}
	})
}

func TestSequencer_StopInvalidatesAllTicks(t *testing.T) {
	s := NewSequencer(4, time.Millisecond, ModeLoop)
	early := SequencerTickMsg{ID: s.id, tag: s.tag}
	s.Pause()
	s.Start()
	late := SequencerTickMsg{ID: s.id, tag: s.tag}

	s.Stop()
	for _, msg := range []SequencerTickMsg{early, late} {
		var cmd tea.Cmd
		s, cmd = s.Update(msg)
		if s.Stage() != 0 || cmd != nil {
			t.Fatalf("tick after Stop advanced to %d", s.Stage())
		}
	}
}

func TestSequencer_Toggle(t *testing.T) {
	s := NewSequencer(4, time.Millisecond, ModeLoop)
	if cmd := s.Toggle(); cmd != nil || s.Running() {
		t.Error("toggle on running loop should pause")
	}
	if cmd := s.Toggle(); cmd == nil || !s.Running() {
		t.Error("toggle on paused loop should start")
	}
}

func TestSequencer_TickCommandCarriesGeneration(t *testing.T) {
	s := NewSequencer(5, time.Millisecond, ModeOneShot)
	cmd := s.Start()
	msg, ok := cmd().(SequencerTickMsg)
	if !ok {
		t.Fatalf("expected SequencerTickMsg, got %T", cmd())
	}
	if msg.ID != s.ID() {
		t.Errorf("tick for %d, want %d", msg.ID, s.ID())
	}
	s, _ = s.Update(msg)
	if s.Stage() != 1 {
		t.Errorf("scheduled tick should advance, got stage %d", s.Stage())
	}
}

// End-to-end: a one-shot over 5 elapsed intervals lands on Complete and a
// further manual tick is a no-op.
func TestSequencer_TimelineRunToCompletion(t *testing.T) {
	s := NewSequencer(5, 2000*time.Millisecond, ModeOneShot)
	cmd := s.Restart()
	for cmd != nil {
		s, cmd = deliver(s)
	}
	if s.State() != StateComplete || s.Stage() != 5 {
		t.Fatalf("want complete at 5, got %s at %d", s.State(), s.Stage())
	}
	if s.Advance() || s.Stage() != 5 {
		t.Error("manual tick after completion should be a no-op")
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateIdle:     "idle",
		StateRunning:  "running",
		StatePaused:   "paused",
		StateComplete: "complete",
		State(42):     "unknown",
	}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", st, got, want)
		}
	}
}
