package sim

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultWindowSize is the number of samples the dashboard keeps.
	DefaultWindowSize = 24
	// SampleMin and SampleMax bound every synthetic reading, inclusive.
	SampleMin = 5
	SampleMax = 19
)

// Window is a fixed-capacity FIFO of samples, oldest first.
// Push replaces the backing slice, so copies of a Window never alias.
type Window struct {
	size    int
	samples []int
}

// NewWindow returns an empty window holding at most size samples.
func NewWindow(size int) Window {
	if size < 1 {
		size = 1
	}
	return Window{size: size}
}

// Push appends v, evicting the oldest sample once the window is full.
func (w *Window) Push(v int) {
	drop := 0
	if len(w.samples) >= w.size {
		drop = len(w.samples) - w.size + 1
	}
	next := make([]int, 0, w.size)
	next = append(next, w.samples[drop:]...)
	w.samples = append(next, v)
}

// Len returns the number of samples held.
func (w Window) Len() int { return len(w.samples) }

// Size returns the capacity.
func (w Window) Size() int { return w.size }

// Values returns a copy of the samples, oldest first.
func (w Window) Values() []int {
	return append([]int(nil), w.samples...)
}

// Latest returns the newest sample, or 0 when empty.
func (w Window) Latest() int {
	if len(w.samples) == 0 {
		return 0
	}
	return w.samples[len(w.samples)-1]
}

// GeneratorTickMsg asks the generator with the matching ID for a new sample.
type GeneratorTickMsg struct {
	ID   int64
	Time time.Time
	tag  int
}

// Generator emulates a live sensor feed: one uniform sample in
// [SampleMin, SampleMax] per tick into a rolling Window.
type Generator struct {
	id       int64
	tag      int
	interval time.Duration
	src      RandSource
	window   Window
	running  bool
}

// NewGenerator returns a running generator whose window is pre-filled with
// windowSize samples drawn from src. A nil src uses DefaultRandSource.
func NewGenerator(windowSize int, interval time.Duration, src RandSource) Generator {
	if src == nil {
		src = DefaultRandSource()
	}
	g := Generator{
		id:       nextID(),
		interval: interval,
		src:      src,
		window:   NewWindow(windowSize),
		running:  true,
	}
	for range g.window.Size() {
		g.window.Push(g.draw())
	}
	return g
}

func (g Generator) draw() int {
	return SampleMin + g.src.IntN(SampleMax-SampleMin+1)
}

// ID returns the process-unique generator id.
func (g Generator) ID() int64 { return g.id }

// Running reports whether the generator still accepts ticks.
func (g Generator) Running() bool { return g.running }

// Interval returns the tick interval.
func (g Generator) Interval() time.Duration { return g.interval }

// CurrentWindow returns a snapshot of the samples, oldest first.
func (g Generator) CurrentWindow() []int { return g.window.Values() }

// Latest returns the newest sample.
func (g Generator) Latest() int { return g.window.Latest() }

// Sample draws one reading into the window and returns it.
func (g *Generator) Sample() int {
	v := g.draw()
	g.window.Push(v)
	return v
}

// Stop is the teardown hook; outstanding ticks become inert.
func (g *Generator) Stop() {
	g.running = false
	g.tag++
}

// Init schedules the first tick.
func (g Generator) Init() tea.Cmd {
	if !g.running {
		return nil
	}
	return g.tick()
}

// Update handles tick messages addressed to this generator.
func (g Generator) Update(msg tea.Msg) (Generator, tea.Cmd) {
	tick, ok := msg.(GeneratorTickMsg)
	if !ok || !g.running || tick.ID != g.id || tick.tag != g.tag {
		return g, nil
	}
	g.Sample()
	return g, g.tick()
}

func (g Generator) tick() tea.Cmd {
	id, tag := g.id, g.tag
	return tea.Tick(g.interval, func(t time.Time) tea.Msg {
		return GeneratorTickMsg{ID: id, Time: t, tag: tag}
	})
}
