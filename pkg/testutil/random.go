// Package testutil provides deterministic random sources and fixture
// assertions shared by the package tests.
package testutil

import "sync"

// ScriptedSource replays a fixed list of raw draws, wrapping around.
// IntN(n) returns the next value modulo n, so a script of {0, 14} against
// a [5,19] generator yields 5 and 19.
type ScriptedSource struct {
	mu     sync.Mutex
	values []int
	next   int
	calls  int
}

// NewScriptedSource returns a source replaying values. An empty script
// always yields 0.
func NewScriptedSource(values ...int) *ScriptedSource {
	return &ScriptedSource{values: values}
}

// IntN returns the next scripted value reduced into [0, n).
func (s *ScriptedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.values) == 0 || n <= 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Calls returns how many draws were made.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// CountingSource yields 0, 1, 2, ... so each draw is distinguishable.
func CountingSource() *ScriptedSource {
	vals := make([]int, 1024)
	for i := range vals {
		vals[i] = i
	}
	return NewScriptedSource(vals...)
}
