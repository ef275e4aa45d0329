package metrics

import (
	"testing"
	"time"
)

func TestTimingMetric_Record(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	st := m.Stats()
	if st.Count != 2 {
		t.Fatalf("count = %d, want 2", st.Count)
	}
	if st.TotalMs != 6 || st.AvgMs != 3 || st.MaxMs != 4 {
		t.Errorf("stats = %+v", st)
	}

	m.Reset()
	if m.Count() != 0 || m.Stats().MaxMs != 0 {
		t.Error("Reset should clear every counter")
	}
}

func TestTimer_Disabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	if m.Count() != 0 {
		t.Error("disabled metrics must not record")
	}
}

func TestSnapshot_OnlyPopulated(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	Timer(DiagramExport)()
	snap := Snapshot()
	if len(snap) != 1 || snap[0].Name != "diagram_export" {
		t.Errorf("snapshot = %+v", snap)
	}
}
