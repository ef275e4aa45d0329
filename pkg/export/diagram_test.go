package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/edgerecord/pkg/fixture"
)

func TestSaveDiagram_SVGAndPNG(t *testing.T) {
	tmp := t.TempDir()
	cases := []struct {
		name     string
		file     string
		scenario fixture.Scenario
		dark     bool
	}{
		{"svg light", "city.svg", fixture.ScenarioSmartCity, false},
		{"png dark", "utility.png", fixture.ScenarioUtility, true},
		{"nested dir", "out/deeper/city.PNG", fixture.ScenarioSmartCity, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(tmp, tc.file)
			err := SaveDiagram(DiagramOptions{
				Path:     out,
				Scenario: tc.scenario,
				Stage:    2,
				Dark:     tc.dark,
			})
			if err != nil {
				t.Fatalf("SaveDiagram error: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatal("output file is empty")
			}
		})
	}
}

func TestSaveDiagram_InvalidFormat(t *testing.T) {
	err := SaveDiagram(DiagramOptions{
		Path:     filepath.Join(t.TempDir(), "diagram.txt"),
		Scenario: fixture.ScenarioSmartCity,
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSaveDiagram_UnknownScenario(t *testing.T) {
	err := SaveDiagram(DiagramOptions{
		Path:     filepath.Join(t.TempDir(), "diagram.svg"),
		Scenario: "harbour",
	})
	if !errors.Is(err, fixture.ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestWriteSVG_Content(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSVG(&buf, DiagramOptions{
		Scenario: fixture.ScenarioUtility,
		Stage:    3,
		Focus:    "heroku-connect",
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "Heroku Connect", "Salesforce Sync", "Ticket Created", "EDGE LAYER", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	// Focus ring drawn once
	if n := strings.Count(out, "stroke-width:3"); n != 1 {
		t.Errorf("expected one focused box, got %d", n)
	}
}

func TestBuildLayout_Highlights(t *testing.T) {
	l := buildLayout(DiagramOptions{Scenario: fixture.ScenarioSmartCity, Stage: 4, Focus: "camera"})

	var highlighted []string
	focused := 0
	for _, col := range l.Columns {
		for _, b := range col.Boxes {
			if b.Highlighted {
				highlighted = append(highlighted, b.Name)
			}
			if b.Focused {
				focused++
			}
		}
	}
	// Dashboard and alerts share the last frame
	if len(highlighted) != 2 {
		t.Errorf("expected 2 highlighted boxes at stage 4, got %v", highlighted)
	}
	if focused != 1 {
		t.Errorf("expected camera focused, got %d focused", focused)
	}

	if len(l.Flow) != fixture.FlowStepCount {
		t.Fatalf("expected %d flow dots, got %d", fixture.FlowStepCount, len(l.Flow))
	}
	for i, d := range l.Flow {
		if d.Done != (i < 4) || d.Curr != (i == 4) {
			t.Errorf("dot %d: done=%v curr=%v", i, d.Done, d.Curr)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		path, format, want string
		err                bool
	}{
		{"a.svg", "", "svg", false},
		{"a.PNG", "", "png", false},
		{"a", "png", "png", false},
		{"a.svg", ".png", "png", false},
		{"a", "", "", true},
		{"a.gif", "", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.path, tt.format)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, %v", tt.path, tt.format, got, err)
		}
	}
}

func TestAsciiOnly(t *testing.T) {
	if got := asciiOnly("⚡ Proactive Utility Service"); got != "Proactive Utility Service" {
		t.Errorf("got %q", got)
	}
}
