// Package fixture holds the static, read-only reference data for the demo
// scenarios: architecture components, component details, data-flow labels,
// setup guides and the scripted outcome content.
//
// The tables are embedded YAML decoded once at startup. A Store never
// mutates after it is built; live reload swaps in a new Store.
package fixture

import (
	"errors"
	"fmt"
	"strings"
)

// Scenario identifies one of the two demo narratives.
type Scenario string

const (
	ScenarioSmartCity Scenario = "smart-city"
	ScenarioUtility   Scenario = "utility"
)

// DefaultScenario is active when the application starts.
const DefaultScenario = ScenarioSmartCity

// ErrUnknownScenario is returned by ParseScenario for unrecognised names.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenarios returns every scenario in display order.
func Scenarios() []Scenario {
	return []Scenario{ScenarioSmartCity, ScenarioUtility}
}

// ParseScenario accepts the canonical ids plus a few loose spellings
// ("smartcity", "city", "utility").
func ParseScenario(s string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "smart-city", "smartcity", "smart_city", "city":
		return ScenarioSmartCity, nil
	case "utility", "util":
		return ScenarioUtility, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScenario, s)
}

// Valid reports whether s is one of the known scenarios.
func (s Scenario) Valid() bool {
	return s == ScenarioSmartCity || s == ScenarioUtility
}

// Other returns the scenario that is not s.
func (s Scenario) Other() Scenario {
	if s == ScenarioUtility {
		return ScenarioSmartCity
	}
	return ScenarioUtility
}

// Layer is a column of the architecture diagram.
type Layer int

const (
	LayerEdge Layer = iota
	LayerCloud
	LayerAction
	NumLayers
)

// String returns the layer's display name.
func (l Layer) String() string {
	switch l {
	case LayerEdge:
		return "Edge Layer"
	case LayerCloud:
		return "Cloud Layer"
	case LayerAction:
		return "Action Layer"
	default:
		return "Unknown Layer"
	}
}

// Component is one box of the architecture diagram.
type Component struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	FlowStep    int    `yaml:"flow_step" json:"flow_step"` // Data-flow frame that highlights this box
}

// Layers groups a scenario's components by diagram column.
type Layers struct {
	Edge   []Component `yaml:"edge" json:"edge"`
	Cloud  []Component `yaml:"cloud" json:"cloud"`
	Action []Component `yaml:"action" json:"action"`
}

// Layer returns the components of a single column.
func (l Layers) Layer(layer Layer) []Component {
	switch layer {
	case LayerEdge:
		return l.Edge
	case LayerCloud:
		return l.Cloud
	case LayerAction:
		return l.Action
	default:
		return nil
	}
}

// All returns every component, edge first.
func (l Layers) All() []Component {
	out := make([]Component, 0, len(l.Edge)+len(l.Cloud)+len(l.Action))
	out = append(out, l.Edge...)
	out = append(out, l.Cloud...)
	out = append(out, l.Action...)
	return out
}

func (l Layers) clone() Layers {
	return Layers{
		Edge:   append([]Component(nil), l.Edge...),
		Cloud:  append([]Component(nil), l.Cloud...),
		Action: append([]Component(nil), l.Action...),
	}
}

// ComponentDetail is the richer record shown in the detail panel.
type ComponentDetail struct {
	Name         string   `yaml:"name" json:"name"`
	Type         string   `yaml:"type" json:"type"`
	Icon         string   `yaml:"icon" json:"icon"`
	Description  string   `yaml:"description" json:"description"`
	Capabilities []string `yaml:"capabilities" json:"capabilities"`
	DataIn       string   `yaml:"data_in,omitempty" json:"data_in,omitempty"`
	DataOut      string   `yaml:"data_out,omitempty" json:"data_out,omitempty"`
	Benefits     []string `yaml:"benefits,omitempty" json:"benefits,omitempty"`
	Config       string   `yaml:"config,omitempty" json:"config,omitempty"`
}

// HasDataFlow reports whether the detail carries input/output descriptors.
func (d ComponentDetail) HasDataFlow() bool {
	return d.DataIn != "" || d.DataOut != ""
}

// FlowStep labels one frame of the data-flow animation.
type FlowStep struct {
	Label string `yaml:"label" json:"label"`
	Data  string `yaml:"data" json:"data"`
}

// GuideStep is a single numbered setup instruction.
type GuideStep struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Code        string `yaml:"code,omitempty" json:"code,omitempty"`
	Language    string `yaml:"language,omitempty" json:"language,omitempty"`
}

// DisplayLanguage returns the language tag shown above a code block.
func (s GuideStep) DisplayLanguage() string {
	if s.Language == "" {
		return "bash"
	}
	return s.Language
}

// Guide is the setup walkthrough for one product in a scenario.
type Guide struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Icon        string      `yaml:"icon" json:"icon"`
	Description string      `yaml:"description" json:"description"`
	Steps       []GuideStep `yaml:"steps" json:"steps"`
}

// ScenarioInfo is the narrative copy for a scenario card and heading.
type ScenarioInfo struct {
	Title       string   `yaml:"title" json:"title"`
	Subtitle    string   `yaml:"subtitle" json:"subtitle"`
	Description string   `yaml:"description" json:"description"`
	Benefits    []string `yaml:"benefits" json:"benefits"`
	Heading     string   `yaml:"heading" json:"heading"`
	Tagline     string   `yaml:"tagline" json:"tagline"`
	Problem     string   `yaml:"problem" json:"problem"`
	Accent      string   `yaml:"accent" json:"accent"` // Card color family (emerald, amber)
}

// KV is an ordered key/value pair used in scripted detail blocks.
type KV struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// TimelineStep is one stage of the scripted outcome timeline.
type TimelineStep struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Details     []KV   `yaml:"details,omitempty" json:"details,omitempty"`
}

// CaseMock is the mock CRM ticket revealed near the end of the timeline.
type CaseMock struct {
	System      string   `yaml:"system" json:"system"`
	Number      string   `yaml:"number" json:"number"`
	Priority    string   `yaml:"priority" json:"priority"`
	Status      string   `yaml:"status" json:"status"`
	Type        string   `yaml:"type" json:"type"`
	Queue       string   `yaml:"queue" json:"queue"`
	Description string   `yaml:"description" json:"description"`
	Assets      []string `yaml:"assets" json:"assets"`
	RevealAt    int      `yaml:"reveal_at" json:"reveal_at"`
}

// ChatMock is the mock team notification revealed at the end of the timeline.
type ChatMock struct {
	Channel  string   `yaml:"channel" json:"channel"`
	Platform string   `yaml:"platform" json:"platform"`
	Author   string   `yaml:"author" json:"author"`
	Time     string   `yaml:"time" json:"time"`
	Headline string   `yaml:"headline" json:"headline"`
	Fields   []KV     `yaml:"fields" json:"fields"`
	Actions  []string `yaml:"actions" json:"actions"`
	RevealAt int      `yaml:"reveal_at" json:"reveal_at"`
}

// Stat is a headline figure with a caption.
type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Impact summarises the outcome once the timeline completes.
type Impact struct {
	Title    string `yaml:"title" json:"title"`
	Stats    []Stat `yaml:"stats" json:"stats"`
	Footnote string `yaml:"footnote" json:"footnote"`
}

// Timeline is the scripted one-shot outcome for a scenario.
type Timeline struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Steps       []TimelineStep `yaml:"steps" json:"steps"`
	Case        *CaseMock      `yaml:"case,omitempty" json:"case,omitempty"`
	Chat        *ChatMock      `yaml:"chat,omitempty" json:"chat,omitempty"`
	Impact      *Impact        `yaml:"impact,omitempty" json:"impact,omitempty"`
}

// Dashboard is the static copy around the live metric feed.
type Dashboard struct {
	Title        string  `yaml:"title" json:"title"`
	Description  string  `yaml:"description" json:"description"`
	Unit         string  `yaml:"unit" json:"unit"`
	ChartTitle   string  `yaml:"chart_title" json:"chart_title"`
	PeakCaption  string  `yaml:"peak_caption" json:"peak_caption"`
	MeanCaption  string  `yaml:"mean_caption" json:"mean_caption"`
	RawLabel     string  `yaml:"raw_label" json:"raw_label"`
	RawValue     string  `yaml:"raw_value" json:"raw_value"`
	SentLabel    string  `yaml:"sent_label" json:"sent_label"`
	SentValue    string  `yaml:"sent_value" json:"sent_value"`
	ReductionPct float64 `yaml:"reduction_pct" json:"reduction_pct"`
	PrivacyNote  string  `yaml:"privacy_note" json:"privacy_note"`
}

// Outcome is the "see it in action" content; exactly one of Dashboard or
// Timeline is set.
type Outcome struct {
	Dashboard *Dashboard `yaml:"dashboard,omitempty" json:"dashboard,omitempty"`
	Timeline  *Timeline  `yaml:"timeline,omitempty" json:"timeline,omitempty"`
}

// Brand is one side of the "A × B" header.
type Brand struct {
	Icon string `yaml:"icon" json:"icon"`
	Name string `yaml:"name" json:"name"`
	Docs string `yaml:"docs" json:"docs"`
}

// HeroStep is one box of the Edge → Cloud → Record strip.
type HeroStep struct {
	Title       string `yaml:"title" json:"title"`
	Subtitle    string `yaml:"subtitle" json:"subtitle"`
	Description string `yaml:"description" json:"description"`
}

// BenefitCard is a column of the closing summary.
type BenefitCard struct {
	Icon     string   `yaml:"icon" json:"icon"`
	Title    string   `yaml:"title" json:"title"`
	Benefits []string `yaml:"benefits" json:"benefits"`
}

// Site is the scenario-independent copy.
type Site struct {
	Brand struct {
		Left  Brand `yaml:"left" json:"left"`
		Right Brand `yaml:"right" json:"right"`
	} `yaml:"brand" json:"brand"`
	Hero struct {
		Badge   string     `yaml:"badge" json:"badge"`
		Title   string     `yaml:"title" json:"title"`
		Tagline string     `yaml:"tagline" json:"tagline"`
		Steps   []HeroStep `yaml:"steps" json:"steps"`
	} `yaml:"hero" json:"hero"`
	Summary struct {
		Title       string        `yaml:"title" json:"title"`
		Description string        `yaml:"description" json:"description"`
		Cards       []BenefitCard `yaml:"cards" json:"cards"`
	} `yaml:"summary" json:"summary"`
	Disclaimer string `yaml:"disclaimer" json:"disclaimer"`
}
