// Package export renders static snapshots of the architecture diagram for
// slides and docs.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/edgerecord/pkg/debug"
	"github.com/vanderheijden86/edgerecord/pkg/fixture"
	"github.com/vanderheijden86/edgerecord/pkg/metrics"
)

// ErrUnsupportedFormat is returned for output formats other than svg/png.
var ErrUnsupportedFormat = errors.New("unsupported format")

// DiagramOptions controls a diagram snapshot.
type DiagramOptions struct {
	Path     string           // Output path; format inferred from extension when Format empty
	Format   string           // "svg" or "png" (case-insensitive)
	Store    *fixture.Store   // Fixture tables; nil means fixture.Default()
	Scenario fixture.Scenario // Scenario to draw
	Stage    int              // Highlighted data-flow frame; -1 for none
	Focus    string           // Component id drawn with a focus ring
	Dark     bool             // Dark palette
}

// SaveDiagram renders the architecture diagram of one scenario, frozen at a
// data-flow stage, to an SVG or PNG file.
func SaveDiagram(opts DiagramOptions) error {
	defer metrics.Timer(metrics.DiagramExport)()

	format, err := resolveFormat(opts.Path, opts.Format)
	if err != nil {
		return err
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if !opts.Scenario.Valid() {
		return fmt.Errorf("%w: %q", fixture.ErrUnknownScenario, opts.Scenario)
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(opts)
	debug.Log("export: %s diagram of %s at stage %d -> %s", format, opts.Scenario, opts.Stage, opts.Path)

	switch format {
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		f, err := os.Create(opts.Path)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.Path, err)
		}
		defer f.Close()
		return WriteSVG(f, opts)
	}
}

func resolveFormat(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		format = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	}
	switch format {
	case "svg", "png":
		return format, nil
	default:
		return "", fmt.Errorf("%w %q (want svg or png)", ErrUnsupportedFormat, format)
	}
}

// --- layout ----------------------------------------------------------------

const (
	colW    = 240
	colGap  = 40
	boxH    = 64
	boxGap  = 16
	margin  = 24
	headerH = 72
	titleH  = 28
	flowH   = 96
)

type box struct {
	X, Y        int
	Name, Type  string
	Icon        string
	Highlighted bool
	Focused     bool
}

type column struct {
	X     int
	Title string
	Boxes []box
}

type flowDot struct {
	X          int
	Label      string
	Data       string
	Done, Curr bool
}

type layoutResult struct {
	Width, Height int
	Title         string
	Subtitle      string
	Columns       []column
	FlowY         int
	Flow          []flowDot
	palette       palette
}

func buildLayout(opts DiagramOptions) layoutResult {
	store := opts.Store
	if store == nil {
		store = fixture.Default()
	}
	info := store.Info(opts.Scenario)
	layers := store.ComponentsFor(opts.Scenario)

	l := layoutResult{
		Title:    info.Heading,
		Subtitle: info.Tagline,
		palette:  lightPalette,
	}
	if opts.Dark {
		l.palette = darkPalette
	}

	tallest := 0
	for i := fixture.LayerEdge; i < fixture.NumLayers; i++ {
		col := column{X: margin + int(i)*(colW+colGap), Title: i.String()}
		y := headerH + titleH
		for _, c := range layers.Layer(i) {
			col.Boxes = append(col.Boxes, box{
				X: col.X, Y: y,
				Name: c.Name, Type: c.Type, Icon: c.Icon,
				Highlighted: c.FlowStep == opts.Stage,
				Focused:     c.ID == opts.Focus,
			})
			y += boxH + boxGap
		}
		tallest = max(tallest, y)
		l.Columns = append(l.Columns, col)
	}

	l.Width = 2*margin + int(fixture.NumLayers)*colW + (int(fixture.NumLayers)-1)*colGap
	l.FlowY = tallest + boxGap
	steps := store.FlowStepsFor(opts.Scenario)
	if n := len(steps); n > 0 {
		span := (l.Width - 2*margin) / n
		for i, s := range steps {
			l.Flow = append(l.Flow, flowDot{
				X:     margin + span*i + span/2,
				Label: s.Label,
				Data:  s.Data,
				Done:  opts.Stage > i,
				Curr:  opts.Stage == i,
			})
		}
	}
	l.Height = l.FlowY + flowH
	return l
}

// --- palettes --------------------------------------------------------------

type palette struct {
	Backdrop, Header, Box, Stroke color.RGBA
	Highlight, Focus, Done        color.RGBA
	Text, Subtle, Pending         color.RGBA
}

var lightPalette = palette{
	Backdrop:  color.RGBA{0xf9, 0xfa, 0xfb, 0xff},
	Header:    color.RGBA{0xf3, 0xf4, 0xf6, 0xff},
	Box:       color.RGBA{0xff, 0xff, 0xff, 0xff},
	Stroke:    color.RGBA{0xd1, 0xd5, 0xdb, 0xff},
	Highlight: color.RGBA{0xed, 0xe9, 0xfe, 0xff},
	Focus:     color.RGBA{0x7c, 0x3a, 0xed, 0xff},
	Done:      color.RGBA{0x10, 0xb9, 0x81, 0xff},
	Text:      color.RGBA{0x11, 0x18, 0x27, 0xff},
	Subtle:    color.RGBA{0x6b, 0x72, 0x80, 0xff},
	Pending:   color.RGBA{0xd1, 0xd5, 0xdb, 0xff},
}

var darkPalette = palette{
	Backdrop:  color.RGBA{0x0f, 0x17, 0x2a, 0xff},
	Header:    color.RGBA{0x1e, 0x29, 0x3b, 0xff},
	Box:       color.RGBA{0x1e, 0x29, 0x3b, 0xff},
	Stroke:    color.RGBA{0x33, 0x41, 0x55, 0xff},
	Highlight: color.RGBA{0x2e, 0x1a, 0x5e, 0xff},
	Focus:     color.RGBA{0xa7, 0x8b, 0xfa, 0xff},
	Done:      color.RGBA{0x34, 0xd3, 0x99, 0xff},
	Text:      color.RGBA{0xf1, 0xf5, 0xf9, 0xff},
	Subtle:    color.RGBA{0x94, 0xa3, 0xb8, 0xff},
	Pending:   color.RGBA{0x47, 0x55, 0x69, 0xff},
}

// --- PNG -------------------------------------------------------------------

func renderPNG(path string, l layoutResult) error {
	p := l.palette
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(p.Backdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(p.Header)
	dc.DrawRoundedRectangle(margin/2, margin/2, float64(l.Width-margin), headerH-margin/2, 10)
	dc.Fill()
	dc.SetColor(p.Text)
	// basicfont has no emoji glyphs
	dc.DrawStringAnchored(asciiOnly(l.Title), margin, 36, 0, 0.5)
	dc.SetColor(p.Subtle)
	dc.DrawStringAnchored(asciiOnly(l.Subtitle), margin, 56, 0, 0.5)

	for _, col := range l.Columns {
		dc.SetColor(p.Subtle)
		dc.DrawStringAnchored(strings.ToUpper(col.Title), float64(col.X), headerH+titleH/2, 0, 0.5)
		for _, b := range col.Boxes {
			drawBox(dc, p, b)
		}
	}

	y := float64(l.FlowY + 16)
	for i, d := range l.Flow {
		if i > 0 {
			prev := l.Flow[i-1]
			dc.SetColor(p.Pending)
			if d.Done || d.Curr {
				dc.SetColor(p.Done)
			}
			dc.SetLineWidth(2)
			dc.DrawLine(float64(prev.X+8), y, float64(d.X-8), y)
			dc.Stroke()
		}
		dc.SetColor(dotColor(p, d))
		dc.DrawCircle(float64(d.X), y, 6)
		dc.Fill()
		dc.SetColor(p.Text)
		dc.DrawStringAnchored(asciiOnly(d.Label), float64(d.X), y+22, 0.5, 0.5)
		dc.SetColor(p.Subtle)
		dc.DrawStringAnchored(truncate(asciiOnly(d.Data), 26), float64(d.X), y+40, 0.5, 0.5)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func drawBox(dc *gg.Context, p palette, b box) {
	fill := p.Box
	if b.Highlighted {
		fill = p.Highlight
	}
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(float64(b.X), float64(b.Y), colW, boxH, 8)
	dc.Fill()

	dc.SetColor(p.Stroke)
	dc.SetLineWidth(1.2)
	if b.Focused {
		dc.SetColor(p.Focus)
		dc.SetLineWidth(3)
	}
	dc.DrawRoundedRectangle(float64(b.X), float64(b.Y), colW, boxH, 8)
	dc.Stroke()

	dc.SetColor(p.Text)
	dc.DrawStringAnchored(truncate(b.Name, 30), float64(b.X+12), float64(b.Y+22), 0, 0.5)
	dc.SetColor(p.Subtle)
	dc.DrawStringAnchored(truncate(b.Type, 30), float64(b.X+12), float64(b.Y+42), 0, 0.5)
}

func dotColor(p palette, d flowDot) color.RGBA {
	switch {
	case d.Curr:
		return p.Focus
	case d.Done:
		return p.Done
	default:
		return p.Pending
	}
}

// --- SVG -------------------------------------------------------------------

// WriteSVG renders the diagram as SVG to w.
func WriteSVG(w io.Writer, opts DiagramOptions) error {
	l := buildLayout(opts)
	p := l.palette
	font := "font-family:monospace"

	canvas := svg.New(w)
	canvas.Start(l.Width, l.Height)
	canvas.Rect(0, 0, l.Width, l.Height, "fill:"+css(p.Backdrop))
	canvas.Roundrect(margin/2, margin/2, l.Width-margin, headerH-margin/2, 10, 10, "fill:"+css(p.Header))
	canvas.Text(margin, 40, l.Title, fmt.Sprintf("fill:%s;font-size:16px;font-weight:bold;%s", css(p.Text), font))
	canvas.Text(margin, 60, l.Subtitle, fmt.Sprintf("fill:%s;font-size:12px;%s", css(p.Subtle), font))

	for _, col := range l.Columns {
		canvas.Text(col.X, headerH+titleH/2+4, strings.ToUpper(col.Title),
			fmt.Sprintf("fill:%s;font-size:11px;letter-spacing:1px;%s", css(p.Subtle), font))
		for _, b := range col.Boxes {
			fill, stroke, width := p.Box, p.Stroke, "1.2"
			if b.Highlighted {
				fill = p.Highlight
			}
			if b.Focused {
				stroke, width = p.Focus, "3"
			}
			canvas.Roundrect(b.X, b.Y, colW, boxH, 8, 8,
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", css(fill), css(stroke), width))
			canvas.Text(b.X+12, b.Y+26, strings.TrimSpace(b.Icon+" "+b.Name),
				fmt.Sprintf("fill:%s;font-size:13px;font-weight:bold;%s", css(p.Text), font))
			canvas.Text(b.X+12, b.Y+46, b.Type, fmt.Sprintf("fill:%s;font-size:12px;%s", css(p.Subtle), font))
		}
	}

	y := l.FlowY + 16
	for i, d := range l.Flow {
		if i > 0 {
			line := p.Pending
			if d.Done || d.Curr {
				line = p.Done
			}
			canvas.Line(l.Flow[i-1].X+8, y, d.X-8, y, fmt.Sprintf("stroke:%s;stroke-width:2", css(line)))
		}
		canvas.Circle(d.X, y, 6, "fill:"+css(dotColor(p, d)))
		canvas.Text(d.X, y+24, d.Label, fmt.Sprintf("fill:%s;font-size:12px;text-anchor:middle;%s", css(p.Text), font))
		canvas.Text(d.X, y+42, truncate(d.Data, 26), fmt.Sprintf("fill:%s;font-size:10px;text-anchor:middle;%s", css(p.Subtle), font))
	}
	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

func asciiOnly(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r > 0x7e {
			return -1
		}
		return r
	}, s))
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
