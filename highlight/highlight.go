// Package highlight projects tracked targets onto the picker overlay as SVG
// rectangles: one cut-out per target in the mask layer dimming the page, and
// a congruent outlined rect in the visible layer.
package highlight

import (
	"bytes"
	"log/slog"
	"strconv"

	"golang.org/x/net/html"

	"github.com/hazyhaar/elpick/dom"
)

// CornerRadius is the rx of every highlight rect.
const CornerRadius = 10

// Frame is the markup for one projection.
type Frame struct {
	// Mask holds the cut-out rects for the dimming mask layer.
	Mask string `json:"mask"`
	// Targets holds the outlined rects for the visible layer.
	Targets string `json:"targets"`
	Count   int    `json:"count"`
}

// Surface receives rendered frames.
type Surface interface {
	Draw(f Frame) error
}

// Render builds a frame from scratch for the given rects. Empty rects are
// skipped.
func Render(rects []dom.Rect) Frame {
	var mask, targets bytes.Buffer
	n := 0
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		_ = html.Render(&mask, rectNode(r, ""))
		_ = html.Render(&targets, rectNode(r, "target"))
		n++
	}
	return Frame{Mask: mask.String(), Targets: targets.String(), Count: n}
}

func rectNode(r dom.Rect, class string) *html.Node {
	attrs := []html.Attribute{
		{Key: "x", Val: num(r.X)},
		{Key: "y", Val: num(r.Y)},
		{Key: "width", Val: num(r.Width)},
		{Key: "height", Val: num(r.Height)},
		{Key: "rx", Val: strconv.Itoa(CornerRadius)},
	}
	if class != "" {
		attrs = append([]html.Attribute{{Key: "class", Val: class}}, attrs...)
	}
	return &html.Node{
		Type: html.ElementNode,
		Data: "rect",
		Attr: attrs,
	}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Projector renders frames and pushes them to a Surface.
type Projector struct {
	surface Surface
	logger  *slog.Logger
	last    Frame
}

// NewProjector creates a Projector drawing on s.
func NewProjector(s Surface, logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{surface: s, logger: logger}
}

// Project renders rects and draws them. Draw failures are logged and the
// frame is still returned.
func (p *Projector) Project(rects []dom.Rect) Frame {
	f := Render(rects)
	p.last = f
	if p.surface == nil {
		return f
	}
	if err := p.surface.Draw(f); err != nil {
		p.logger.Debug("highlight: draw", "targets", f.Count, "error", err)
	}
	return f
}

// Last returns the most recently projected frame.
func (p *Projector) Last() Frame { return p.last }
