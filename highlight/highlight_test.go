package highlight

import (
	"errors"
	"strings"
	"testing"

	"github.com/hazyhaar/elpick/dom"
)

type fakeSurface struct {
	frames []Frame
	err    error
}

func (s *fakeSurface) Draw(f Frame) error {
	s.frames = append(s.frames, f)
	return s.err
}

func TestRender(t *testing.T) {
	f := Render([]dom.Rect{
		{X: 8, Y: 20, Width: 100.5, Height: 40},
		{X: 0, Y: 0, Width: 0, Height: 40},
	})

	if f.Count != 1 {
		t.Fatalf("Count: got %d, want 1", f.Count)
	}
	wantMask := `<rect x="8" y="20" width="100.5" height="40" rx="10"></rect>`
	if f.Mask != wantMask {
		t.Errorf("Mask: got %q, want %q", f.Mask, wantMask)
	}
	wantTarget := `<rect class="target" x="8" y="20" width="100.5" height="40" rx="10"></rect>`
	if f.Targets != wantTarget {
		t.Errorf("Targets: got %q, want %q", f.Targets, wantTarget)
	}
}

func TestRender_Empty(t *testing.T) {
	f := Render(nil)
	if f.Count != 0 || f.Mask != "" || f.Targets != "" {
		t.Errorf("got %+v, want empty frame", f)
	}
}

func TestProjector_RebuildsEachTime(t *testing.T) {
	s := &fakeSurface{}
	p := NewProjector(s, nil)

	p.Project([]dom.Rect{{X: 1, Y: 1, Width: 5, Height: 5}, {X: 1, Y: 10, Width: 5, Height: 5}})
	p.Project([]dom.Rect{{X: 1, Y: 1, Width: 5, Height: 5}})

	if len(s.frames) != 2 {
		t.Fatalf("frames: got %d, want 2", len(s.frames))
	}
	if got := strings.Count(s.frames[1].Mask, "<rect"); got != 1 {
		t.Errorf("second frame rects: got %d, want 1", got)
	}
	if p.Last().Count != 1 {
		t.Errorf("Last().Count: got %d, want 1", p.Last().Count)
	}
}

func TestProjector_DrawErrorIsNotFatal(t *testing.T) {
	s := &fakeSurface{err: errors.New("detached")}
	p := NewProjector(s, nil)
	f := p.Project([]dom.Rect{{Width: 1, Height: 1}})
	if f.Count != 1 {
		t.Errorf("Count: got %d, want 1", f.Count)
	}
}
