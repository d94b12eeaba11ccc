package tracker

import (
	"testing"

	"github.com/hazyhaar/elpick/dom"
	"github.com/hazyhaar/elpick/dom/htmldoc"
)

type recordingOverlay struct {
	calls []bool
}

func (r *recordingOverlay) SetPointerEvents(enabled bool) { r.calls = append(r.calls, enabled) }

func setup(t *testing.T) (*htmldoc.Document, []dom.Element) {
	t.Helper()
	d, err := htmldoc.ParseString(`<body><p>a</p><p>b</p><p>c</p></body>`)
	if err != nil {
		t.Fatal(err)
	}
	els, err := d.QuerySelectorAll("p")
	if err != nil {
		t.Fatal(err)
	}
	return d, els
}

func TestReset_ComputesRects(t *testing.T) {
	_, els := setup(t)
	ov := &recordingOverlay{}
	c := New(WithOverlay(ov))

	c.Reset(append(els, nil))
	if c.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", c.Len())
	}
	for i, tg := range c.Targets() {
		if !tg.Live() {
			t.Errorf("target %d: empty rect %+v", i, tg.Rect())
		}
	}
	if len(ov.calls) != 2 || ov.calls[0] || !ov.calls[1] {
		t.Errorf("pointer events: got %v, want [false true]", ov.calls)
	}
}

func TestForceRecalcCoords_PrunesDetached(t *testing.T) {
	d, els := setup(t)
	toggles := 0
	c := New(OnToggle(func(bool) { toggles++ }))
	c.Reset(els)

	d.Remove(els[1])
	c.ForceRecalcCoords()

	if c.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", c.Len())
	}
	if c.Targets()[1].Element() != els[2] {
		t.Error("order not preserved after pruning")
	}
	if toggles != 0 {
		t.Errorf("toggles: got %d, want 0", toggles)
	}
}

func TestForceRecalcCoords_TogglesOnceWhenEmptied(t *testing.T) {
	d, els := setup(t)
	var got []bool
	c := New(OnToggle(func(on bool) { got = append(got, on) }))
	c.Reset(els)

	for _, el := range els {
		d.Remove(el)
	}
	c.ForceRecalcCoords()
	if len(got) != 1 || got[0] {
		t.Fatalf("toggle calls: got %v, want [false]", got)
	}

	// already empty: nothing left to prune, nothing to notify
	c.ForceRecalcCoords()
	if len(got) != 1 {
		t.Errorf("toggle calls after second recompute: got %d, want 1", len(got))
	}
}

func TestForceRecalcCoords_FollowsLayout(t *testing.T) {
	d, els := setup(t)
	c := New()
	c.Reset(els[2:])
	before := c.Targets()[0].Rect()

	d.Remove(els[0])
	if c.Targets()[0].Rect() != before {
		t.Error("rect refreshed implicitly")
	}
	c.ForceRecalcCoords()
	if after := c.Targets()[0].Rect(); after.Y >= before.Y {
		t.Errorf("rect Y: got %v, want less than %v", after.Y, before.Y)
	}
}

func TestWithPassthrough_RestoresOnPanic(t *testing.T) {
	ov := &recordingOverlay{}
	func() {
		defer func() { _ = recover() }()
		WithPassthrough(ov, func() { panic("boom") })
	}()
	if len(ov.calls) != 2 || !ov.calls[1] {
		t.Errorf("pointer events: got %v, want [false true]", ov.calls)
	}
}
