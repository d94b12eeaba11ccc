// Package picker implements the interactive element picker: hover to target,
// click to select, narrow or widen with the specificity slider, edit the rule
// by hand, then create a cosmetic filter or quit.
//
// A Session owns all picker state for one page. It is single-threaded: Run
// is the only goroutine that should call into it once started.
package picker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/elpick/dom"
	"github.com/hazyhaar/elpick/highlight"
	"github.com/hazyhaar/elpick/selector"
	"github.com/hazyhaar/elpick/synth"
	"github.com/hazyhaar/elpick/tracker"
)

// Config tunes a Session.
type Config struct {
	// Debounce delays re-querying after a manual rule edit. Default: 700ms.
	Debounce time.Duration `yaml:"debounce"`
	// FrameInterval coalesces layout recomputation. Default: 16ms.
	FrameInterval time.Duration `yaml:"frame_interval"`
	// DefaultLevel is the initial slider level, 1..4. Default: 4.
	DefaultLevel int `yaml:"default_level"`
}

func (c *Config) defaults() {
	if c.Debounce <= 0 {
		c.Debounce = 700 * time.Millisecond
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = 16 * time.Millisecond
	}
	if c.DefaultLevel == 0 {
		c.DefaultLevel = selector.DefaultLevel
	}
	c.DefaultLevel = selector.ClampLevel(c.DefaultLevel)
}

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseHovering
	PhaseSelectedPreview
	PhaseManualEdit
	PhaseQuit
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseHovering:
		return "hovering"
	case PhaseSelectedPreview:
		return "selected"
	case PhaseManualEdit:
		return "manual_edit"
	case PhaseQuit:
		return "quit"
	}
	return "unknown"
}

// State is a snapshot of the session state.
type State struct {
	Phase         Phase
	Hovered       dom.Element
	Selected      bool
	Level         int
	Minimized     bool
	RulesBox      bool
	RuleText      string
	CreateEnabled bool
	Attached      bool
	Highlighted   int
}

// Session is one picker attached to one page.
type Session struct {
	page    Page
	overlay Overlay
	bridge  HostBridge
	logger  *slog.Logger
	cfg     Config

	targets   *tracker.Collection
	projector *highlight.Projector
	texts     Texts

	hovered       dom.Element
	selected      bool
	manualEdit    bool
	level         int
	minimized     bool
	rulesBox      bool
	ruleText      string
	createEnabled bool
	attached      bool

	debounce *debouncer
	frame    *debouncer
	done     chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig sets timing and slider defaults.
func WithConfig(cfg Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// NewSession creates a detached session. Call Attach before sending events.
func NewSession(page Page, overlay Overlay, bridge HostBridge, opts ...Option) *Session {
	s := &Session{
		page:    page,
		overlay: overlay,
		bridge:  bridge,
		logger:  slog.Default(),
		texts:   DefaultTexts(),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.cfg.defaults()
	s.level = s.cfg.DefaultLevel
	s.debounce = newDebouncer(s.cfg.Debounce)
	s.frame = newFrameClock(s.cfg.FrameInterval)
	s.targets = tracker.New(tracker.WithOverlay(overlay), tracker.OnToggle(s.togglePicker))
	s.projector = highlight.NewProjector(overlay, s.logger)
	return s
}

// Attach loads theme and labels from the host and mounts the overlay.
// Host failures fall back to defaults; only a mount failure is returned.
func (s *Session) Attach(ctx context.Context) error {
	if s.attached {
		return nil
	}
	select {
	case <-s.done:
		return fmt.Errorf("picker: attach: session already torn down")
	default:
	}

	theme, err := s.bridge.ElementPickerThemeInfo(ctx)
	if err != nil {
		s.logger.Warn("picker: theme info unavailable", "error", err)
		theme = ThemeInfo{BGColor: 0xffffff}
	}
	texts, err := s.bridge.LocalizedTexts(ctx)
	if err != nil {
		s.logger.Warn("picker: localized texts unavailable", "error", err)
	}
	s.texts = texts.withDefaults()

	a := Appearance{
		Theme:   theme,
		Texts:   s.texts,
		Compact: s.bridge.Platform() == PlatformAndroid,
		Level:   s.level,
	}
	if err := s.overlay.Mount(a); err != nil {
		return fmt.Errorf("picker: mount overlay: %w", err)
	}
	s.attached = true
	s.setCreate(false)
	s.logger.Debug("picker: attached", "level", s.level, "compact", a.Compact)
	return nil
}

// Done is closed when the session is torn down.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns a snapshot of the session state.
func (s *Session) State() State {
	return State{
		Phase:         s.phase(),
		Hovered:       s.hovered,
		Selected:      s.selected,
		Level:         s.level,
		Minimized:     s.minimized,
		RulesBox:      s.rulesBox,
		RuleText:      s.ruleText,
		CreateEnabled: s.createEnabled,
		Attached:      s.attached,
		Highlighted:   s.targets.Len(),
	}
}

// Highlighted returns the elements currently highlighted.
func (s *Session) Highlighted() []dom.Element {
	ts := s.targets.Targets()
	out := make([]dom.Element, len(ts))
	for i, t := range ts {
		out[i] = t.Element()
	}
	return out
}

func (s *Session) phase() Phase {
	switch {
	case !s.attached:
		select {
		case <-s.done:
			return PhaseQuit
		default:
			return PhaseIdle
		}
	case s.manualEdit:
		return PhaseManualEdit
	case s.selected:
		return PhaseSelectedPreview
	case s.hovered != nil:
		return PhaseHovering
	}
	return PhaseIdle
}

// Handle applies one event. Events after teardown are ignored.
func (s *Session) Handle(ctx context.Context, ev Event) {
	if !s.attached {
		return
	}
	switch ev.Type {
	case EventPointerMove:
		if !s.selected {
			s.hover(ev.X, ev.Y)
		}
	case EventClick:
		if el := s.hitTest(ev.X, ev.Y); el != nil {
			s.hovered = el
			s.dispatchSelect()
		}
	case EventSelect:
		s.dispatchSelect()
	case EventSlider:
		s.level = selector.ClampLevel(ev.Level)
		if s.hovered != nil {
			s.dispatchSelect()
		}
	case EventRuleText:
		s.ruleText = ev.Text
		s.manualEdit = true
		s.debounce.arm()
	case EventCreate:
		s.create(ctx)
	case EventManage:
		if err := s.bridge.CosmeticFilterManage(ctx); err != nil {
			s.logger.Warn("picker: manage filters", "error", err)
		}
	case EventToggleRules:
		s.rulesBox = !s.rulesBox
		label := s.texts.BtnShowRulesBoxText
		if s.rulesBox {
			label = s.texts.BtnHideRulesBoxText
		}
		s.try("set rules box", s.overlay.SetRulesBox(s.rulesBox, label))
	case EventMinimize:
		s.setMinimized(true)
	case EventMaximize:
		s.setMinimized(false)
	case EventKey:
		if ev.Key == KeyEscape {
			s.Teardown()
		}
	case EventLayout:
		s.frame.arm()
	case EventQuit:
		s.Teardown()
	default:
		s.logger.Debug("picker: unknown event", "type", ev.Type)
	}
}

// FlushRuleText previews the manually edited rule text verbatim. Invalid
// selectors leave the highlight untouched and disable create. A call after
// teardown is a no-op.
func (s *Session) FlushRuleText() {
	s.debounce.stop()
	if !s.attached {
		return
	}
	text := s.ruleText
	if strings.TrimSpace(text) == "" {
		s.setCreate(false)
		return
	}
	els, err := s.page.QuerySelectorAll(text)
	if err != nil {
		s.logger.Debug("picker: rule text rejected", "selector", text, "error", err)
		s.setCreate(false)
		return
	}
	if len(els) > 0 && !s.selected {
		s.selected = true
		s.try("set selected", s.overlay.SetSelected(true))
	}
	s.show(els)
	s.setCreate(true)
}

// Recalc recomputes target rects after a layout change and redraws.
func (s *Session) Recalc() {
	s.frame.stop()
	if !s.attached {
		return
	}
	s.targets.ForceRecalcCoords()
	s.project()
}

// Teardown detaches the overlay and stops all timers. It is idempotent.
func (s *Session) Teardown() {
	if !s.attached {
		return
	}
	s.attached = false
	s.debounce.stop()
	s.frame.stop()
	s.targets.Clear()
	s.hovered = nil
	if err := s.overlay.Detach(); err != nil {
		s.logger.Warn("picker: detach overlay", "error", err)
	}
	close(s.done)
	s.logger.Debug("picker: torn down")
}

func (s *Session) hover(x, y float64) {
	el := s.hitTest(x, y)
	if el == nil || dom.Same(el, s.hovered) {
		return
	}
	s.hovered = el
	s.targets.Reset([]dom.Element{el})
	s.project()
}

// dispatchSelect synthesizes a selector for the hovered element at the
// current level, highlights everything it matches and mirrors it into the
// rule text.
func (s *Session) dispatchSelect() {
	s.manualEdit = false
	s.debounce.stop()
	if s.hovered == nil {
		s.setCreate(false)
		return
	}

	sel := synth.ResolveLevel(s.page, s.hovered, s.level)
	s.setRuleText(sel)
	if sel == "" {
		s.setCreate(false)
		return
	}
	els, err := s.page.QuerySelectorAll(sel)
	if err != nil {
		s.logger.Debug("picker: synthesized selector rejected", "selector", sel, "error", err)
		s.setCreate(false)
		return
	}

	if !s.selected {
		s.selected = true
		s.try("set selected", s.overlay.SetSelected(true))
	}
	s.show(els)
	s.setCreate(true)
	s.logger.Debug("picker: dispatch select", "selector", sel, "level", s.level, "matches", len(els))
}

func (s *Session) create(ctx context.Context) {
	// the button state lags an edit until its preview runs
	if s.debounce.pending() {
		s.FlushRuleText()
	}
	if !s.createEnabled {
		return
	}
	sel := s.ruleText
	if err := s.bridge.CosmeticFilterCreate(ctx, sel); err != nil {
		s.logger.Warn("picker: create filter", "selector", sel, "error", err)
	}
	s.try("hide selector", s.overlay.HideSelector(sel))
	s.logger.Info("picker: filter created", "selector", sel)
	s.Teardown()
}

// togglePicker is the tracker callback fired when every target vanished.
func (s *Session) togglePicker(on bool) {
	if on || !s.selected {
		return
	}
	s.selected = false
	s.manualEdit = false
	s.try("set selected", s.overlay.SetSelected(false))
	s.setCreate(false)
}

func (s *Session) hitTest(x, y float64) dom.Element {
	var el dom.Element
	tracker.WithPassthrough(s.overlay, func() {
		el = s.page.ElementFromPoint(x, y)
	})
	return el
}

func (s *Session) show(els []dom.Element) {
	s.targets.Reset(els)
	s.project()
}

func (s *Session) project() {
	s.projector.Project(s.targets.Rects())
}

func (s *Session) setRuleText(text string) {
	s.ruleText = text
	s.try("set rule text", s.overlay.SetRuleText(text))
}

func (s *Session) setCreate(enabled bool) {
	s.createEnabled = enabled
	label := s.texts.BtnCreateDisabledText
	if enabled {
		label = s.texts.BtnCreateEnabledText
	}
	s.try("set create button", s.overlay.SetCreateButton(enabled, label))
}

func (s *Session) setMinimized(v bool) {
	if s.minimized == v {
		return
	}
	s.minimized = v
	s.try("set minimized", s.overlay.SetMinimized(v))
}

// try logs overlay failures; they never abort a session.
func (s *Session) try(op string, err error) {
	if err != nil {
		s.logger.Debug("picker: overlay "+op, "error", err)
	}
}
