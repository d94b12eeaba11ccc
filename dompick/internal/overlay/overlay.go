// Package overlay drives the picker UI injected into a live Chrome page: a
// shadow-root host element drawing the highlight SVG and the control panel,
// with UI events sent back through a Runtime binding.
package overlay

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/elpick/highlight"
	"github.com/hazyhaar/elpick/picker"
)

//go:embed picker.js
var pickerJS string

//go:embed picker.css
var pickerCSS string

// HostTag is the local name of the overlay host element.
const HostTag = "elpick-overlay"

// BindingName is the Runtime binding the injected script reports through.
const BindingName = "__elpick_binding"

// Overlay implements picker.Overlay on a rod page.
type Overlay struct {
	page   *rod.Page
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

var _ picker.Overlay = (*Overlay)(nil)

// New creates an overlay for page. Call Listen, then hand it to a
// picker.Session which mounts it.
func New(page *rod.Page, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Overlay{page: page, logger: logger}
}

// Mount injects the picker script and builds the UI. Mounting twice is a
// no-op in the page.
func (o *Overlay) Mount(a picker.Appearance) error {
	if _, err := o.page.Eval(pickerJS); err != nil {
		return fmt.Errorf("overlay: inject picker.js: %w", err)
	}
	if err := o.call("mount", a, pickerCSS); err != nil {
		return err
	}
	o.logger.Debug("overlay: mounted", "compact", a.Compact, "dark", a.Theme.IsDarkModeEnabled)
	return nil
}

func (o *Overlay) SetPointerEvents(enabled bool) {
	if err := o.call("setPointerEvents", enabled); err != nil {
		o.logger.Debug("overlay: set pointer events", "error", err)
	}
}

func (o *Overlay) Draw(f highlight.Frame) error {
	return o.call("draw", f.Mask, f.Targets)
}

func (o *Overlay) SetRuleText(text string) error {
	return o.call("setRuleText", text)
}

func (o *Overlay) SetCreateButton(enabled bool, label string) error {
	return o.call("setCreateButton", enabled, label)
}

func (o *Overlay) SetSelected(selected bool) error {
	return o.call("setSelected", selected)
}

func (o *Overlay) SetMinimized(minimized bool) error {
	return o.call("setMinimized", minimized)
}

func (o *Overlay) SetRulesBox(visible bool, label string) error {
	return o.call("setRulesBox", visible, label)
}

func (o *Overlay) HideSelector(selector string) error {
	return o.call("hideSelector", selector)
}

// Detach removes the UI, its listeners and the binding, and stops Listen.
func (o *Overlay) Detach() error {
	err := o.call("detach")

	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.mu.Unlock()

	if rerr := (proto.RuntimeRemoveBinding{Name: BindingName}).Call(o.page); rerr != nil {
		o.logger.Debug("overlay: remove binding", "error", rerr)
	}
	return err
}

// call invokes a method of the injected window.__elpick object. Calls made
// before mount or after detach are ignored by the page.
func (o *Overlay) call(method string, args ...any) error {
	if args == nil {
		args = []any{}
	}
	_, err := o.page.Eval(`(m, args) => {
		const p = window.__elpick;
		if (p && typeof p[m] === 'function') p[m](...args);
	}`, method, args)
	if err != nil {
		return fmt.Errorf("overlay: %s: %w", method, err)
	}
	return nil
}
