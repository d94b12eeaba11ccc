package picker

import (
	"context"

	"github.com/hazyhaar/elpick/dom"
	"github.com/hazyhaar/elpick/highlight"
	"github.com/hazyhaar/elpick/tracker"
)

// Page is the document the picker runs on.
type Page interface {
	dom.Document
	// ElementFromPoint returns the topmost page element at a viewport
	// point, never the picker's own overlay. Nil when there is none.
	ElementFromPoint(x, y float64) dom.Element
}

// Overlay is the picker UI attached to the page. Its mutations on the host
// page must be additive and idempotent.
type Overlay interface {
	tracker.Passthrough
	highlight.Surface

	Mount(a Appearance) error
	SetRuleText(text string) error
	SetCreateButton(enabled bool, label string) error
	SetSelected(selected bool) error
	SetMinimized(minimized bool) error
	SetRulesBox(visible bool, label string) error
	// HideSelector injects a display:none rule for selector.
	HideSelector(selector string) error
	// Detach removes the overlay and every listener it installed.
	Detach() error
}

// Appearance is what the overlay needs to render itself on mount.
type Appearance struct {
	Theme   ThemeInfo `json:"theme"`
	Texts   Texts     `json:"texts"`
	Compact bool      `json:"compact"`
	Level   int       `json:"level"`
}

// HostBridge is the host application side of the picker.
type HostBridge interface {
	// CosmeticFilterCreate persists a filter for the current site.
	CosmeticFilterCreate(ctx context.Context, selector string) error
	// CosmeticFilterManage opens the filter management UI.
	CosmeticFilterManage(ctx context.Context) error
	ElementPickerThemeInfo(ctx context.Context) (ThemeInfo, error)
	LocalizedTexts(ctx context.Context) (Texts, error)
	// Platform names the runtime platform; "android" selects the compact
	// layout.
	Platform() string
}

// PlatformAndroid selects the compact overlay layout.
const PlatformAndroid = "android"

// ThemeInfo describes the host theme. BGColor is a 24-bit RGB value.
type ThemeInfo struct {
	IsDarkModeEnabled bool   `json:"isDarkModeEnabled" yaml:"dark_mode"`
	BGColor           uint32 `json:"bgcolor" yaml:"bgcolor"`
}

// Texts are the localized button labels.
type Texts struct {
	BtnCreateDisabledText string `json:"btnCreateDisabledText" yaml:"btn_create_disabled"`
	BtnCreateEnabledText  string `json:"btnCreateEnabledText" yaml:"btn_create_enabled"`
	BtnManageText         string `json:"btnManageText" yaml:"btn_manage"`
	BtnShowRulesBoxText   string `json:"btnShowRulesBoxText" yaml:"btn_show_rules_box"`
	BtnHideRulesBoxText   string `json:"btnHideRulesBoxText" yaml:"btn_hide_rules_box"`
	BtnQuitText           string `json:"btnQuitText" yaml:"btn_quit"`
}

// DefaultTexts are used when the host cannot provide labels.
func DefaultTexts() Texts {
	return Texts{
		BtnCreateDisabledText: "Select an element",
		BtnCreateEnabledText:  "Create",
		BtnManageText:         "Manage filters",
		BtnShowRulesBoxText:   "Show rules",
		BtnHideRulesBoxText:   "Hide rules",
		BtnQuitText:           "Quit",
	}
}

// withDefaults fills empty labels from DefaultTexts.
func (t Texts) withDefaults() Texts {
	d := DefaultTexts()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&t.BtnCreateDisabledText, d.BtnCreateDisabledText)
	fill(&t.BtnCreateEnabledText, d.BtnCreateEnabledText)
	fill(&t.BtnManageText, d.BtnManageText)
	fill(&t.BtnShowRulesBoxText, d.BtnShowRulesBoxText)
	fill(&t.BtnHideRulesBoxText, d.BtnHideRulesBoxText)
	fill(&t.BtnQuitText, d.BtnQuitText)
	return t
}
