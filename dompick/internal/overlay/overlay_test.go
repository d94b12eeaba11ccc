package overlay

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hazyhaar/elpick/dom"
	"github.com/hazyhaar/elpick/picker"
)

func TestPickerJS_Contract(t *testing.T) {
	if !strings.HasPrefix(pickerJS, "() => {") {
		t.Error("picker.js must be a function definition")
	}
	for _, want := range []string{
		BindingName,
		"'" + HostTag + "'",
		"mount(", "setPointerEvents(", "draw(", "setRuleText(", "setCreateButton(",
		"setSelected(", "setMinimized(", "setRulesBox(", "hideSelector(", "detach(",
	} {
		if !strings.Contains(pickerJS, want) {
			t.Errorf("picker.js: missing %q", want)
		}
	}
	for _, ev := range []picker.EventType{
		picker.EventPointerMove, picker.EventClick, picker.EventSlider, picker.EventRuleText,
		picker.EventCreate, picker.EventManage, picker.EventToggleRules, picker.EventMinimize,
		picker.EventMaximize, picker.EventKey, picker.EventLayout, picker.EventQuit,
	} {
		if !strings.Contains(pickerJS, "'"+string(ev)+"'") {
			t.Errorf("picker.js: never sends %q", ev)
		}
	}
}

func TestPickerJS_AppearanceFields(t *testing.T) {
	a := picker.Appearance{Texts: picker.DefaultTexts()}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, ref := range []string{"a.theme.bgcolor", "a.theme.isDarkModeEnabled", "a.compact", "a.level",
		"a.texts.btnQuitText", "a.texts.btnManageText", "a.texts.btnShowRulesBoxText", "a.texts.btnCreateDisabledText"} {
		if !strings.Contains(pickerJS, ref) {
			t.Errorf("picker.js: missing %q", ref)
		}
		top := strings.Split(ref, ".")[1]
		if _, ok := fields[top]; !ok {
			t.Errorf("appearance JSON has no %q field", top)
		}
	}
}

func TestPickerCSS(t *testing.T) {
	for _, want := range []string{":host(.passthrough) { pointer-events: none !important; }", ".cuts rect", ".targets rect", ":host(.compact)", ":host(.minimized)"} {
		if !strings.Contains(pickerCSS, want) {
			t.Errorf("picker.css: missing %q", want)
		}
	}
}

func TestPickerJS_PassthroughInline(t *testing.T) {
	if !strings.Contains(pickerJS, `host.style.setProperty('pointer-events', enabled ? 'auto' : 'none', 'important')`) {
		t.Error("picker.js: setPointerEvents does not force pointer-events inline")
	}
}

func TestDecodeRect(t *testing.T) {
	got := decodeRect(`{"x":24,"y":60.5,"width":952,"height":20}`)
	want := dom.Rect{X: 24, Y: 60.5, Width: 952, Height: 20}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if r := decodeRect(`null`); !r.Empty() {
		t.Errorf("null: got %+v", r)
	}
	if r := decodeRect(`garbage`); r != (dom.Rect{}) {
		t.Errorf("garbage: got %+v", r)
	}
}
