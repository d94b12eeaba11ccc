package picker

import (
	"encoding/json"
	"fmt"
)

// EventType names a UI event sent by the overlay.
type EventType string

const (
	EventPointerMove EventType = "pointermove"
	EventClick       EventType = "click"
	EventSelect      EventType = "select"
	EventSlider      EventType = "slider"
	EventRuleText    EventType = "ruletext"
	EventCreate      EventType = "create"
	EventManage      EventType = "manage"
	EventToggleRules EventType = "toggle_rules"
	EventMinimize    EventType = "minimize"
	EventMaximize    EventType = "maximize"
	EventKey         EventType = "key"
	// EventLayout reports scroll, resize or a DOM mutation.
	EventLayout EventType = "layout"
	EventQuit   EventType = "quit"
)

// KeyEscape tears the picker down from any state.
const KeyEscape = "Escape"

// Event is one UI event. Only the fields relevant to Type are set.
type Event struct {
	Type  EventType `json:"type"`
	X     float64   `json:"x,omitempty"`
	Y     float64   `json:"y,omitempty"`
	Level int       `json:"level,omitempty"`
	Text  string    `json:"text,omitempty"`
	Key   string    `json:"key,omitempty"`
}

// ParseEvent decodes an event sent through the page binding.
func ParseEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("picker: parse event: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("picker: parse event: missing type")
	}
	return ev, nil
}
