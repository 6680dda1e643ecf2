package timer

import "fmt"

// EventType tells listeners why the state changed.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventCompleted   EventType = "completed"
)

// Event is delivered to listeners after every state change.
type Event struct {
	Type  EventType
	State State
	// Ended is the mode that just finished (EventCompleted only).
	Ended Mode
}

// Message is the user-facing completion notice, empty for other events.
func (e Event) Message() string {
	if e.Type != EventCompleted {
		return ""
	}
	return fmt.Sprintf("%s finished!", e.Ended)
}
