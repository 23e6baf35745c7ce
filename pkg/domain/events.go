package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// EventType is the wire discriminant of an event. The values are fixed by
// the upstream display protocol and arrive verbatim in the JSON "type" field.
type EventType string

const (
	EventClose              EventType = "SCHLIESSEN"
	EventReset              EventType = "ZURUCKSETZEN"
	EventShutdown           EventType = "AUSSCHALTEN"
	EventNext               EventType = "NAECHSTER_FRAME"
	EventPrevious           EventType = "VORHERIGER_FRAME"
	EventSearch             EventType = "SUCHE_FRAME"
	EventEmergencyReceived  EventType = "NOTFALL_EMPFANGEN"
	EventEmergencyConfirmed EventType = "USER_BESTAETIGT_NOTFALL"
	EventLoadList           EventType = "LADE_NEUE_LISTE"
)

// ListContext selects which work sequence a LADE_NEUE_LISTE event targets.
type ListContext string

const (
	ListEntity  ListContext = "ENTITAET"
	ListGeneral ListContext = "ALLGEMEIN"
)

// Event is the tagged union dispatched to a session's machine. Only the
// fields relevant to Type carry meaning; the rest stay at their zero value.
type Event struct {
	Type EventType `json:"type" mapstructure:"type"`

	// FrameName is the exact-match search target (SUCHE_FRAME).
	FrameName string `json:"frameName,omitempty" mapstructure:"frameName"`

	// List carries the new frame sequence (NOTFALL_EMPFANGEN, LADE_NEUE_LISTE).
	List []string `json:"list,omitempty" mapstructure:"list"`

	// Accepted is the acknowledgment verdict (USER_BESTAETIGT_NOTFALL).
	Accepted bool `json:"accepted,omitempty" mapstructure:"accepted"`

	// Context selects the targeted work sequence (LADE_NEUE_LISTE).
	Context ListContext `json:"context,omitempty" mapstructure:"context"`
}

// DecodeEvent turns a raw wire object into a validated Event.
func DecodeEvent(raw map[string]any) (Event, error) {
	var ev Event
	if raw == nil {
		return ev, fmt.Errorf("missing event payload: %w", ErrInvalidArgument)
	}
	if err := mapstructure.Decode(raw, &ev); err != nil {
		return ev, fmt.Errorf("malformed event payload: %v: %w", err, ErrInvalidArgument)
	}
	if err := ev.Validate(); err != nil {
		return ev, err
	}
	return ev, nil
}

// Validate checks the discriminant and the payload constraints of the variant.
func (e Event) Validate() error {
	switch e.Type {
	case EventClose, EventReset, EventShutdown, EventNext, EventPrevious,
		EventSearch, EventEmergencyReceived, EventEmergencyConfirmed:
		return nil
	case EventLoadList:
		if e.Context != ListEntity && e.Context != ListGeneral {
			return fmt.Errorf("load list context %q must be %s or %s: %w",
				e.Context, ListEntity, ListGeneral, ErrInvalidArgument)
		}
		return nil
	case "":
		return fmt.Errorf("missing event type: %w", ErrInvalidArgument)
	default:
		return fmt.Errorf("unknown event type %q: %w", e.Type, ErrInvalidArgument)
	}
}
