package domain

// TopState is the top level of the statechart.
type TopState string

const (
	TopInactive      TopState = "Inactive"
	TopWorkMode      TopState = "WorkMode"
	TopEmergencyMode TopState = "EmergencyMode"
	TopTerminated    TopState = "Terminated"
)

// WorkChild is a child of the WorkMode compound state.
type WorkChild string

const (
	WorkEntity  WorkChild = "Entity"
	WorkGeneral WorkChild = "General"
)

// EmergencyChild is a child of the EmergencyMode compound state.
type EmergencyChild string

const (
	EmergencyConfirm EmergencyChild = "Confirm"
	EmergencyDisplay EmergencyChild = "Display"
)

// State is the explicit, tagged representation of the statechart position.
// Work always holds the last active WorkMode child, so it doubles as the
// shallow history slot: when EmergencyMode hands control back, re-entry
// resumes whichever child is recorded here.
type State struct {
	Top       TopState       `json:"top"`
	Work      WorkChild      `json:"work"`
	Emergency EmergencyChild `json:"emergency"`
}

// Initial is the machine's starting position.
func Initial() State {
	return State{
		Top:       TopInactive,
		Work:      WorkEntity,
		Emergency: EmergencyConfirm,
	}
}

// Path renders the position as a structured path, e.g. "WorkMode/Entity".
// Leaf top-level states render as their bare name.
func (s State) Path() string {
	switch s.Top {
	case TopWorkMode:
		return string(TopWorkMode) + "/" + string(s.Work)
	case TopEmergencyMode:
		return string(TopEmergencyMode) + "/" + string(s.Emergency)
	default:
		return string(s.Top)
	}
}
