package domain

// DisplayContext identifies which frame sequence currently feeds CurrentFrame.
type DisplayContext string

const (
	DisplayEntity    DisplayContext = "ENTITY"
	DisplayGeneral   DisplayContext = "GENERAL"
	DisplayEmergency DisplayContext = "EMERGENCY"
	DisplayInactive  DisplayContext = "INACTIVE"
)

// OriginState records which top-level mode was active immediately before the
// most recent emergency interruption. It routes the return transition when
// the emergency is closed or rejected.
type OriginState string

const (
	OriginInactive OriginState = "INACTIVE"
	OriginWorkMode OriginState = "WORK_MODE"
)

// Sentinel frames. EmptyFrame means there is nothing to show; ConfirmFrame
// means the machine is waiting for an emergency acknowledgment.
const (
	EmptyFrame   = "EMPTY_FRAME"
	ConfirmFrame = "CONFIRM_FRAME"
)

// FrameContext is the mutable context owned exclusively by one machine
// instance. Cursors satisfy 0 <= cursor < len(list) when the list is
// non-empty and are 0 when it is empty. CurrentFrame is always derived from
// (DisplayContext, cursors, lists) by state entry actions; it is never set
// independently of a transition.
type FrameContext struct {
	EntityList    []string `json:"entityList"`
	GeneralList   []string `json:"generalList"`
	EmergencyList []string `json:"emergencyList"`

	EntityCursor    int `json:"entityCursor"`
	GeneralCursor   int `json:"generalCursor"`
	EmergencyCursor int `json:"emergencyCursor"`

	DisplayContext DisplayContext `json:"displayContext"`
	CurrentFrame   string         `json:"currentFrame"`
	OriginState    OriginState    `json:"originState"`
}

// NewFrameContext returns the default context: empty lists, zero cursors,
// inactive display, empty frame.
func NewFrameContext() FrameContext {
	return FrameContext{
		EntityList:     []string{},
		GeneralList:    []string{},
		EmergencyList:  []string{},
		DisplayContext: DisplayInactive,
		CurrentFrame:   EmptyFrame,
		OriginState:    OriginInactive,
	}
}

// Clone returns a deep copy so callers can hand the context across an API
// boundary without aliasing the machine's own slices.
func (c FrameContext) Clone() FrameContext {
	next := c
	next.EntityList = copyList(c.EntityList)
	next.GeneralList = copyList(c.GeneralList)
	next.EmergencyList = copyList(c.EmergencyList)
	return next
}

// copyList never returns nil, so empty lists serialize as [] rather than null.
func copyList(src []string) []string {
	return append(make([]string, 0, len(src)), src...)
}
