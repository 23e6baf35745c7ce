package machine_test

import (
	"testing"

	"github.com/aretw0/framepilot/pkg/domain"
	"github.com/aretw0/framepilot/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEntity(frames ...string) domain.Event {
	return domain.Event{Type: domain.EventLoadList, List: frames, Context: domain.ListEntity}
}

func loadGeneral(frames ...string) domain.Event {
	return domain.Event{Type: domain.EventLoadList, List: frames, Context: domain.ListGeneral}
}

// run dispatches a series of events from the initial position.
func run(events ...domain.Event) (domain.State, domain.FrameContext) {
	st, fc := domain.Initial(), domain.NewFrameContext()
	for _, ev := range events {
		st, fc = machine.Step(st, fc, ev)
	}
	return st, fc
}

func TestInitialPosition(t *testing.T) {
	st, fc := domain.Initial(), domain.NewFrameContext()

	assert.Equal(t, "Inactive", st.Path())
	assert.Equal(t, domain.EmptyFrame, fc.CurrentFrame)
	assert.Equal(t, domain.DisplayInactive, fc.DisplayContext)
	assert.Zero(t, fc.EntityCursor)
	assert.Zero(t, fc.GeneralCursor)
	assert.Zero(t, fc.EmergencyCursor)
}

func TestLoadListEntersWorkMode(t *testing.T) {
	st, fc := run(loadEntity("E1", "E2", "E3"))

	assert.Equal(t, "WorkMode/Entity", st.Path())
	assert.Equal(t, "E1", fc.CurrentFrame)
	assert.Equal(t, domain.DisplayEntity, fc.DisplayContext)
	assert.Equal(t, domain.OriginWorkMode, fc.OriginState)
}

func TestLoadEmptyListShowsEmptyFrame(t *testing.T) {
	st, fc := run(loadGeneral())

	assert.Equal(t, "WorkMode/General", st.Path())
	assert.Equal(t, domain.EmptyFrame, fc.CurrentFrame)
}

func TestNextStopsAtUpperBound(t *testing.T) {
	st, fc := domain.Initial(), domain.NewFrameContext()
	st, fc = machine.Step(st, fc, loadEntity("E1", "E2", "E3"))

	cursors := []int{}
	for i := 0; i < 3; i++ {
		st, fc = machine.Step(st, fc, domain.Event{Type: domain.EventNext})
		cursors = append(cursors, fc.EntityCursor)
	}

	assert.Equal(t, []int{1, 2, 2}, cursors)
	assert.Equal(t, "E3", fc.CurrentFrame)
	assert.Equal(t, "WorkMode/Entity", st.Path())
}

func TestPreviousAtZeroIsNoOp(t *testing.T) {
	before, beforeCtx := run(loadEntity("E1", "E2"))
	after, afterCtx := machine.Step(before, beforeCtx, domain.Event{Type: domain.EventPrevious})

	assert.Equal(t, before, after)
	assert.Equal(t, beforeCtx, afterCtx)
}

func TestSearchHitAndMiss(t *testing.T) {
	st, fc := run(loadEntity("E1", "E2", "E3"))

	st, fc = machine.Step(st, fc, domain.Event{Type: domain.EventSearch, FrameName: "E2"})
	assert.Equal(t, 1, fc.EntityCursor)
	assert.Equal(t, "E2", fc.CurrentFrame)

	missSt, missCtx := machine.Step(st, fc, domain.Event{Type: domain.EventSearch, FrameName: "ZZZ"})
	assert.Equal(t, st, missSt)
	assert.Equal(t, fc, missCtx)
}

func TestEmergencyInterruptAndResume(t *testing.T) {
	st, fc := run(
		loadEntity("E1", "E2", "E3"),
		domain.Event{Type: domain.EventNext}, // cursor 1, frame E2
	)

	st, fc = machine.Step(st, fc, domain.Event{Type: domain.EventEmergencyReceived, List: []string{"A1", "A2"}})
	require.Equal(t, "EmergencyMode/Confirm", st.Path())
	assert.Equal(t, domain.ConfirmFrame, fc.CurrentFrame)
	assert.Equal(t, domain.OriginWorkMode, fc.OriginState)
	assert.Equal(t, domain.DisplayEmergency, fc.DisplayContext)

	st, fc = machine.Step(st, fc, domain.Event{Type: domain.EventEmergencyConfirmed, Accepted: true})
	require.Equal(t, "EmergencyMode/Display", st.Path())
	assert.Equal(t, "A1", fc.CurrentFrame)

	st, fc = machine.Step(st, fc, domain.Event{Type: domain.EventClose})
	assert.Equal(t, "WorkMode/Entity", st.Path())
	assert.Equal(t, 1, fc.EntityCursor)
	assert.Equal(t, "E2", fc.CurrentFrame)
}

func TestEmergencyRejectFromInactive(t *testing.T) {
	st, fc := run(
		domain.Event{Type: domain.EventEmergencyReceived, List: []string{"A1"}},
		domain.Event{Type: domain.EventEmergencyConfirmed, Accepted: false},
	)

	// Reject resolves via the stored origin without ever visiting Display.
	assert.Equal(t, "Inactive", st.Path())
	assert.Equal(t, domain.EmptyFrame, fc.CurrentFrame)
	assert.Equal(t, domain.DisplayInactive, fc.DisplayContext)
}

func TestEmergencyPreservesHistoryChild(t *testing.T) {
	st, fc := run(
		loadEntity("E1", "E2"),
		loadGeneral("G1", "G2", "G3"),
		domain.Event{Type: domain.EventNext}, // General cursor 1
		domain.Event{Type: domain.EventEmergencyReceived, List: []string{"A1"}},
		domain.Event{Type: domain.EventEmergencyConfirmed, Accepted: true},
		domain.Event{Type: domain.EventClose},
	)

	assert.Equal(t, "WorkMode/General", st.Path())
	assert.Equal(t, 1, fc.GeneralCursor)
	assert.Equal(t, "G2", fc.CurrentFrame)
	// Entity side untouched by the whole excursion.
	assert.Equal(t, []string{"E1", "E2"}, fc.EntityList)
	assert.Zero(t, fc.EntityCursor)
}

func TestEmergencyNavigation(t *testing.T) {
	st, fc := run(
		domain.Event{Type: domain.EventEmergencyReceived, List: []string{"A1", "A2", "A3"}},
		domain.Event{Type: domain.EventEmergencyConfirmed, Accepted: true},
		domain.Event{Type: domain.EventNext},
		domain.Event{Type: domain.EventSearch, FrameName: "A3"},
	)

	assert.Equal(t, "EmergencyMode/Display", st.Path())
	assert.Equal(t, 2, fc.EmergencyCursor)
	assert.Equal(t, "A3", fc.CurrentFrame)
}

func TestNavigationIsNoOpInConfirm(t *testing.T) {
	before, beforeCtx := run(domain.Event{Type: domain.EventEmergencyReceived, List: []string{"A1", "A2"}})

	st, fc := machine.Step(before, beforeCtx, domain.Event{Type: domain.EventNext})
	assert.Equal(t, before, st)
	assert.Equal(t, beforeCtx, fc)
}

func TestResetFromAnywhere(t *testing.T) {
	st, fc := run(
		loadEntity("E1", "E2"),
		domain.Event{Type: domain.EventEmergencyReceived, List: []string{"A1"}},
		domain.Event{Type: domain.EventEmergencyConfirmed, Accepted: true},
		domain.Event{Type: domain.EventReset},
	)

	assert.Equal(t, "Inactive", st.Path())
	assert.Empty(t, fc.EntityList)
	assert.Empty(t, fc.GeneralList)
	assert.Empty(t, fc.EmergencyList)
	assert.Zero(t, fc.EntityCursor)
	assert.Zero(t, fc.GeneralCursor)
	assert.Zero(t, fc.EmergencyCursor)
	assert.Equal(t, domain.EmptyFrame, fc.CurrentFrame)
}

func TestSameContextReloadResetsOnlyTarget(t *testing.T) {
	st, fc := run(
		loadEntity("E1", "E2", "E3"),
		loadGeneral("G1", "G2"),
		domain.Event{Type: domain.EventNext}, // General cursor 1
		loadGeneral("H1", "H2", "H3"),
	)

	assert.Equal(t, "WorkMode/General", st.Path())
	assert.Equal(t, []string{"H1", "H2", "H3"}, fc.GeneralList)
	assert.Zero(t, fc.GeneralCursor)
	assert.Equal(t, "H1", fc.CurrentFrame)
	// Non-targeted sequence and cursor stay untouched.
	assert.Equal(t, []string{"E1", "E2", "E3"}, fc.EntityList)
	assert.Zero(t, fc.EntityCursor)
}

func TestCrossContextLoadSwitchesChild(t *testing.T) {
	st, fc := run(
		loadGeneral("G1"),
		loadEntity("E1", "E2"),
	)

	assert.Equal(t, "WorkMode/Entity", st.Path())
	assert.Equal(t, "E1", fc.CurrentFrame)
	assert.Equal(t, domain.DisplayEntity, fc.DisplayContext)
}

func TestCloseFromWorkMode(t *testing.T) {
	st, fc := run(loadEntity("E1"), domain.Event{Type: domain.EventClose})

	assert.Equal(t, "Inactive", st.Path())
	assert.Equal(t, domain.EmptyFrame, fc.CurrentFrame)
	// The list itself survives; only the display is cleared.
	assert.Equal(t, []string{"E1"}, fc.EntityList)
}

func TestShutdownTerminates(t *testing.T) {
	st, fc := run(domain.Event{Type: domain.EventShutdown})
	require.Equal(t, "Terminated", st.Path())
	assert.Equal(t, domain.EmptyFrame, fc.CurrentFrame)

	// Terminated accepts no further events, not even global ones.
	for _, ev := range []domain.Event{
		{Type: domain.EventReset},
		{Type: domain.EventEmergencyReceived, List: []string{"A1"}},
		{Type: domain.EventNext},
		loadEntity("E1"),
	} {
		nextSt, nextCtx := machine.Step(st, fc, ev)
		assert.Equal(t, st, nextSt, "event %s", ev.Type)
		assert.Equal(t, fc, nextCtx, "event %s", ev.Type)
	}
}

func TestShutdownOnlyHandledInInactive(t *testing.T) {
	st, _ := run(loadEntity("E1"), domain.Event{Type: domain.EventShutdown})
	assert.Equal(t, "WorkMode/Entity", st.Path())
}

func TestNestedEmergencyKeepsOrigin(t *testing.T) {
	st, fc := run(
		domain.Event{Type: domain.EventEmergencyReceived, List: []string{"A1"}},
		domain.Event{Type: domain.EventEmergencyConfirmed, Accepted: true},
		// Second alert arrives while the first is still displayed.
		domain.Event{Type: domain.EventEmergencyReceived, List: []string{"B1", "B2"}},
	)

	require.Equal(t, "EmergencyMode/Confirm", st.Path())
	assert.Equal(t, []string{"B1", "B2"}, fc.EmergencyList)
	assert.Zero(t, fc.EmergencyCursor)
	// Origin was Inactive before the first interruption and must survive.
	assert.Equal(t, domain.OriginInactive, fc.OriginState)

	st, fc = machine.Step(st, fc, domain.Event{Type: domain.EventClose})
	assert.Equal(t, "Inactive", st.Path())
}

func TestStepDoesNotAliasCallerSlices(t *testing.T) {
	frames := []string{"E1", "E2"}
	_, fc := run(domain.Event{Type: domain.EventLoadList, List: frames, Context: domain.ListEntity})

	frames[0] = "MUTATED"
	assert.Equal(t, "E1", fc.EntityList[0])
}
