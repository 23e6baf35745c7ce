// Package machine implements the hierarchical navigation statechart as a
// pure single-step evaluator. Step has no I/O and no shared state: it takes
// the current position and context and returns the next ones. Run-to-
// completion is guaranteed because the only internally synthesized follow-up
// (emergency rejection behaving like close) is resolved by a direct call
// before Step returns.
//
// Evaluation order: global handlers first (emergency, reset), then the
// compound state's own handlers, then the active leaf. The first transition
// whose guard holds wins; a failed guard makes the event a no-op.
package machine

import (
	"github.com/aretw0/framepilot/pkg/domain"
)

// Step evaluates exactly one event against (state, context) and returns the
// resulting pair. The returned context is a whole new value committed only
// on completion, so a no-op returns the inputs unchanged.
func Step(st domain.State, fc domain.FrameContext, ev domain.Event) (domain.State, domain.FrameContext) {
	// Terminated is final: every event is a no-op, snapshots stay queryable.
	if st.Top == domain.TopTerminated {
		return st, fc
	}

	// Global handlers preempt regardless of the current nested state.
	switch ev.Type {
	case domain.EventEmergencyReceived:
		next := fc.Clone()
		switch st.Top {
		case domain.TopInactive:
			next.OriginState = domain.OriginInactive
		case domain.TopWorkMode:
			next.OriginState = domain.OriginWorkMode
		default:
			// Re-interruption while already in EmergencyMode keeps the
			// stored origin so the eventual close still lands where work
			// was left.
		}
		next.EmergencyList = append(make([]string, 0, len(ev.List)), ev.List...)
		next.EmergencyCursor = 0
		return enterEmergencyConfirm(st, next)
	case domain.EventReset:
		return enterInactive(st, domain.NewFrameContext())
	}

	switch st.Top {
	case domain.TopInactive:
		return stepInactive(st, fc, ev)
	case domain.TopWorkMode:
		return stepWorkMode(st, fc, ev)
	case domain.TopEmergencyMode:
		return stepEmergencyMode(st, fc, ev)
	}
	return st, fc
}

func stepInactive(st domain.State, fc domain.FrameContext, ev domain.Event) (domain.State, domain.FrameContext) {
	switch ev.Type {
	case domain.EventLoadList:
		return installList(st, fc.Clone(), ev)
	case domain.EventShutdown:
		return enterTerminated(st, fc.Clone())
	}
	return st, fc
}

func stepWorkMode(st domain.State, fc domain.FrameContext, ev domain.Event) (domain.State, domain.FrameContext) {
	switch ev.Type {
	case domain.EventClose:
		return enterInactive(st, fc.Clone())
	case domain.EventLoadList:
		// Same-context reload re-enters the active child with the new list;
		// cross-context load switches children. Either way the non-targeted
		// sequence and its cursor are left untouched.
		return installList(st, fc.Clone(), ev)
	case domain.EventNext, domain.EventPrevious, domain.EventSearch:
		switch st.Work {
		case domain.WorkEntity:
			if cursor, ok := moveCursor(fc.EntityList, fc.EntityCursor, ev); ok {
				next := fc.Clone()
				next.EntityCursor = cursor
				next.CurrentFrame = next.EntityList[cursor]
				return st, next
			}
		case domain.WorkGeneral:
			if cursor, ok := moveCursor(fc.GeneralList, fc.GeneralCursor, ev); ok {
				next := fc.Clone()
				next.GeneralCursor = cursor
				next.CurrentFrame = next.GeneralList[cursor]
				return st, next
			}
		}
	}
	return st, fc
}

func stepEmergencyMode(st domain.State, fc domain.FrameContext, ev domain.Event) (domain.State, domain.FrameContext) {
	// The compound state's close handler is checked before the children.
	if ev.Type == domain.EventClose {
		return closeEmergency(st, fc.Clone())
	}

	switch st.Emergency {
	case domain.EmergencyConfirm:
		if ev.Type == domain.EventEmergencyConfirmed {
			if ev.Accepted {
				return enterEmergencyDisplay(st, fc.Clone())
			}
			// Rejection behaves exactly as a close, resolved synchronously
			// via the stored origin without ever visiting Display.
			return closeEmergency(st, fc.Clone())
		}
	case domain.EmergencyDisplay:
		switch ev.Type {
		case domain.EventNext, domain.EventPrevious, domain.EventSearch:
			if cursor, ok := moveCursor(fc.EmergencyList, fc.EmergencyCursor, ev); ok {
				next := fc.Clone()
				next.EmergencyCursor = cursor
				next.CurrentFrame = next.EmergencyList[cursor]
				return st, next
			}
		}
	}
	return st, fc
}

// closeEmergency routes the return transition by the stored origin. A
// WORK_MODE origin targets WorkMode's history child, resuming the prior
// list and cursor; an INACTIVE origin targets Inactive.
func closeEmergency(st domain.State, fc domain.FrameContext) (domain.State, domain.FrameContext) {
	if fc.OriginState == domain.OriginWorkMode {
		return enterWorkChild(st, fc, st.Work)
	}
	return enterInactive(st, fc)
}

// installList replaces the targeted sequence, resets its cursor, and enters
// the matching WorkMode child. Entry actions recompute the current frame.
func installList(st domain.State, fc domain.FrameContext, ev domain.Event) (domain.State, domain.FrameContext) {
	list := append(make([]string, 0, len(ev.List)), ev.List...)
	switch ev.Context {
	case domain.ListEntity:
		fc.EntityList = list
		fc.EntityCursor = 0
		return enterWorkChild(st, fc, domain.WorkEntity)
	case domain.ListGeneral:
		fc.GeneralList = list
		fc.GeneralCursor = 0
		return enterWorkChild(st, fc, domain.WorkGeneral)
	}
	return st, fc
}

// moveCursor evaluates next/previous/search against one sequence and returns
// the new cursor. ok is false when the guard fails or the search misses, in
// which case the whole event is a no-op.
func moveCursor(list []string, cursor int, ev domain.Event) (int, bool) {
	switch ev.Type {
	case domain.EventNext:
		if cursor < len(list)-1 {
			return cursor + 1, true
		}
	case domain.EventPrevious:
		if cursor > 0 {
			return cursor - 1, true
		}
	case domain.EventSearch:
		for i, frame := range list {
			if frame == ev.FrameName {
				return i, true
			}
		}
	}
	return cursor, false
}

// -- State entry actions --

func enterInactive(st domain.State, fc domain.FrameContext) (domain.State, domain.FrameContext) {
	st.Top = domain.TopInactive
	fc.OriginState = domain.OriginInactive
	fc.DisplayContext = domain.DisplayInactive
	fc.CurrentFrame = domain.EmptyFrame
	return st, fc
}

func enterWorkChild(st domain.State, fc domain.FrameContext, child domain.WorkChild) (domain.State, domain.FrameContext) {
	st.Top = domain.TopWorkMode
	st.Work = child
	fc.OriginState = domain.OriginWorkMode
	switch child {
	case domain.WorkEntity:
		fc.DisplayContext = domain.DisplayEntity
		fc.CurrentFrame = frameAt(fc.EntityList, fc.EntityCursor)
	case domain.WorkGeneral:
		fc.DisplayContext = domain.DisplayGeneral
		fc.CurrentFrame = frameAt(fc.GeneralList, fc.GeneralCursor)
	}
	return st, fc
}

func enterEmergencyConfirm(st domain.State, fc domain.FrameContext) (domain.State, domain.FrameContext) {
	st.Top = domain.TopEmergencyMode
	st.Emergency = domain.EmergencyConfirm
	fc.DisplayContext = domain.DisplayEmergency
	fc.CurrentFrame = domain.ConfirmFrame
	return st, fc
}

func enterEmergencyDisplay(st domain.State, fc domain.FrameContext) (domain.State, domain.FrameContext) {
	st.Top = domain.TopEmergencyMode
	st.Emergency = domain.EmergencyDisplay
	fc.DisplayContext = domain.DisplayEmergency
	fc.CurrentFrame = frameAt(fc.EmergencyList, fc.EmergencyCursor)
	return st, fc
}

func enterTerminated(st domain.State, fc domain.FrameContext) (domain.State, domain.FrameContext) {
	st.Top = domain.TopTerminated
	fc.CurrentFrame = domain.EmptyFrame
	return st, fc
}

func frameAt(list []string, cursor int) string {
	if cursor < 0 || cursor >= len(list) {
		return domain.EmptyFrame
	}
	return list[cursor]
}
