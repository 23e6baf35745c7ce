/*
Package framepilot is a per-session frame navigation engine built as a
hierarchical, guarded, history-aware state machine.

Each session owns one machine that moves between four top-level states:
Inactive, WorkMode, EmergencyMode and Terminated. WorkMode carries two
child states (Entity and General), each navigating its own frame list
with an independent cursor; leaving WorkMode remembers the active child
so re-entry resumes where the user left off. An emergency interrupt is
accepted from anywhere except Terminated, runs a confirm/display flow
over its own frame list, and returns to the exact pre-interrupt position
when closed.

# Concept

The machine core (pkg/machine) is a pure function: it maps a state,
a context and an event to the next state and context, with no I/O and
no side channels. The registry (pkg/registry) owns the id to instance
mapping, serializes events per session, and projects internal state into
immutable snapshots. Adapters (HTTP, MCP, Redis mirror) sit on top of
the registry and never touch machine internals. This keeps the
navigation semantics testable in isolation and the transports thin.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/framepilot"
		"github.com/aretw0/framepilot/pkg/domain"
	)

	func main() {
		reg := framepilot.New()
		ctx := context.Background()

		if _, err := reg.Create(ctx, "session-123"); err != nil {
			log.Fatal(err)
		}

		snap, err := reg.Dispatch(ctx, "session-123", domain.Event{
			Type:    domain.EventLoadList,
			List:    []string{"frame-a", "frame-b"},
			Context: domain.ListEntity,
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(snap.CurrentState, snap.CurrentFrame)
	}

Events use their wire discriminants (LADE_NEUE_LISTE, NAECHSTER_FRAME,
NOTFALL_EMPFANGEN and so on); see pkg/domain for the full set.
*/
package framepilot
