// Package tui renders session snapshots for terminal output.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/framepilot/pkg/domain"
)

// IsTTY reports whether stdout is an interactive terminal. Plain JSON
// output is the right choice when it is not.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StateBadge colors a state path by its top-level state.
func StateBadge(statePath string) string {
	p := termenv.ColorProfile()

	color := "#94a3b8" // Inactive
	switch {
	case strings.HasPrefix(statePath, "WorkMode"):
		color = "#34d399"
	case strings.HasPrefix(statePath, "EmergencyMode"):
		color = "#f87171"
	case statePath == "Terminated":
		color = "#a78bfa"
	}
	return termenv.String(statePath).Foreground(p.Color(color)).Bold().String()
}

// SnapshotMarkdown renders one snapshot as a markdown document for the
// glamour renderer.
func SnapshotMarkdown(snap domain.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Session %s\n\n", snap.SessionID)
	fmt.Fprintf(&sb, "**State:** `%s`  \n", snap.CurrentState)
	fmt.Fprintf(&sb, "**Frame:** `%s`\n\n", snap.CurrentFrame)

	writeList := func(title string, frames []string, cursor int, active bool) {
		fmt.Fprintf(&sb, "## %s\n\n", title)
		if len(frames) == 0 {
			sb.WriteString("_empty_\n\n")
			return
		}
		for i, frame := range frames {
			marker := "-"
			if active && i == cursor {
				marker = "- **→**"
			}
			fmt.Fprintf(&sb, "%s %s\n", marker, frame)
		}
		sb.WriteString("\n")
	}

	fc := snap.Context
	writeList("Entity frames", fc.EntityList, fc.EntityCursor, fc.DisplayContext == domain.DisplayEntity)
	writeList("General frames", fc.GeneralList, fc.GeneralCursor, fc.DisplayContext == domain.DisplayGeneral)
	writeList("Emergency frames", fc.EmergencyList, fc.EmergencyCursor, fc.DisplayContext == domain.DisplayEmergency)

	return sb.String()
}
