// Package graph renders the navigation statechart as Mermaid syntax.
package graph

import (
	"fmt"
	"strings"
)

// edge is one labeled transition in the statechart diagram.
type edge struct {
	from, label, to string
}

// The statechart topology is fixed; only the overlay varies per session.
var (
	nodes = []string{
		"Inactive",
		"WorkMode_Entity",
		"WorkMode_General",
		"EmergencyMode_Confirm",
		"EmergencyMode_Display",
		"Terminated",
	}

	labels = map[string]string{
		"Inactive":              "Inactive",
		"WorkMode_Entity":       "WorkMode / Entity",
		"WorkMode_General":      "WorkMode / General",
		"EmergencyMode_Confirm": "EmergencyMode / Confirm",
		"EmergencyMode_Display": "EmergencyMode / Display",
		"Terminated":            "Terminated",
	}

	edges = []edge{
		{"Inactive", "LADE_NEUE_LISTE (ENTITAET)", "WorkMode_Entity"},
		{"Inactive", "LADE_NEUE_LISTE (ALLGEMEIN)", "WorkMode_General"},
		{"Inactive", "AUSSCHALTEN", "Terminated"},
		{"WorkMode_Entity", "LADE_NEUE_LISTE (ALLGEMEIN)", "WorkMode_General"},
		{"WorkMode_General", "LADE_NEUE_LISTE (ENTITAET)", "WorkMode_Entity"},
		{"WorkMode_Entity", "SCHLIESSEN", "Inactive"},
		{"WorkMode_General", "SCHLIESSEN", "Inactive"},
		{"Inactive", "NOTFALL_EMPFANGEN", "EmergencyMode_Confirm"},
		{"WorkMode_Entity", "NOTFALL_EMPFANGEN", "EmergencyMode_Confirm"},
		{"WorkMode_General", "NOTFALL_EMPFANGEN", "EmergencyMode_Confirm"},
		{"EmergencyMode_Confirm", "USER_BESTAETIGT_NOTFALL (accepted)", "EmergencyMode_Display"},
		{"EmergencyMode_Confirm", "USER_BESTAETIGT_NOTFALL (rejected)", "Inactive"},
		{"EmergencyMode_Display", "SCHLIESSEN", "Inactive"},
	}
)

// GenerateMermaid produces the statechart as Mermaid flowchart syntax.
// A non-empty currentState (slash-joined path, e.g. "WorkMode/Entity")
// highlights that node.
func GenerateMermaid(currentState string) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range nodes {
		opener, closer := "[", "]"
		switch id {
		case "Inactive":
			opener, closer = "((", "))" // Circle: initial state
		case "Terminated":
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, labels[id], closer)
	}

	for _, e := range edges {
		arrow := fmt.Sprintf("-- \"%s\" -->", e.label)
		if strings.Contains(e.label, "NOTFALL") {
			// Emergency interrupts cut across the hierarchy.
			arrow = fmt.Sprintf("-. \"%s\" .->", e.label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", e.from, arrow, e.to)
	}

	// Self edges for in-state navigation.
	for _, id := range []string{"WorkMode_Entity", "WorkMode_General", "EmergencyMode_Display"} {
		fmt.Fprintf(&sb, "    %s -- \"NAECHSTER / VORHERIGER / SUCHE\" --> %s\n", id, id)
	}

	if current := sanitizeMermaidID(currentState); current != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", current)
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, "/", "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
