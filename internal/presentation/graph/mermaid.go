package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stance/pkg/domain"
)

// GraphOverlay contains runtime data to visualize on the graph.
type GraphOverlay struct {
	VisitedModes []domain.ModeName
	CurrentMode  domain.ModeName
	Latched      bool
}

// GenerateMermaid produces a Mermaid flowchart of the mode graph.
// It applies semantic styling:
// - Start mode: ((Circle))
// - Safe mode: {{Hexagon}}
// - Default: [Rectangle]
// Declared transitions are solid arrows. Every mode other than the safe mode
// also gets a dotted fault edge to it, since the orchestrator may force that
// transition at any tick.
func GenerateMermaid(modes []domain.ModeInfo, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var safe domain.ModeName
	for _, m := range modes {
		if m.Safe {
			safe = m.Name
		}
	}

	for _, m := range modes {
		safeID := sanitizeMermaidID(string(m.Name))

		opener, closer := "[", "]"
		switch {
		case m.Start:
			opener, closer = "((", "))"
		case m.Safe:
			opener, closer = "{{", "}}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, m.Name, closer))

		for _, to := range m.Transitions {
			if to == safe {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(string(to))))
		}
		if safe != "" && m.Name != safe {
			sb.WriteString(fmt.Sprintf("    %s -. ⚡ fault .-> %s\n", safeID, sanitizeMermaidID(string(safe))))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef latched fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedModes {
			safeID := sanitizeMermaidID(string(name))
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentMode != "" {
			class := "current"
			if overlay.Latched {
				class = "latched"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(string(overlay.CurrentMode)), class))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
