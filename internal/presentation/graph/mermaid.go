package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/modulink/pkg/domain"
)

// Overlay contains run data to visualize on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of a chain snapshot.
// The first link is drawn as a circle. Declared-order fallbacks are plain
// arrows and conditional connections are labeled arrows, in evaluation order.
// Overlay styles (visited/current) are applied if provided.
func GenerateMermaid(s domain.Snapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	byFrom := make(map[string][]domain.ConnectionInfo)
	for _, c := range s.Connections {
		byFrom[c.From] = append(byFrom[c.From], c)
	}

	for i, name := range s.Links {
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		if i == 0 {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, name, closer)

		for _, c := range byFrom[name] {
			label := c.Label
			if label == "" {
				label = fmt.Sprintf("#%d", c.Index)
			}
			label = strings.ReplaceAll(label, "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, label, sanitizeMermaidID(c.To))
		}

		if i+1 < len(s.Links) {
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(s.Links[i+1]))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Visited {
			safeID := sanitizeMermaidID(name)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

// OverlayFromPath marks every visited link and the last one as current.
func OverlayFromPath(path []string) *Overlay {
	if len(path) == 0 {
		return &Overlay{}
	}
	return &Overlay{Visited: path, Current: path[len(path)-1]}
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "_", " ", "_").Replace(id)
}
