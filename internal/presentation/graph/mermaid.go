package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/riseflow/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// roleClasses mirror the role pill palette (blue, emerald, purple, slate).
var roleClasses = []struct {
	role domain.Role
	name string
	def  string
}{
	{domain.RoleClassroomTeacher, "ct", "fill:#dbeafe,stroke:#1e40af,color:#1e40af"},
	{domain.RoleHeadTeacher, "ht", "fill:#d1fae5,stroke:#065f46,color:#065f46"},
	{domain.RoleDeputyPrincipal, "dp", "fill:#f3e8ff,stroke:#6b21a8,color:#6b21a8"},
	{domain.RoleAny, "any", "fill:#f1f5f9,stroke:#334155,color:#334155"},
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a list of nodes.
// It applies semantic styling:
// - Root: ((Circle))
// - Leaf (no edges): ([Stadium])
// - Default: [Rectangle]
// Emphasised edges are drawn thick (==>). Nodes are coloured by role, and
// overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(nodes []domain.Node, root string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	byRole := make(map[domain.Role][]string)
	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == root:
			opener, closer = "((", "))"
		case len(node.Edges) == 0:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(node.Title), closer)
		byRole[node.Role] = append(byRole[node.Role], safeID)

		for _, e := range node.Edges {
			safeTo := sanitizeMermaidID(e.To)
			switch {
			case e.Label == "" && e.Emphasis:
				fmt.Fprintf(&sb, "    %s ==> %s\n", safeID, safeTo)
			case e.Label == "":
				fmt.Fprintf(&sb, "    %s --> %s\n", safeID, safeTo)
			case e.Emphasis:
				fmt.Fprintf(&sb, "    %s == \"%s\" ==> %s\n", safeID, escapeLabel(e.Label), safeTo)
			default:
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escapeLabel(e.Label), safeTo)
			}
		}
	}

	sb.WriteString("\n    %% Role Styles\n")
	for _, rc := range roleClasses {
		ids := byRole[rc.role]
		if len(ids) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "    classDef %s %s;\n", rc.name, rc.def)
		fmt.Fprintf(&sb, "    class %s %s;\n", strings.Join(ids, ","), rc.name)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
