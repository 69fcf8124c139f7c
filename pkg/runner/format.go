package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/riseflow/pkg/domain"
)

// Frame is one screenful of output.
type Frame struct {
	View    domain.View `json:"view"`
	Message string      `json:"message,omitempty"`
}

// Markdown renders a view as markdown: breadcrumbs, then either the search
// results or the current node card.
func Markdown(v domain.View) string {
	var sb strings.Builder

	crumbs := make([]string, len(v.Breadcrumbs))
	for i, b := range v.Breadcrumbs {
		crumbs[i] = fmt.Sprintf("`%d` %s", b.Index, b.Title)
	}
	sb.WriteString(strings.Join(crumbs, " › "))
	sb.WriteString("\n\n")

	if v.Searching {
		fmt.Fprintf(&sb, "## Search results for %q\n\n", v.Query)
		for i, n := range v.Results {
			fmt.Fprintf(&sb, "%d. **%s** (`%s`, %s)\n", i+1, n.Title, n.ID, n.Role)
		}
		sb.WriteString("\nType a number to open a result, or `/` to clear the search.\n")
		return sb.String()
	}

	n := v.Node
	fmt.Fprintf(&sb, "# %s\n\n", n.Title)
	if n.Role != domain.RoleAny {
		fmt.Fprintf(&sb, "_%s_\n\n", n.Role)
	}
	if n.Body != "" {
		sb.WriteString(n.Body)
		sb.WriteString("\n\n")
	}
	for _, b := range n.Bullets {
		fmt.Fprintf(&sb, "- %s\n", b)
	}
	if len(n.Bullets) > 0 {
		sb.WriteString("\n")
	}
	if n.Note != "" {
		fmt.Fprintf(&sb, "> %s\n\n", n.Note)
	}

	if len(n.Edges) == 0 {
		sb.WriteString("_End of this path._\n")
	}
	for i, e := range n.Edges {
		if e.Emphasis {
			fmt.Fprintf(&sb, "%d. **%s**\n", i+1, e.Label)
		} else {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, e.Label)
		}
	}

	if v.Query != "" {
		fmt.Fprintf(&sb, "\n_No results for %q._\n", v.Query)
	}
	return sb.String()
}
