package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/aretw0/riseflow/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// A zero width keeps glamour's default wrapping.
func NewRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, err
		}
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// rolePalette matches the web pills: blue, emerald, purple, slate.
var rolePalette = map[domain.Role][2]string{
	domain.RoleClassroomTeacher: {"#dbeafe", "#1e40af"},
	domain.RoleHeadTeacher:      {"#d1fae5", "#065f46"},
	domain.RoleDeputyPrincipal:  {"#f3e8ff", "#6b21a8"},
	domain.RoleAny:              {"#f1f5f9", "#334155"},
}

// RolePill renders the role name as a coloured badge.
func RolePill(role domain.Role) string {
	p := termenv.ColorProfile()
	c := rolePalette[role]
	return termenv.String(" " + role.String() + " ").
		Background(p.Color(c[0])).
		Foreground(p.Color(c[1])).
		String()
}
