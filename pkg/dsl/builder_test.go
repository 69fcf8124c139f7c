package dsl

import (
	"testing"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()

	b.Add("home").
		Title("Welcome").
		Emphasize("Start", "start")

	b.Add("start").
		Role(domain.RoleClassroomTeacher).
		Title("Start").
		Body("Do the thing.").
		Bullets("one", "two").
		Note("careful").
		Go("Back", "home")

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "start"}, g.IDs())

	start, err := g.Lookup("start")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClassroomTeacher, start.Role)
	assert.Equal(t, []string{"one", "two"}, start.Bullets)
	assert.Equal(t, "careful", start.Note)
	require.Len(t, start.Edges, 1)
	assert.Equal(t, domain.Edge{Label: "Back", To: "home"}, start.Edges[0])

	home, _ := g.Lookup("home")
	assert.True(t, home.Edges[0].Emphasis)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	b.Add("home").Title("Home")
	b.Add("home").Go("loop", "home")

	g := b.MustBuild()
	n, _ := g.Lookup("home")
	assert.Equal(t, "Home", n.Title)
	assert.Len(t, n.Edges, 1)
}

func TestBuilder_DanglingEdge(t *testing.T) {
	b := New()
	b.Add("home").Title("Home").Go("nowhere", "ghost")

	_, err := b.Build()
	var verr *graph.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBuilder_CustomRoot(t *testing.T) {
	b := New(graph.WithRoot("start"))
	b.Add("start").Title("Start")

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "start", g.Root())
}
