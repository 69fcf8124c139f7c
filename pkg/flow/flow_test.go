package flow_test

import (
	"testing"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/flow"
	"github.com/aretw0/riseflow/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ClosedGraph(t *testing.T) {
	g := flow.Default()
	require.NoError(t, graph.Validate(g))

	for _, id := range g.IDs() {
		n, err := g.Lookup(id)
		require.NoError(t, err)
		assert.NotEmpty(t, n.Title, "node %s", id)
		for _, e := range n.Edges {
			assert.True(t, g.Has(e.To), "edge %q of %s points to unknown %s", e.Label, id, e.To)
		}
	}
}

func TestDefault_Shape(t *testing.T) {
	g := flow.Default()

	assert.Equal(t, 19, g.Len())
	assert.Equal(t, "home", g.Root())

	ids := g.IDs()
	assert.Equal(t, "start-class", ids[0])
	assert.Equal(t, "home", ids[len(ids)-1])
	assert.Empty(t, graph.Unreachable(g))

	home, err := g.Lookup("home")
	require.NoError(t, err)
	assert.Equal(t, "RISE – Whole School Behaviour Flow", home.Title)
	require.Len(t, home.Edges, 3)
	assert.Equal(t, domain.Edge{Label: "Classroom Teacher", To: "start-class", Emphasis: true}, home.Edges[0])

	consequences, err := g.Lookup("ct-consequences")
	require.NoError(t, err)
	assert.Equal(t, "In-class consequences (and documentation)", consequences.Title)
	assert.Equal(t, domain.RoleClassroomTeacher, consequences.Role)
	assert.Contains(t, consequences.Bullets, "Lunch detention with CTR (Classroom Teacher Reflection)")

	dp, _ := g.Lookup("dp-intake")
	assert.Equal(t, domain.RoleDeputyPrincipal, dp.Role)
}

func TestDefault_BuiltOnce(t *testing.T) {
	assert.Same(t, flow.Default(), flow.Default())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := flow.Load([]byte("nodes:\n  - id: home\n    title: Home\n    next:\n      - label: x\n        to: ghost\n"))
	assert.ErrorContains(t, err, "ghost")
}

func TestQuickJumps_TargetRoleEntryNodes(t *testing.T) {
	g := flow.Default()
	for role, id := range flow.QuickJumps() {
		n, err := g.Lookup(id)
		require.NoError(t, err, "quick jump for %s", role)
		assert.Equal(t, role, n.Role)
	}
	assert.Len(t, flow.QuickJumps(), 3)
}
