package compiler

import (
	"testing"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_YAML(t *testing.T) {
	src := []byte(`
root: home
nodes:
  - id: home
    role: Any
    title: "Home"
    bullets: ["a", "b"]
    next:
      - label: "Go"
        to: next
        emphasis: true
  - id: next
    role: Head Teacher
    title: "Next"
    note: "watch out"
`)
	nodes, root, err := NewParser().Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "home", root)
	require.Len(t, nodes, 2)

	assert.Equal(t, "home", nodes[0].ID)
	assert.Equal(t, []string{"a", "b"}, nodes[0].Bullets)
	assert.Equal(t, []domain.Edge{{Label: "Go", To: "next", Emphasis: true}}, nodes[0].Edges)
	assert.Equal(t, domain.RoleHeadTeacher, nodes[1].Role)
	assert.Equal(t, "watch out", nodes[1].Note)
}

func TestParser_JSON(t *testing.T) {
	src := []byte(`{"nodes":[{"id":"home","title":"Home","next":[{"label":"self","to":"home"}]}]}`)
	nodes, root, err := NewParser().Parse(src)
	require.NoError(t, err)
	assert.Empty(t, root)
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.RoleAny, nodes[0].Role)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"Malformed", "nodes: [ {"},
		{"Missing ID", "nodes:\n  - title: x\n"},
		{"Unknown Key", "nodes:\n  - id: a\n    colour: red\n"},
		{"Bad Role", "nodes:\n  - id: a\n    role: Janitor\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewParser().Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}
