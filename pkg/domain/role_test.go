package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"Classroom Teacher", RoleClassroomTeacher},
		{"ClassroomTeacher", RoleClassroomTeacher},
		{"head-teacher", RoleHeadTeacher},
		{"DP", RoleDeputyPrincipal},
		{"Any", RoleAny},
		{"", RoleAny},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseRole("Janitor")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRole_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleDeputyPrincipal})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"Deputy Principal"}`, string(data))

	var out struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"Head Teacher"}`), &out))
	assert.Equal(t, RoleHeadTeacher, out.Role)
}

func TestNode_SearchText(t *testing.T) {
	n := Node{Title: "Title", Bullets: []string{"a", "b"}}
	assert.Equal(t, "Title  a b", n.SearchText())
}

func TestNode_Clone(t *testing.T) {
	n := Node{ID: "x", Bullets: []string{"a"}, Edges: []Edge{{Label: "l", To: "y"}}}
	c := n.Clone()
	c.Bullets[0] = "changed"
	c.Edges[0].To = "z"
	assert.Equal(t, "a", n.Bullets[0])
	assert.Equal(t, "y", n.Edges[0].To)
}
