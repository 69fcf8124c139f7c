package navigation_test

import (
	"testing"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/flow"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStack(t *testing.T, ids ...string) *navigation.Stack {
	t.Helper()
	s := navigation.NewStack(flow.Default(), "home")
	for _, id := range ids {
		require.NoError(t, s.Push(id))
	}
	return s
}

func TestStack_StartsAtRoot(t *testing.T) {
	s := newStack(t)
	assert.Equal(t, []string{"home"}, s.IDs())
	assert.Equal(t, "home", s.Current())
	assert.False(t, s.CanBack())
}

func TestStack_PushUnknownIsNoop(t *testing.T) {
	s := newStack(t, "start-class")

	err := s.Push("nope")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.Equal(t, []string{"home", "start-class"}, s.IDs())
}

func TestStack_PushThenBackRestores(t *testing.T) {
	for _, prefix := range [][]string{
		{},
		{"start-class"},
		{"start-class", "ct-minor", "ct-least-most"},
	} {
		s := newStack(t, prefix...)
		before := s.IDs()

		require.NoError(t, s.Push("ht-intake"))
		require.True(t, s.Back())
		assert.Equal(t, before, s.IDs())
	}
}

func TestStack_BackAtRootIsNoop(t *testing.T) {
	s := newStack(t)
	assert.False(t, s.Back())
	assert.Equal(t, []string{"home"}, s.IDs())
}

func TestStack_BackScenario(t *testing.T) {
	s := newStack(t, "start-class", "ct-minor")

	s.Back()
	assert.Equal(t, "start-class", s.Current())
	s.Back()
	assert.Equal(t, "home", s.Current())
	s.Back()
	assert.Equal(t, "home", s.Current())
	assert.Equal(t, 1, s.Len())
}

func TestStack_Truncate(t *testing.T) {
	path := []string{"start-class", "ct-minor", "ct-least-most", "ct-consequences"}
	full := append([]string{"home"}, path...)

	for i := range full {
		s := newStack(t, path...)
		require.NoError(t, s.Truncate(i))
		assert.Equal(t, full[i], s.Current())
		assert.Equal(t, full[:i+1], s.IDs())
	}
}

func TestStack_TruncateOutOfRange(t *testing.T) {
	s := newStack(t, "start-class")
	for _, i := range []int{-1, 2, 10} {
		err := s.Truncate(i)
		assert.ErrorIs(t, err, domain.ErrInvalidIndex)
		assert.Equal(t, []string{"home", "start-class"}, s.IDs())
	}
}

func TestStack_TruncateThenPushDoesNotAlias(t *testing.T) {
	s := newStack(t, "start-class", "ct-minor")
	snapshot := s.IDs()

	require.NoError(t, s.Truncate(0))
	require.NoError(t, s.Push("ht-intake"))
	assert.Equal(t, []string{"home", "start-class", "ct-minor"}, snapshot)
	assert.Equal(t, []string{"home", "ht-intake"}, s.IDs())
}

func TestStack_Reset(t *testing.T) {
	s := newStack(t, "start-class", "ct-minor", "major-referral")
	s.Reset()
	assert.Equal(t, []string{"home"}, s.IDs())

	s.Reset()
	assert.Equal(t, []string{"home"}, s.IDs())
}

func TestStack_Replace(t *testing.T) {
	s := newStack(t, "start-class")

	require.NoError(t, s.Replace("dp-intake"))
	assert.Equal(t, []string{"dp-intake"}, s.IDs())

	assert.ErrorIs(t, s.Replace("nope"), domain.ErrNodeNotFound)
	assert.Equal(t, []string{"dp-intake"}, s.IDs())
}

func TestRestoreStack(t *testing.T) {
	g := flow.Default()

	s, err := navigation.RestoreStack(g, "home", []string{"home", "ht-intake"})
	require.NoError(t, err)
	assert.Equal(t, "ht-intake", s.Current())

	_, err = navigation.RestoreStack(g, "home", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyStack)

	_, err = navigation.RestoreStack(g, "home", []string{"home", "deleted-node"})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}
