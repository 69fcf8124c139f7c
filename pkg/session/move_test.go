package session_test

import (
	"context"
	"testing"

	"github.com/aretw0/riseflow/pkg/adapters/memory"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/flow"
	"github.com/aretw0/riseflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_Apply(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(flow.Default(), memory.NewStore(), session.WithQuickJumps(flow.QuickJumps()))
	h := mgr.Open(ctx, "m", nil)

	steps := []struct {
		move session.Move
		want string
	}{
		{session.Move{Op: "follow", Index: 0}, "start-class"},
		{session.Move{Op: "follow", Index: 42}, "start-class"},
		{session.Move{Op: "home"}, "home"},
		{session.Move{Op: "quick", Role: "ht"}, "ht-intake"},
		{session.Move{Op: "back"}, "home"},
		{session.Move{Op: "jump", Index: 0}, "home"},
		{session.Move{Op: "go", ID: "dp-intake"}, "dp-intake"},
		{session.Move{Op: "reset"}, "home"},
	}
	for _, s := range steps {
		require.NoError(t, s.move.Apply(ctx, h), s.move.Op)
		assert.Equal(t, s.want, h.CurrentID(), s.move.Op)
	}
}

func TestMove_Errors(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(flow.Default(), memory.NewStore())
	h := mgr.Open(ctx, "m", nil)

	assert.ErrorIs(t, session.Move{Op: "fly"}.Apply(ctx, h), session.ErrUnknownMove)
	assert.ErrorIs(t, session.Move{Op: "go"}.Validate(), session.ErrUnknownMove)
	assert.ErrorIs(t, session.Move{Op: "quick", Role: "janitor"}.Validate(), domain.ErrUnknownRole)
	assert.ErrorIs(t, session.Move{Op: "go", ID: "nope"}.Apply(ctx, h), domain.ErrNodeNotFound)
	assert.Equal(t, "home", h.CurrentID())
}
