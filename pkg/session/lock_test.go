package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/riseflow/pkg/adapters/memory"
	"github.com/aretw0/riseflow/pkg/flow"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(flow.Default(), memory.NewStore())
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.WithSession(ctx, sid, nil, func(ctx context.Context, h *Handle) error {
			h.Go(ctx, "start-class")
			return nil
		})
		_ = mgr.Delete(ctx, sid)
	}

	lockCount := len(mgr.locks)
	t.Logf("Sessions Created: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
