package install_test

import (
	"context"
	"testing"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/install"
	"github.com/aretw0/riseflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferred_OneShot(t *testing.T) {
	ctx := context.Background()
	var d install.Deferred
	assert.False(t, d.IsAvailable())

	calls := 0
	d.Offer(func(context.Context) (ports.InstallOutcome, error) {
		calls++
		return ports.InstallAccepted, nil
	})
	require.True(t, d.IsAvailable())

	out, err := d.Prompt(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.InstallAccepted, out)
	assert.Equal(t, "accepted", out.String())

	assert.False(t, d.IsAvailable())
	_, err = d.Prompt(ctx)
	assert.ErrorIs(t, err, domain.ErrInstallUnavailable)
	assert.Equal(t, 1, calls)
}

func TestDeferred_Withdraw(t *testing.T) {
	var d install.Deferred
	d.Offer(func(context.Context) (ports.InstallOutcome, error) { return ports.InstallDismissed, nil })
	d.Withdraw()
	assert.False(t, d.IsAvailable())
}

func TestUnavailable(t *testing.T) {
	var i ports.Installer = install.Unavailable{}
	assert.False(t, i.IsAvailable())
	out, err := i.Prompt(context.Background())
	assert.ErrorIs(t, err, domain.ErrInstallUnavailable)
	assert.Equal(t, ports.InstallDismissed, out)
}
