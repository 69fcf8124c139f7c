package riseflow_test

import (
	"context"
	"testing"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/adapters/file"
	"github.com/aretw0/riseflow/pkg/deeplink"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/dsl"
	"github.com/aretw0/riseflow/pkg/install"
	"github.com/aretw0/riseflow/pkg/persistence"
	"github.com/aretw0/riseflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Defaults(t *testing.T) {
	eng := riseflow.New()

	assert.Equal(t, 19, eng.Graph().Len())
	assert.Empty(t, eng.Search(""))
	assert.NotEmpty(t, eng.Search("deten"))

	n, err := eng.Lookup("home")
	require.NoError(t, err)
	assert.Equal(t, "RISE – Whole School Behaviour Flow", n.Title)
}

func TestEngine_RestartFromFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := riseflow.New(riseflow.WithStore(file.New(dir)))
	loc := deeplink.NewMemoryLocation("")
	sess := first.Start(ctx, "", loc)
	sess.QuickJump(ctx, domain.RoleClassroomTeacher)
	sess.Go(ctx, "ct-minor")
	sess.SetQuery(ctx, "phone")

	frag, _ := loc.Fragment()
	assert.Equal(t, "ct-minor", frag)

	second := riseflow.New(riseflow.WithStore(file.New(dir)))
	again := second.Start(ctx, "", deeplink.NewMemoryLocation(""))
	assert.Equal(t, []string{"home", "start-class", "ct-minor"}, again.Stack())
	assert.Equal(t, "phone", again.Query())
}

func TestEngine_CorruptStorageAndUnknownFragment(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := file.New(dir)
	require.NoError(t, store.Set(ctx, persistence.StackKey, []byte(`["home","gone"]`)))
	require.NoError(t, store.Set(ctx, persistence.QueryKey, []byte(`42`)))

	loc := deeplink.NewMemoryLocation("#nowhere")
	sess := riseflow.New(riseflow.WithStore(store)).Start(ctx, "", loc)

	assert.Equal(t, []string{"home"}, sess.Stack())
	assert.Equal(t, "", sess.Query())
	frag, _ := loc.Fragment()
	assert.Equal(t, "home", frag)
}

func TestEngine_CustomGraph(t *testing.T) {
	ctx := context.Background()
	b := dsl.New()
	b.Add("home").Title("Root").Go("Next", "leaf")
	b.Add("leaf").Title("Leaf").Body("detention room")
	g, err := b.Build()
	require.NoError(t, err)

	eng := riseflow.New(riseflow.WithGraph(g))
	sess := eng.Start(ctx, "x", nil)
	assert.True(t, sess.Follow(ctx, 0))
	assert.Equal(t, "leaf", sess.CurrentID())
	assert.False(t, sess.QuickJump(ctx, domain.RoleClassroomTeacher), "custom graphs have no shortcuts by default")
	assert.Len(t, eng.Search("deten"), 1)
}

func TestSession_Install(t *testing.T) {
	ctx := context.Background()
	deferred := &install.Deferred{}
	sess := riseflow.New(riseflow.WithInstaller(deferred)).Start(ctx, "", nil)

	assert.False(t, sess.CanInstall())
	_, err := sess.Install(ctx)
	assert.ErrorIs(t, err, domain.ErrInstallUnavailable)

	deferred.Offer(func(context.Context) (ports.InstallOutcome, error) { return ports.InstallAccepted, nil })
	assert.True(t, sess.CanInstall())
	out, err := sess.Install(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.InstallAccepted, out)
	assert.False(t, sess.CanInstall())
}

func TestSession_LocationChanged(t *testing.T) {
	ctx := context.Background()
	loc := deeplink.NewMemoryLocation("")
	sess := riseflow.New().Start(ctx, "", loc)
	sess.Go(ctx, "start-class")

	loc.Navigate("#dp-repeat")
	assert.True(t, sess.LocationChanged(ctx))
	assert.Equal(t, []string{"dp-repeat"}, sess.Stack())
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, riseflow.Version)
}
