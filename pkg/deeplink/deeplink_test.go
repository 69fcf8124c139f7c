package deeplink_test

import (
	"context"
	"testing"

	"github.com/aretw0/riseflow/pkg/deeplink"
	"github.com/aretw0/riseflow/pkg/flow"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(stack ...string) *navigation.Session {
	var opts []navigation.Option
	if len(stack) > 0 {
		opts = append(opts, navigation.WithStack(stack))
	}
	return navigation.NewSession(flow.Default(), opts...)
}

func TestDecode(t *testing.T) {
	tests := map[string]string{
		"#ht-intake":   "ht-intake",
		"ht-intake":    "ht-intake",
		"":             "",
		"#":            "",
		" #home ":      "home",
		"#dp%2Dintake": "dp-intake",
		"#bad%zz":      "bad%zz",
	}
	for in, want := range tests {
		assert.Equal(t, want, deeplink.Decode(in), "Decode(%q)", in)
	}
}

func TestBind_ValidFragmentReplacesSeededStack(t *testing.T) {
	ctx := context.Background()
	loc := deeplink.NewMemoryLocation("#dp-intake")
	sess := session("home", "start-class", "ct-minor")

	deeplink.New(loc).Bind(ctx, sess)

	assert.Equal(t, []string{"dp-intake"}, sess.Stack())
	frag, _ := loc.Fragment()
	assert.Equal(t, "dp-intake", frag)
}

func TestBind_UnknownFragmentKeepsSeedAndIsOverwritten(t *testing.T) {
	ctx := context.Background()
	loc := deeplink.NewMemoryLocation("#not-a-node")
	sess := session("home", "ht-intake")

	deeplink.New(loc).Bind(ctx, sess)

	assert.Equal(t, []string{"home", "ht-intake"}, sess.Stack())
	frag, _ := loc.Fragment()
	assert.Equal(t, "ht-intake", frag)
}

func TestBind_AbsentFragment(t *testing.T) {
	ctx := context.Background()
	loc := deeplink.NewMemoryLocation("")
	sess := session()

	deeplink.New(loc).Bind(ctx, sess)

	assert.Equal(t, []string{"home"}, sess.Stack())
	frag, _ := loc.Fragment()
	assert.Equal(t, "home", frag)
}

func TestOutbound_FollowsEveryStackChange(t *testing.T) {
	ctx := context.Background()
	loc := deeplink.NewMemoryLocation("")
	sess := session()
	deeplink.New(loc).Bind(ctx, sess)

	sess.Go(ctx, "start-class")
	frag, _ := loc.Fragment()
	assert.Equal(t, "start-class", frag)

	sess.Back(ctx)
	frag, _ = loc.Fragment()
	assert.Equal(t, "home", frag)

	writes := loc.Writes()
	sess.SetQuery(ctx, "phone")
	assert.Equal(t, writes, loc.Writes(), "query changes do not touch the fragment")
}

func TestOutbound_FailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	loc := deeplink.NewMemoryLocation("")
	loc.SetFailing(true)
	sess := session()
	deeplink.New(loc).Bind(ctx, sess)

	require.True(t, sess.Go(ctx, "start-class"))
	assert.Equal(t, "start-class", sess.CurrentID())
	assert.Zero(t, loc.Writes())
}

func TestRefresh_ExternalNavigation(t *testing.T) {
	ctx := context.Background()
	loc := deeplink.NewMemoryLocation("")
	sess := session()
	sync := deeplink.New(loc)
	sync.Bind(ctx, sess)
	sess.Go(ctx, "start-class")

	loc.Navigate("#ht-intake")
	assert.True(t, sync.Refresh(ctx))
	assert.Equal(t, []string{"ht-intake"}, sess.Stack())

	loc.Navigate("#garbage")
	assert.False(t, sync.Refresh(ctx))
	assert.Equal(t, []string{"ht-intake"}, sess.Stack())
}

func TestRefresh_Unbound(t *testing.T) {
	assert.False(t, deeplink.New(deeplink.NewMemoryLocation("#home")).Refresh(context.Background()))
}
