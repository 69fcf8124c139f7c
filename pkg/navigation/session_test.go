package navigation_test

import (
	"context"
	"testing"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/flow"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name    string
	log     *[]string
	changes []navigation.Change
}

func (r *recorder) Observe(_ context.Context, c navigation.Change) {
	*r.log = append(*r.log, r.name)
	r.changes = append(r.changes, c)
}

func newSession(opts ...navigation.Option) *navigation.Session {
	opts = append([]navigation.Option{navigation.WithQuickJumps(flow.QuickJumps())}, opts...)
	return navigation.NewSession(flow.Default(), opts...)
}

func TestSession_BackScenario(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	require.True(t, s.Go(ctx, "start-class"))
	require.True(t, s.Go(ctx, "ct-minor"))

	assert.True(t, s.Back(ctx))
	assert.Equal(t, "start-class", s.CurrentID())
	assert.True(t, s.Back(ctx))
	assert.Equal(t, "home", s.CurrentID())
	assert.False(t, s.Back(ctx))
	assert.Equal(t, "home", s.CurrentID())
}

func TestSession_SeedFallsBackOnCorruptStack(t *testing.T) {
	s := newSession(navigation.WithStack([]string{"home", "removed-in-v2"}))
	assert.Equal(t, []string{"home"}, s.Stack())

	s = newSession(navigation.WithStack([]string{}))
	assert.Equal(t, []string{"home"}, s.Stack())

	s = newSession(navigation.WithStack([]string{"home", "ht-intake"}))
	assert.Equal(t, []string{"home", "ht-intake"}, s.Stack())
}

func TestSession_ObserversSeePostMutationStateInOrder(t *testing.T) {
	ctx := context.Background()
	var order []string
	render := &recorder{name: "render", log: &order}
	persist := &recorder{name: "persist", log: &order}
	link := &recorder{name: "link", log: &order}

	s := newSession()
	s.Subscribe(render)
	s.Subscribe(persist)
	s.Subscribe(link)

	s.Go(ctx, "start-class")

	assert.Equal(t, []string{"render", "persist", "link"}, order)
	for _, r := range []*recorder{render, persist, link} {
		require.Len(t, r.changes, 1)
		c := r.changes[0]
		assert.Equal(t, navigation.ChangeStack, c.Kind)
		assert.Equal(t, domain.OpPush, c.Op)
		assert.Equal(t, "start-class", c.Current)
		assert.Equal(t, []string{"home", "start-class"}, c.Stack)
	}
}

func TestSession_NoNotificationWhenNothingChanges(t *testing.T) {
	ctx := context.Background()
	var order []string
	r := &recorder{name: "r", log: &order}

	s := newSession()
	s.Subscribe(r)

	assert.False(t, s.Go(ctx, "nope"))
	assert.False(t, s.Back(ctx))
	assert.False(t, s.Jump(ctx, 5))
	assert.False(t, s.Follow(ctx, 99))
	s.SetQuery(ctx, "")

	assert.Empty(t, r.changes)
}

func TestSession_Jump(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	s.Go(ctx, "start-class")
	s.Go(ctx, "ct-minor")
	s.Go(ctx, "ct-least-most")

	require.True(t, s.Jump(ctx, 1))
	assert.Equal(t, []string{"home", "start-class"}, s.Stack())
}

func TestSession_ResetAndHome(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	s.Go(ctx, "start-class")

	s.Home(ctx)
	assert.Equal(t, []string{"home", "start-class", "home"}, s.Stack())

	s.Reset(ctx)
	assert.Equal(t, []string{"home"}, s.Stack())
}

func TestSession_Follow(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	require.True(t, s.Follow(ctx, 0))
	assert.Equal(t, "start-class", s.CurrentID())
}

func TestSession_QuickJump(t *testing.T) {
	ctx := context.Background()
	s := newSession()

	require.True(t, s.QuickJump(ctx, domain.RoleHeadTeacher))
	assert.Equal(t, "ht-intake", s.CurrentID())
	assert.False(t, s.QuickJump(ctx, domain.RoleAny))
}

func TestSession_Replace(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	s.Go(ctx, "start-class")

	require.True(t, s.Replace(ctx, "dp-intake"))
	assert.Equal(t, []string{"dp-intake"}, s.Stack())
	assert.False(t, s.Replace(ctx, "bogus"))
	assert.Equal(t, []string{"dp-intake"}, s.Stack())
}

func TestSession_View(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	s.Go(ctx, "start-class")

	v := s.View()
	assert.False(t, v.Searching)
	assert.Equal(t, "start-class", v.Node.ID)
	assert.True(t, v.CanBack)
	require.Len(t, v.Breadcrumbs, 2)
	assert.Equal(t, domain.Breadcrumb{Index: 1, ID: "start-class", Title: "Classroom Teacher – Start"}, v.Breadcrumbs[1])

	s.SetQuery(ctx, "deten")
	v = s.View()
	assert.True(t, v.Searching)
	assert.NotEmpty(t, v.Results)
	assert.Equal(t, []string{"home", "start-class"}, s.Stack(), "search never touches history")

	s.SetQuery(ctx, "zzzzqqq")
	v = s.View()
	assert.False(t, v.Searching, "a query without matches shows the current node")
	assert.Equal(t, "start-class", v.Node.ID)
}

func TestSession_SetQueryNotifiesAndFiresHook(t *testing.T) {
	ctx := context.Background()
	var events []*domain.SearchEvent
	s := newSession(navigation.WithHooks(domain.LifecycleHooks{
		OnSearch: func(_ context.Context, e *domain.SearchEvent) { events = append(events, e) },
	}))
	var order []string
	r := &recorder{name: "r", log: &order}
	s.Subscribe(r)

	s.SetQuery(ctx, "Deten")
	s.SetQuery(ctx, "Deten")

	require.Len(t, r.changes, 1)
	assert.Equal(t, navigation.ChangeQuery, r.changes[0].Kind)
	assert.Equal(t, "Deten", r.changes[0].Query)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Terms)
	assert.Positive(t, events[0].Results)
}

func TestSession_NavigateHook(t *testing.T) {
	ctx := context.Background()
	var events []domain.NavigationEvent
	s := newSession(navigation.WithHooks(domain.LifecycleHooks{
		OnNavigate: func(_ context.Context, e *domain.NavigationEvent) { events = append(events, *e) },
	}))

	s.Go(ctx, "start-class")
	s.Back(ctx)

	require.Len(t, events, 2)
	assert.Equal(t, domain.OpPush, events[0].Op)
	assert.Equal(t, "home", events[0].From)
	assert.Equal(t, "start-class", events[0].To)
	assert.Equal(t, 2, events[0].Depth)
	assert.Equal(t, domain.OpBack, events[1].Op)
	assert.Equal(t, 1, events[1].Depth)
}

func TestSession_ShareLink(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	s.Go(ctx, "ht-intake")

	assert.Equal(t, "https://rise.example/app#ht-intake", s.ShareLink("https://rise.example/app#home"))
	assert.Equal(t, "#ht-intake", s.ShareLink(""))
}
