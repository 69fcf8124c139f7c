package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/flow"
	"github.com/aretw0/riseflow/pkg/navigation"
	"github.com/aretw0/riseflow/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountNavigationAndSearch(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	s := navigation.NewSession(flow.Default(), navigation.WithHooks(m.Hooks()))
	s.Go(ctx, "start-class")
	s.Go(ctx, "ct-minor")
	s.Back(ctx)
	s.Back(ctx)
	s.Back(ctx) // no-op at root

	s.SetQuery(ctx, "deten")
	s.SetQuery(ctx, "zzzzqqq")
	s.SetQuery(ctx, "   ")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Navigations.WithLabelValues("push")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Navigations.WithLabelValues("back")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues("start-class")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues("home")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("empty")))
}

func TestMetrics_PersistenceFailures(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	m.Hooks().OnPersistenceFailure(context.Background(), &domain.PersistenceEvent{Op: "save", Err: errors.New("boom")})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFailures.WithLabelValues("save")))
}

func TestCompose(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := observability.NewMetrics(prometheus.NewRegistry())

	hooks := observability.Compose(observability.LogHooks(logger), domain.LifecycleHooks{}, m.Hooks())
	hooks.OnNavigate(ctx, &domain.NavigationEvent{Op: domain.OpPush, From: "home", To: "ht-intake", Depth: 2})

	assert.Contains(t, buf.String(), "msg=navigate")
	assert.Contains(t, buf.String(), "to=ht-intake")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues("ht-intake")))

	empty := observability.Compose()
	assert.Nil(t, empty.OnNavigate)
	assert.Nil(t, empty.OnSearch)
}
