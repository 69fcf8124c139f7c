package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/riseflow/pkg/domain"
)

// LogHooks logs every lifecycle event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigate: func(ctx context.Context, e *domain.NavigationEvent) {
			logger.InfoContext(ctx, "navigate",
				"op", e.Op,
				"from", e.From,
				"to", e.To,
				"depth", e.Depth,
			)
		},
		OnSearch: func(ctx context.Context, e *domain.SearchEvent) {
			logger.InfoContext(ctx, "search", "terms", e.Terms, "results", e.Results)
		},
		OnPersistenceFailure: func(ctx context.Context, e *domain.PersistenceEvent) {
			logger.WarnContext(ctx, "persistence_failure", "op", e.Op, "key", e.Key, "err", e.Err)
		},
	}
}

// Compose merges hooks; each event is delivered to every non-nil callback in order.
func Compose(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	var navigate []func(context.Context, *domain.NavigationEvent)
	var search []func(context.Context, *domain.SearchEvent)
	var persist []func(context.Context, *domain.PersistenceEvent)
	for _, h := range all {
		if h.OnNavigate != nil {
			navigate = append(navigate, h.OnNavigate)
		}
		if h.OnSearch != nil {
			search = append(search, h.OnSearch)
		}
		if h.OnPersistenceFailure != nil {
			persist = append(persist, h.OnPersistenceFailure)
		}
	}

	if len(navigate) > 0 {
		out.OnNavigate = func(ctx context.Context, e *domain.NavigationEvent) {
			for _, fn := range navigate {
				fn(ctx, e)
			}
		}
	}
	if len(search) > 0 {
		out.OnSearch = func(ctx context.Context, e *domain.SearchEvent) {
			for _, fn := range search {
				fn(ctx, e)
			}
		}
	}
	if len(persist) > 0 {
		out.OnPersistenceFailure = func(ctx context.Context, e *domain.PersistenceEvent) {
			for _, fn := range persist {
				fn(ctx, e)
			}
		}
	}
	return out
}
