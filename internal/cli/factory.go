package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/adapters/file"
	"github.com/aretw0/riseflow/internal/config"
	"github.com/aretw0/riseflow/pkg/adapters/memory"
	"github.com/aretw0/riseflow/pkg/adapters/redis"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/flow"
	"github.com/aretw0/riseflow/pkg/graph"
	"github.com/aretw0/riseflow/pkg/observability"
	"github.com/aretw0/riseflow/pkg/persistence/middleware"
	"github.com/aretw0/riseflow/pkg/ports"
)

// Backend is the storage a command runs against.
type Backend struct {
	Store  ports.KVStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases network connections, if any.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend builds the configured store, wrapped in PII masking and
// encryption when configured.
func OpenBackend(cfg config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		b.Store = memory.NewStore()
	case config.BackendFile:
		b.Store = file.New(cfg.Store.Dir)
	case config.BackendRedis:
		rc := cfg.Store.Redis
		opts := []redis.Option{redis.WithPrefix(rc.Prefix)}
		if rc.TTL > 0 {
			opts = append(opts, redis.WithTTL(rc.TTL))
		}
		rs := redis.New(rc.Addr, rc.Password, rc.DB, opts...)
		b.Store = rs
		b.close = rs.Close
		if rc.Lock {
			b.Locker = redis.NewLocker(rs.Client(), rc.Prefix)
		}
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", config.ErrInvalid, cfg.Store.Backend)
	}

	// Masking runs first so personal data never reaches the cipher or the disk.
	var mws []middleware.Middleware
	if len(cfg.Store.PIIKeys) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Store.PIIKeys)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		mws = append(mws, pii)
	}

	key, err := cfg.EncryptionKey()
	if err != nil {
		return nil, err
	}
	if key != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	b.Store = middleware.Chain(b.Store, mws...)

	logger.Debug("Store opened", "backend", cfg.Store.Backend, "encrypted", key != nil, "masked_keys", len(cfg.Store.PIIKeys))
	return b, nil
}

// LoadGraph returns the configured flow: cfg.Flow when set, the shipped RISE
// flow otherwise. Quick jumps pointing at missing nodes are dropped.
func LoadGraph(cfg config.Config) (*graph.Graph, map[domain.Role]string, error) {
	if cfg.Flow == "" {
		return flow.Default(), flow.QuickJumps(), nil
	}

	data, err := os.ReadFile(cfg.Flow)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read flow: %w", err)
	}
	g, err := flow.Load(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.Flow, err)
	}

	jumps := make(map[domain.Role]string)
	for role, id := range flow.QuickJumps() {
		if g.Has(id) {
			jumps[role] = id
		}
	}
	return g, jumps, nil
}

// NewEngine assembles an engine from the configuration and an open backend.
func NewEngine(cfg config.Config, b *Backend, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*riseflow.Engine, error) {
	g, jumps, err := LoadGraph(cfg)
	if err != nil {
		return nil, err
	}

	opts := []riseflow.Option{
		riseflow.WithGraph(g),
		riseflow.WithQuickJumps(jumps),
		riseflow.WithStore(b.Store),
		riseflow.WithLogger(logger),
		riseflow.WithLifecycleHooks(observability.Compose(hooks...)),
	}
	if b.Locker != nil {
		opts = append(opts, riseflow.WithLocker(b.Locker))
	}
	return riseflow.New(opts...), nil
}
