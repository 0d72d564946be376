package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/internal/config"
	"github.com/aretw0/keypad/pkg/adapters/file"
	"github.com/aretw0/keypad/pkg/adapters/memory"
	"github.com/aretw0/keypad/pkg/adapters/redis"
	"github.com/aretw0/keypad/pkg/session"
)

// OpenSessions builds the session manager described by cfg.Store.
// The returned close func releases the backend and is never nil.
// A redis backend is pinged up front and also provides the distributed session lock.
func OpenSessions(ctx context.Context, cfg config.Config, logger *slog.Logger, calcOpts ...keypad.Option) (*session.Manager, func() error, error) {
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithCalculatorOptions(calcOpts...),
	}

	switch cfg.Store.Kind {
	case config.StoreMemory, "":
		logger.Debug("Using in-memory session store")
		return session.NewManager(memory.NewStore(), opts...), func() error { return nil }, nil

	case config.StoreFile:
		logger.Info("Using file session store", "dir", cfg.Store.Dir)
		return session.NewManager(file.New(cfg.Store.Dir), opts...), func() error { return nil }, nil

	case config.StoreRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(cfg.Store.TTL),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", rc.Addr, err)
		}
		logger.Info("Using redis session store", "addr", rc.Addr, "prefix", rc.Prefix, "ttl", cfg.Store.TTL)
		opts = append(opts, session.WithLocker(redis.NewLocker(store.Client(), rc.Prefix)))
		return session.NewManager(store, opts...), store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}
