package main

import (
	"fmt"

	"github.com/alfredjeanlab/blogd/internal/config"
	"github.com/alfredjeanlab/blogd/internal/store"
	"github.com/alfredjeanlab/blogd/internal/store/postgres"
	"github.com/alfredjeanlab/blogd/internal/store/sqlite"
)

// openStore opens the backend named by cfg.Driver. Both backends apply their
// schema before returning.
func openStore(cfg config.DatabaseConfig) (store.Store, error) {
	pool := store.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.Driver {
	case "postgres":
		st, err = postgres.New(cfg.URL, pool)
	case "sqlite":
		st, err = sqlite.New(cfg.URL, pool)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}
