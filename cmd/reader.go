package main

import (
	"context"
	"fmt"

	"github.com/okian/govdash/internal/adapters/gateway"
	"github.com/okian/govdash/internal/adapters/gateway/postgres"
	"github.com/okian/govdash/internal/adapters/gateway/postgrest"
	"github.com/okian/govdash/internal/adapters/gateway/sqlite"
	"github.com/okian/govdash/internal/config"
	"github.com/okian/govdash/pkg/logger"
)

// openReader builds the read gateway selected by cfg.Backend.
func openReader(ctx context.Context, cfg *config.Config) (gateway.Reader, error) {
	switch cfg.Backend {
	case config.BackendPostgREST:
		return postgrest.New(cfg.Endpoint, cfg.Credential)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		return sqlite.Open(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
}

func closeReader(ctx context.Context, log logger.Logger, r gateway.Reader) {
	c, ok := r.(interface{ Close() error })
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn(ctx, "failed to close read gateway", logger.Error(err))
	}
}
