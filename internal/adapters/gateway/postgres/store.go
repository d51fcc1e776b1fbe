// Package postgres reads portfolio tables directly from PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/govdash/internal/adapters/gateway"
	"github.com/okian/govdash/internal/domain/model"
)

const (
	maxConns        = 10
	minConns        = 1
	maxConnIdleTime = 5 * time.Minute
	maxConnLifetime = 30 * time.Minute
	pingTimeout     = 3 * time.Second
)

// selects lists the projected columns per kind. Identifiers and numerics are
// cast so they scan into the model's plain Go types.
var selects = map[model.Kind]string{
	model.KindProject: "id::text AS id, title, description, period, context, " +
		"objectives, results, status, created_at",
	model.KindDeliverable: "id::text AS id, project_id::text AS project_id, title, description, category, " +
		"completion_percentage::int4 AS completion_percentage, " +
		"delivery_date::timestamptz AS delivery_date, created_at",
	model.KindKPI: "id::text AS id, name, initial_value::float8 AS initial_value, " +
		"target_value::float8 AS target_value, current_value::float8 AS current_value, unit, " +
		"improvement_percentage::float8 AS improvement_percentage, created_at",
	model.KindTool:            "id::text AS id, name, category, description, icon, created_at",
	model.KindMethodologyStep: "id::text AS id, step_number::int4 AS step_number, title, description, activities, created_at",
}

// querier is the subset of *pgxpool.Pool used by Store.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store implements gateway.Reader over a pgx connection pool.
type Store struct {
	db    querier
	close func()
}

// Open connects to the database at dsn and verifies it answers.
// The dsn is not included in returned errors.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.New("pg parse config: invalid database url")
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnIdleTime = maxConnIdleTime
	cfg.MaxConnLifetime = maxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return &Store{db: pool, close: pool.Close}, nil
}

// New wraps an existing pool. The caller keeps ownership of it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// Close releases the pool opened by Open.
func (s *Store) Close() error {
	if s.close != nil {
		s.close()
		s.close = nil
	}
	return nil
}

func (s *Store) Projects(ctx context.Context, q gateway.Query) ([]model.Project, error) {
	return collect[model.Project](ctx, s.db, model.KindProject, q)
}

func (s *Store) Deliverables(ctx context.Context, q gateway.Query) ([]model.Deliverable, error) {
	return collect[model.Deliverable](ctx, s.db, model.KindDeliverable, q)
}

func (s *Store) KPIs(ctx context.Context, q gateway.Query) ([]model.KPI, error) {
	return collect[model.KPI](ctx, s.db, model.KindKPI, q)
}

func (s *Store) Tools(ctx context.Context, q gateway.Query) ([]model.Tool, error) {
	return collect[model.Tool](ctx, s.db, model.KindTool, q)
}

func (s *Store) MethodologySteps(ctx context.Context, q gateway.Query) ([]model.MethodologyStep, error) {
	return collect[model.MethodologyStep](ctx, s.db, model.KindMethodologyStep, q)
}

// buildQuery renders the SELECT for kind. Only whitelisted identifiers are
// interpolated; gateway.Check must have accepted q.
func buildQuery(kind model.Kind, q gateway.Query) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(selects[kind])
	b.WriteString(" FROM ")
	b.WriteString(pgx.Identifier{kind.Table()}.Sanitize())
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(pgx.Identifier{q.OrderBy}.Sanitize())
		b.WriteString(" ASC")
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.Limit))
	}
	return b.String()
}

func collect[T any](ctx context.Context, db querier, kind model.Kind, q gateway.Query) ([]T, error) {
	if err := gateway.Check(kind, q); err != nil {
		return nil, err
	}
	if db == nil {
		return nil, gateway.Fail(kind, gateway.ErrClosed)
	}
	rows, err := db.Query(ctx, buildQuery(kind, q))
	if err != nil {
		return nil, gateway.Fail(kind, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, gateway.Fail(kind, err)
	}
	return gateway.NonNil(out), nil
}
