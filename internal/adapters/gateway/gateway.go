// Package gateway defines the read contract between the dashboard views and
// the portfolio backend.
package gateway

import (
	"context"
	"fmt"

	"github.com/okian/govdash/internal/domain/model"
)

// Query narrows a fetch. The zero Query returns every record in backend order.
type Query struct {
	// OrderBy names a sortable column of the kind; ascending.
	OrderBy string
	// Limit caps the number of records; zero means no limit.
	Limit int
}

// Reader fetches snapshots of the portfolio tables.
//
// On success every method returns a non-nil slice, possibly empty. Any
// transport or query failure is returned as a *FetchError, so callers can tell
// "failed" apart from "successfully empty".
type Reader interface {
	Projects(ctx context.Context, q Query) ([]model.Project, error)
	Deliverables(ctx context.Context, q Query) ([]model.Deliverable, error)
	KPIs(ctx context.Context, q Query) ([]model.KPI, error)
	Tools(ctx context.Context, q Query) ([]model.Tool, error)
	MethodologySteps(ctx context.Context, q Query) ([]model.MethodologyStep, error)
}

// Check validates q against kind before it reaches a backend.
func Check(kind model.Kind, q Query) error {
	if !kind.Valid() {
		return Fail(kind, fmt.Errorf("%w: %q", ErrUnknownKind, kind))
	}
	if q.Limit < 0 {
		return Fail(kind, fmt.Errorf("%w: %d", ErrInvalidLimit, q.Limit))
	}
	if q.OrderBy != "" && !kind.Sortable(q.OrderBy) {
		return Fail(kind, fmt.Errorf("%w: %q", ErrUnknownField, q.OrderBy))
	}
	return nil
}

// NonNil returns rows, or an empty slice when rows is nil.
func NonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
