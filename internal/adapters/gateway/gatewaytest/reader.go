// Package gatewaytest provides an in-memory gateway.Reader for tests.
package gatewaytest

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/okian/govdash/internal/adapters/gateway"
	"github.com/okian/govdash/internal/domain/model"
)

// Reader serves fixed records from memory. Failures and blocking can be
// injected per kind. Safe for concurrent use.
type Reader struct {
	mu sync.Mutex

	ProjectRows     []model.Project
	DeliverableRows []model.Deliverable
	KPIRows         []model.KPI
	ToolRows        []model.Tool
	StepRows        []model.MethodologyStep

	errs    map[model.Kind]error
	gates   map[model.Kind]chan struct{}
	queries map[model.Kind][]gateway.Query
}

// New returns an empty Reader.
func New() *Reader {
	return &Reader{
		errs:    make(map[model.Kind]error),
		gates:   make(map[model.Kind]chan struct{}),
		queries: make(map[model.Kind][]gateway.Query),
	}
}

// FailWith makes every fetch of kind return err.
func (r *Reader) FailWith(kind model.Kind, err error) *Reader {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[kind] = err
	return r
}

// Block makes fetches of kind wait until the returned release func is called
// or their context ends.
func (r *Reader) Block(kind model.Kind) (release func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gate := make(chan struct{})
	r.gates[kind] = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Queries returns the queries received for kind, in call order.
func (r *Reader) Queries(kind model.Kind) []gateway.Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.queries[kind])
}

func (r *Reader) Projects(ctx context.Context, q gateway.Query) ([]model.Project, error) {
	return serve(ctx, r, model.KindProject, q, r.ProjectRows, func(p model.Project, field string) any {
		switch field {
		case "title":
			return p.Title
		case "created_at":
			return p.CreatedAt.UnixNano()
		}
		return p.ID
	})
}

func (r *Reader) Deliverables(ctx context.Context, q gateway.Query) ([]model.Deliverable, error) {
	return serve(ctx, r, model.KindDeliverable, q, r.DeliverableRows, func(d model.Deliverable, field string) any {
		switch field {
		case "category":
			return d.Category
		case "title":
			return d.Title
		case "completion_percentage":
			return d.CompletionPercentage
		}
		return d.ID
	})
}

func (r *Reader) KPIs(ctx context.Context, q gateway.Query) ([]model.KPI, error) {
	return serve(ctx, r, model.KindKPI, q, r.KPIRows, func(k model.KPI, field string) any {
		if field == "name" {
			return k.Name
		}
		return k.ID
	})
}

func (r *Reader) Tools(ctx context.Context, q gateway.Query) ([]model.Tool, error) {
	return serve(ctx, r, model.KindTool, q, r.ToolRows, func(t model.Tool, field string) any {
		switch field {
		case "category":
			return t.Category
		case "name":
			return t.Name
		}
		return t.ID
	})
}

func (r *Reader) MethodologySteps(ctx context.Context, q gateway.Query) ([]model.MethodologyStep, error) {
	return serve(ctx, r, model.KindMethodologyStep, q, r.StepRows, func(s model.MethodologyStep, field string) any {
		if field == "step_number" {
			return s.StepNumber
		}
		return s.ID
	})
}

func serve[T any](
	ctx context.Context,
	r *Reader,
	kind model.Kind,
	q gateway.Query,
	rows []T,
	key func(T, string) any,
) ([]T, error) {
	r.mu.Lock()
	r.queries[kind] = append(r.queries[kind], q)
	injected := r.errs[kind]
	gate := r.gates[kind]
	rows = slices.Clone(rows)
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, gateway.Fail(kind, ctx.Err())
		}
	}
	if err := gateway.Check(kind, q); err != nil {
		return nil, err
	}
	if injected != nil {
		return nil, gateway.Fail(kind, injected)
	}

	if q.OrderBy != "" {
		slices.SortStableFunc(rows, func(a, b T) int {
			return compare(key(a, q.OrderBy), key(b, q.OrderBy))
		})
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return gateway.NonNil(rows), nil
}

func compare(a, b any) int {
	switch av := a.(type) {
	case string:
		return cmp.Compare(av, b.(string))
	case int:
		return cmp.Compare(av, b.(int))
	case int64:
		return cmp.Compare(av, b.(int64))
	}
	return 0
}
