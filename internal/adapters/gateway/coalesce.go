package gateway

import (
	"context"
	"slices"
	"strconv"

	"github.com/okian/govdash/internal/domain/model"
	"golang.org/x/sync/singleflight"
)

// coalesced shares one backend call between concurrent identical fetches.
// Nothing is retained once the call returns.
type coalesced struct {
	next Reader
	sf   singleflight.Group
}

// Coalesce wraps next so concurrent fetches of the same kind and query are
// served by a single backend call. Each caller still honors its own context;
// the shared call keeps the values and deadline of the first caller but is
// not cancelled when that caller goes away.
func Coalesce(next Reader) Reader {
	return &coalesced{next: next}
}

func (r *coalesced) Projects(ctx context.Context, q Query) ([]model.Project, error) {
	return share(ctx, &r.sf, model.KindProject, q, r.next.Projects)
}

func (r *coalesced) Deliverables(ctx context.Context, q Query) ([]model.Deliverable, error) {
	return share(ctx, &r.sf, model.KindDeliverable, q, r.next.Deliverables)
}

func (r *coalesced) KPIs(ctx context.Context, q Query) ([]model.KPI, error) {
	return share(ctx, &r.sf, model.KindKPI, q, r.next.KPIs)
}

func (r *coalesced) Tools(ctx context.Context, q Query) ([]model.Tool, error) {
	return share(ctx, &r.sf, model.KindTool, q, r.next.Tools)
}

func (r *coalesced) MethodologySteps(ctx context.Context, q Query) ([]model.MethodologyStep, error) {
	return share(ctx, &r.sf, model.KindMethodologyStep, q, r.next.MethodologySteps)
}

// Close closes the wrapped reader when it holds resources.
func (r *coalesced) Close() error {
	if c, ok := r.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func share[T any](
	ctx context.Context,
	sf *singleflight.Group,
	kind model.Kind,
	q Query,
	fetch func(context.Context, Query) ([]T, error),
) ([]T, error) {
	if err := Check(kind, q); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Fail(kind, err)
	}

	key := string(kind) + "|" + q.OrderBy + "|" + strconv.Itoa(q.Limit)
	ch := sf.DoChan(key, func() (any, error) {
		shared, cancel := detach(ctx)
		defer cancel()
		return fetch(shared, q)
	})

	select {
	case <-ctx.Done():
		return nil, Fail(kind, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, Fail(kind, res.Err)
		}
		rows, _ := res.Val.([]T)
		return slices.Clone(NonNil(rows)), nil
	}
}

// detach drops ctx cancellation but keeps its values and deadline.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	out := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(out, deadline)
	}
	return context.WithCancel(out)
}
