package gateway

import (
	"context"
	"time"

	"github.com/okian/govdash/internal/domain/model"
	"github.com/okian/govdash/pkg/logger"
	"github.com/okian/govdash/pkg/metrics"
	"github.com/okian/govdash/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const nanosecondsPerMillisecond = 1e6

// instrumented decorates a Reader with logging, tracing and Prometheus metrics. It
// also normalizes results: nil slices become empty, errors become FetchErrors.
type instrumented struct {
	next Reader
	log  logger.Logger
}

// Instrument wraps next so every fetch is logged and measured. Only the kind,
// query, record count and latency are logged; backend addresses and
// credentials never are.
func Instrument(next Reader, log logger.Logger) Reader {
	if log == nil {
		log = logger.Nop()
	}
	return &instrumented{next: next, log: log.Named("gateway")}
}

func (r *instrumented) Projects(ctx context.Context, q Query) ([]model.Project, error) {
	return observe(ctx, r.log, model.KindProject, q, r.next.Projects)
}

func (r *instrumented) Deliverables(ctx context.Context, q Query) ([]model.Deliverable, error) {
	return observe(ctx, r.log, model.KindDeliverable, q, r.next.Deliverables)
}

func (r *instrumented) KPIs(ctx context.Context, q Query) ([]model.KPI, error) {
	return observe(ctx, r.log, model.KindKPI, q, r.next.KPIs)
}

func (r *instrumented) Tools(ctx context.Context, q Query) ([]model.Tool, error) {
	return observe(ctx, r.log, model.KindTool, q, r.next.Tools)
}

func (r *instrumented) MethodologySteps(ctx context.Context, q Query) ([]model.MethodologyStep, error) {
	return observe(ctx, r.log, model.KindMethodologyStep, q, r.next.MethodologySteps)
}

// Close closes the wrapped reader when it holds resources.
func (r *instrumented) Close() error {
	if c, ok := r.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func observe[T any](
	ctx context.Context,
	log logger.Logger,
	kind model.Kind,
	q Query,
	fetch func(context.Context, Query) ([]T, error),
) ([]T, error) {
	ctx, span := tracing.Tracer().Start(ctx, "gateway.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("record.kind", string(kind)),
			attribute.String("query.order_by", q.OrderBy),
			attribute.Int("query.limit", q.Limit),
		),
	)
	defer span.End()

	start := time.Now()
	rows, err := fetch(ctx, q)
	elapsed := time.Since(start)
	latencyMs := float64(elapsed.Nanoseconds()) / nanosecondsPerMillisecond

	if err != nil {
		err = Fail(kind, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		metrics.RecordFetchFailure(string(kind), latencyMs)
		log.Warn(ctx, "fetch failed",
			logger.String("kind", string(kind)),
			logger.String("order_by", q.OrderBy),
			logger.Duration("took", elapsed),
			logger.Error(err),
		)
		return nil, err
	}

	rows = NonNil(rows)
	span.SetAttributes(attribute.Int("records", len(rows)))
	metrics.RecordFetch(string(kind), latencyMs, len(rows))
	log.Debug(ctx, "fetched records",
		logger.String("kind", string(kind)),
		logger.String("order_by", q.OrderBy),
		logger.Int("limit", q.Limit),
		logger.Int("records", len(rows)),
		logger.Duration("took", elapsed),
	)
	return rows, nil
}
