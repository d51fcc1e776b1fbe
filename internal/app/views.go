package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/okian/govdash/internal/adapters/gateway"
	"github.com/okian/govdash/internal/domain/derive"
	"github.com/okian/govdash/internal/domain/model"
	"github.com/okian/govdash/internal/domain/navigation"
	"github.com/okian/govdash/pkg/logger"
	"github.com/okian/govdash/pkg/metrics"
	"github.com/okian/govdash/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Status tells the presentation layer which state a view is in.
type Status string

const (
	StatusReady       Status = "ready"
	StatusEmpty       Status = "empty"
	StatusUnavailable Status = "unavailable"
)

// Document is one assembled view. Data holds the view-specific payload, and
// is the empty payload when Status is not ready.
type Document struct {
	View   navigation.ViewID `json:"view"`
	Status Status            `json:"status"`
	Data   any               `json:"data"`
}

// KPICard is one dashboard indicator.
type KPICard struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Unit         string   `json:"unit"`
	InitialValue float64  `json:"initial_value"`
	TargetValue  float64  `json:"target_value"`
	CurrentValue float64  `json:"current_value"`
	Improvement  *float64 `json:"improvement_percentage"`
	// Progress is bounded to [0, 100] and sizes the progress bar.
	Progress float64 `json:"progress"`
	// RawProgress and Label may exceed 100 when the target is overshot.
	RawProgress float64 `json:"raw_progress"`
	Label       int     `json:"progress_label"`
}

// DashboardView lists one card per KPI, in name order.
type DashboardView struct {
	Cards []KPICard `json:"cards"`
}

// OverviewView shows the first project, when there is one.
type OverviewView struct {
	Found   bool           `json:"found"`
	Project *model.Project `json:"project"`
}

// DeliverableCard is a deliverable with its display-ready completion.
type DeliverableCard struct {
	model.Deliverable
	Percent float64 `json:"percent"`
	Done    bool    `json:"done"`
}

// DeliverableGroup is one category section of the deliverables view.
type DeliverableGroup struct {
	Category  string            `json:"category"`
	Pictogram derive.Pictogram  `json:"pictogram"`
	Items     []DeliverableCard `json:"items"`
}

// DeliverablesView groups deliverables by category.
type DeliverablesView struct {
	Groups  []DeliverableGroup `json:"groups"`
	Summary derive.Completion  `json:"summary"`
}

// MethodologyView lists the steps in ascending step number.
type MethodologyView struct {
	Steps []model.MethodologyStep `json:"steps"`
}

// ToolCard is a tool with its resolved pictogram.
type ToolCard struct {
	model.Tool
	Pictogram derive.Pictogram `json:"pictogram"`
}

// ToolGroup is one category section of the tools view.
type ToolGroup struct {
	Category  string           `json:"category"`
	Pictogram derive.Pictogram `json:"pictogram"`
	Items     []ToolCard       `json:"items"`
}

// ToolsView groups the tooling inventory by category.
type ToolsView struct {
	Groups []ToolGroup `json:"groups"`
}

// Indicator is one row of the results table.
type Indicator struct {
	Name         string   `json:"name"`
	Unit         string   `json:"unit"`
	InitialValue float64  `json:"initial_value"`
	CurrentValue float64  `json:"current_value"`
	TargetValue  float64  `json:"target_value"`
	Improvement  *float64 `json:"improvement_percentage"`
	Label        int      `json:"progress_label"`
	Reached      bool     `json:"reached"`
}

// ResultsView narrates the project results backed by the KPI table.
type ResultsView struct {
	Results    []string    `json:"results"`
	Indicators []Indicator `json:"indicators"`
}

// Render fetches, derives and returns the document for view. Fetch failures
// never escape: they yield StatusUnavailable with an empty payload. The only
// error is ErrUnknownView.
func (s *Service) Render(ctx context.Context, view navigation.ViewID) (Document, error) {
	var (
		data  any
		count int
		err   error
	)
	start := time.Now()

	if _, ok := navigation.Parse(string(view)); !ok {
		return Document{}, ErrUnknownView
	}
	ctx, span := tracing.Tracer().Start(ctx, "view.render",
		trace.WithAttributes(attribute.String("view", string(view))),
	)
	defer span.End()

	switch view {
	case navigation.ViewDashboard:
		data, count, err = s.dashboard(ctx)
	case navigation.ViewOverview:
		data, count, err = s.overview(ctx)
	case navigation.ViewDeliverables:
		data, count, err = s.deliverables(ctx)
	case navigation.ViewMethodology:
		data, count, err = s.methodology(ctx)
	case navigation.ViewTools:
		data, count, err = s.tools(ctx)
	case navigation.ViewResults:
		data, count, err = s.results(ctx)
	}

	doc := Document{View: view, Status: StatusReady, Data: data}
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		// The caller gave up, usually because a newer activation superseded
		// this one. Not a backend outage, so it is not counted.
		doc.Status = StatusUnavailable
		doc.Data = emptyPayload(view)
		span.SetAttributes(attribute.Bool("view.cancelled", true))
		s.logger.Debug(ctx, "view render cancelled", logger.String("view", string(view)))
		return doc, nil
	}
	switch {
	case err != nil:
		doc.Status = StatusUnavailable
		doc.Data = emptyPayload(view)
		s.unavailable.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "view unavailable")
		s.logger.Warn(ctx, "view unavailable",
			logger.String("view", string(view)),
			logger.Bool("fetchFailed", errors.Is(err, gateway.ErrFetch)),
			logger.Error(err),
		)
	case count == 0:
		doc.Status = StatusEmpty
	}

	s.renders.Add(1)
	span.SetAttributes(attribute.String("view.status", string(doc.Status)), attribute.Int("records", count))
	metrics.RecordViewRender(string(view), string(doc.Status))
	s.logger.Debug(ctx, "view rendered",
		logger.String("view", string(view)),
		logger.String("status", string(doc.Status)),
		logger.Int("records", count),
		logger.Duration("took", time.Since(start)),
	)
	return doc, nil
}

func emptyPayload(view navigation.ViewID) any {
	switch view {
	case navigation.ViewDashboard:
		return DashboardView{Cards: []KPICard{}}
	case navigation.ViewOverview:
		return OverviewView{}
	case navigation.ViewDeliverables:
		return DeliverablesView{Groups: []DeliverableGroup{}}
	case navigation.ViewMethodology:
		return MethodologyView{Steps: []model.MethodologyStep{}}
	case navigation.ViewTools:
		return ToolsView{Groups: []ToolGroup{}}
	case navigation.ViewResults:
		return ResultsView{Results: []string{}, Indicators: []Indicator{}}
	}
	return nil
}

// fetch runs one gateway call bounded by timeout, when positive.
func fetch[T any](
	ctx context.Context,
	timeout time.Duration,
	q gateway.Query,
	call func(context.Context, gateway.Query) ([]T, error),
) ([]T, error) {
	if timeout <= 0 {
		return call(ctx, q)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return call(ctx, q)
}

func (s *Service) dashboard(ctx context.Context) (any, int, error) {
	kpis, err := fetch(ctx, s.fetchTimeout, gateway.Query{OrderBy: "name"}, s.reader.KPIs)
	if err != nil {
		return nil, 0, err
	}
	cards := make([]KPICard, len(kpis))
	for i, k := range kpis {
		cards[i] = KPICard{
			ID:           k.ID,
			Name:         k.Name,
			Unit:         k.Unit,
			InitialValue: k.InitialValue,
			TargetValue:  k.TargetValue,
			CurrentValue: k.CurrentValue,
			Improvement:  k.ImprovementPercentage,
			Progress:     derive.Progress(k.InitialValue, k.TargetValue, k.CurrentValue),
			RawProgress:  finite(derive.RawProgress(k.InitialValue, k.TargetValue, k.CurrentValue)),
			Label:        derive.ProgressLabel(k.InitialValue, k.TargetValue, k.CurrentValue),
		}
	}
	return DashboardView{Cards: cards}, len(cards), nil
}

// finite keeps overflowed ratios encodable as JSON numbers.
func finite(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

func (s *Service) overview(ctx context.Context) (any, int, error) {
	projects, err := fetch(ctx, s.fetchTimeout, gateway.Query{Limit: 1}, s.reader.Projects)
	if err != nil {
		return nil, 0, err
	}
	if len(projects) == 0 {
		return OverviewView{}, 0, nil
	}
	p := projects[0]
	p.Objectives = gateway.NonNil(p.Objectives)
	p.Results = gateway.NonNil(p.Results)
	return OverviewView{Found: true, Project: &p}, 1, nil
}

func (s *Service) deliverables(ctx context.Context) (any, int, error) {
	ds, err := fetch(ctx, s.fetchTimeout, gateway.Query{OrderBy: "category"}, s.reader.Deliverables)
	if err != nil {
		return nil, 0, err
	}
	groups := derive.GroupByCategory(ds, derive.DeliverableCategory)
	out := make([]DeliverableGroup, len(groups))
	for i, g := range groups {
		items := make([]DeliverableCard, len(g.Items))
		for j, d := range g.Items {
			items[j] = DeliverableCard{Deliverable: d, Percent: derive.DeliverablePercent(d), Done: derive.Done(d)}
		}
		out[i] = DeliverableGroup{Category: g.Category, Pictogram: derive.CategoryPictogram(g.Category), Items: items}
	}
	return DeliverablesView{Groups: out, Summary: derive.Summarize(ds)}, len(ds), nil
}

func (s *Service) methodology(ctx context.Context) (any, int, error) {
	steps, err := fetch(ctx, s.fetchTimeout, gateway.Query{OrderBy: "step_number"}, s.reader.MethodologySteps)
	if err != nil {
		return nil, 0, err
	}
	sorted := derive.SortSteps(steps)
	for i := range sorted {
		sorted[i].Activities = gateway.NonNil(sorted[i].Activities)
	}
	return MethodologyView{Steps: sorted}, len(sorted), nil
}

func (s *Service) tools(ctx context.Context) (any, int, error) {
	ts, err := fetch(ctx, s.fetchTimeout, gateway.Query{OrderBy: "category"}, s.reader.Tools)
	if err != nil {
		return nil, 0, err
	}
	groups := derive.GroupByCategory(ts, derive.ToolCategory)
	out := make([]ToolGroup, len(groups))
	for i, g := range groups {
		items := make([]ToolCard, len(g.Items))
		for j, t := range g.Items {
			items[j] = ToolCard{Tool: t, Pictogram: derive.ResolvePictogram(t.Icon)}
		}
		out[i] = ToolGroup{Category: g.Category, Pictogram: derive.CategoryPictogram(g.Category), Items: items}
	}
	return ToolsView{Groups: out}, len(ts), nil
}

// results reads sequentially; either failure makes the whole view unavailable.
func (s *Service) results(ctx context.Context) (any, int, error) {
	projects, err := fetch(ctx, s.fetchTimeout, gateway.Query{Limit: 1}, s.reader.Projects)
	if err != nil {
		return nil, 0, err
	}
	kpis, err := fetch(ctx, s.fetchTimeout, gateway.Query{OrderBy: "name"}, s.reader.KPIs)
	if err != nil {
		return nil, 0, err
	}

	view := ResultsView{Results: []string{}, Indicators: make([]Indicator, len(kpis))}
	if len(projects) > 0 {
		view.Results = gateway.NonNil(projects[0].Results)
	}
	for i, k := range kpis {
		view.Indicators[i] = Indicator{
			Name:         k.Name,
			Unit:         k.Unit,
			InitialValue: k.InitialValue,
			CurrentValue: k.CurrentValue,
			TargetValue:  k.TargetValue,
			Improvement:  k.ImprovementPercentage,
			Label:        derive.ProgressLabel(k.InitialValue, k.TargetValue, k.CurrentValue),
			Reached:      derive.Progress(k.InitialValue, k.TargetValue, k.CurrentValue) >= 100,
		}
	}
	return view, len(view.Results) + len(view.Indicators), nil
}
