package service_test

import (
	"time"

	"github.com/okian/govdash/internal/adapters/gateway/gatewaytest"
	"github.com/okian/govdash/internal/domain/model"
)

func ptr[T any](v T) *T { return &v }

var created = time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)

// portfolio returns a reader seeded with a small, deliberately unordered
// portfolio.
func portfolio() *gatewaytest.Reader {
	r := gatewaytest.New()
	r.ProjectRows = []model.Project{{
		ID:         "p1",
		Title:      "Gouvernance des données",
		Period:     "Décembre 2024 – Juillet 2025",
		Objectives: []string{"Cartographier", "Qualifier"},
		Results:    []string{"Référentiel publié"},
		Status:     "active",
		CreatedAt:  created,
	}}
	r.KPIRows = []model.KPI{
		{ID: "k2", Name: "Qualité", InitialValue: 55, TargetValue: 80, CurrentValue: 79, Unit: "%", ImprovementPercentage: ptr(43.6)},
		{ID: "k1", Name: "Couverture", InitialValue: 0, TargetValue: 25, CurrentValue: 27, Unit: "tables"},
		{ID: "k3", Name: "Stable", InitialValue: 10, TargetValue: 10, CurrentValue: 10, Unit: "j"},
	}
	r.DeliverableRows = []model.Deliverable{
		{ID: "d1", Title: "Modèle", Category: "Architecture", CompletionPercentage: 60},
		{ID: "d2", Title: "Glossaire", Category: "Documentation", CompletionPercentage: 100},
		{ID: "d3", Title: "Schéma", Category: "Architecture", CompletionPercentage: 100},
		{ID: "d4", Title: "Atelier", Category: "Atelier", CompletionPercentage: 20},
	}
	r.ToolRows = []model.Tool{
		{ID: "t1", Name: "Postgres", Category: "Stockage", Icon: ptr("Database")},
		{ID: "t2", Name: "Grafana", Category: "Observabilité", Icon: ptr("no-such-icon")},
		{ID: "t3", Name: "DuckDB", Category: "Stockage"},
	}
	r.StepRows = []model.MethodologyStep{
		{ID: "s3", StepNumber: 3, Title: "Déployer"},
		{ID: "s1a", StepNumber: 1, Title: "Cadrer"},
		{ID: "s2", StepNumber: 2, Title: "Construire", Activities: []string{"modéliser"}},
		{ID: "s1b", StepNumber: 1, Title: "Auditer"},
	}
	return r
}
