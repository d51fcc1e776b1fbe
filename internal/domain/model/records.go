// Package model contains the record types read from the portfolio backend.
package model

import "time"

// Project describes the governance project shown on the overview page.
// Objectives and Results are kept in display order.
type Project struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Period      string    `json:"period" db:"period"`
	Context     string    `json:"context" db:"context"`
	Objectives  []string  `json:"objectives" db:"objectives"`
	Results     []string  `json:"results" db:"results"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Deliverable is a project output tracked by completion percentage.
// CompletionPercentage is expected in 0..100 but is not validated here.
type Deliverable struct {
	ID                   string     `json:"id" db:"id"`
	ProjectID            string     `json:"project_id" db:"project_id"`
	Title                string     `json:"title" db:"title"`
	Description          string     `json:"description" db:"description"`
	Category             string     `json:"category" db:"category"`
	CompletionPercentage int        `json:"completion_percentage" db:"completion_percentage"`
	DeliveryDate         *time.Time `json:"delivery_date" db:"delivery_date"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
}

// KPI tracks a numeric indicator from its initial value towards a target.
type KPI struct {
	ID                    string    `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	InitialValue          float64   `json:"initial_value" db:"initial_value"`
	TargetValue           float64   `json:"target_value" db:"target_value"`
	CurrentValue          float64   `json:"current_value" db:"current_value"`
	Unit                  string    `json:"unit" db:"unit"`
	ImprovementPercentage *float64  `json:"improvement_percentage" db:"improvement_percentage"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}

// Tool is one entry of the tooling inventory.
// Icon names a pictogram and may not resolve to a known one.
type Tool struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Description *string   `json:"description" db:"description"`
	Icon        *string   `json:"icon" db:"icon"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// MethodologyStep is one phase of the execution plan. StepNumber is both the
// sort key and the displayed ordinal; uniqueness is not enforced.
type MethodologyStep struct {
	ID          string    `json:"id" db:"id"`
	StepNumber  int       `json:"step_number" db:"step_number"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Activities  []string  `json:"activities" db:"activities"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
