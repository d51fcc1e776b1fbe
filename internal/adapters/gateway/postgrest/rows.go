package postgrest

import (
	"fmt"
	"time"

	"github.com/okian/govdash/internal/domain/model"
)

// Layouts PostgREST uses for timestamptz, timestamp and date columns.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// deliverableRow mirrors the deliverables table, whose delivery_date may be a
// plain date column.
type deliverableRow struct {
	ID                   string    `json:"id"`
	ProjectID            string    `json:"project_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Category             string    `json:"category"`
	CompletionPercentage int       `json:"completion_percentage"`
	DeliveryDate         *string   `json:"delivery_date"`
	CreatedAt            time.Time `json:"created_at"`
}

func (r deliverableRow) toModel() (model.Deliverable, error) {
	d := model.Deliverable{
		ID:                   r.ID,
		ProjectID:            r.ProjectID,
		Title:                r.Title,
		Description:          r.Description,
		Category:             r.Category,
		CompletionPercentage: r.CompletionPercentage,
		CreatedAt:            r.CreatedAt,
	}
	if r.DeliveryDate != nil && *r.DeliveryDate != "" {
		t, err := parseTime(*r.DeliveryDate)
		if err != nil {
			return model.Deliverable{}, fmt.Errorf("delivery_date: %w", err)
		}
		d.DeliveryDate = &t
	}
	return d, nil
}
