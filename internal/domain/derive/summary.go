package derive

import (
	"math"

	"github.com/okian/govdash/internal/domain/model"
)

// Completion is the aggregate progress of a set of deliverables.
type Completion struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Average   float64 `json:"average_percentage"`
}

// Done reports whether a deliverable is fully delivered.
func Done(d model.Deliverable) bool {
	return d.CompletionPercentage >= maxPercent
}

// DeliverablePercent returns the completion of d bounded to [0, 100], so a
// producer sending 120 still draws a full bar.
func DeliverablePercent(d model.Deliverable) float64 {
	return Progress(minPercent, maxPercent, float64(d.CompletionPercentage))
}

// Summarize counts deliverables and averages their bounded completion,
// rounded to one decimal. An empty input yields the zero Completion.
func Summarize(ds []model.Deliverable) Completion {
	if len(ds) == 0 {
		return Completion{}
	}
	var sum float64
	c := Completion{Total: len(ds)}
	for _, d := range ds {
		if Done(d) {
			c.Completed++
		}
		sum += DeliverablePercent(d)
	}
	c.Average = math.Round(sum/float64(len(ds))*10) / 10
	return c
}
