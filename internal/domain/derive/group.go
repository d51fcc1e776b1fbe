package derive

import (
	"cmp"
	"slices"

	"github.com/okian/govdash/internal/domain/model"
)

// Group is one category bucket, holding its records in input order.
type Group[T any] struct {
	Category string `json:"category"`
	Items    []T    `json:"items"`
}

// GroupByCategory partitions records by the label returned by categoryOf.
//
// Groups appear in the order their category is first seen, and records keep
// their relative input order within a group. Input does not need to be
// sorted. Empty or unrecognised labels form a group keyed by that literal
// label; no record is dropped.
func GroupByCategory[T any](records []T, categoryOf func(T) string) []Group[T] {
	groups := make([]Group[T], 0)
	index := make(map[string]int)
	for _, r := range records {
		c := categoryOf(r)
		i, ok := index[c]
		if !ok {
			i = len(groups)
			index[c] = i
			groups = append(groups, Group[T]{Category: c})
		}
		groups[i].Items = append(groups[i].Items, r)
	}
	return groups
}

// DeliverableCategory is the grouping key of a deliverable.
func DeliverableCategory(d model.Deliverable) string { return d.Category }

// ToolCategory is the grouping key of a tool.
func ToolCategory(t model.Tool) string { return t.Category }

// SortSteps returns a copy of steps in ascending step_number order. Steps
// sharing a number keep their input order.
func SortSteps(steps []model.MethodologyStep) []model.MethodologyStep {
	out := slices.Clone(steps)
	if out == nil {
		out = []model.MethodologyStep{}
	}
	slices.SortStableFunc(out, func(a, b model.MethodologyStep) int {
		return cmp.Compare(a.StepNumber, b.StepNumber)
	})
	return out
}
