package model

// Kind identifies one backend table of the portfolio.
type Kind string

// Record kinds, named after their backend tables.
const (
	KindProject         Kind = "projects"
	KindDeliverable     Kind = "deliverables"
	KindKPI             Kind = "kpis"
	KindTool            Kind = "tools"
	KindMethodologyStep Kind = "methodology_steps"
)

// Kinds lists every record kind.
func Kinds() []Kind {
	return []Kind{KindProject, KindDeliverable, KindKPI, KindTool, KindMethodologyStep}
}

// columns holds the scalar columns each kind can be ordered by.
var columns = map[Kind][]string{
	KindProject:         {"id", "title", "period", "status", "created_at"},
	KindDeliverable:     {"id", "project_id", "title", "category", "completion_percentage", "delivery_date", "created_at"},
	KindKPI:             {"id", "name", "initial_value", "target_value", "current_value", "unit", "improvement_percentage", "created_at"},
	KindTool:            {"id", "name", "category", "created_at"},
	KindMethodologyStep: {"id", "step_number", "title", "created_at"},
}

// Table returns the backend table name for k.
func (k Kind) Table() string { return string(k) }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := columns[k]
	return ok
}

// Sortable reports whether field is a column of k that can be used for ordering.
func (k Kind) Sortable(field string) bool {
	for _, c := range columns[k] {
		if c == field {
			return true
		}
	}
	return false
}
