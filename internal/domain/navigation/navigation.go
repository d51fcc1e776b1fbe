// Package navigation holds the view-selection state of the dashboard shell.
package navigation

// ViewID identifies one of the dashboard views.
type ViewID string

// Dashboard views, in tab order.
const (
	ViewDashboard    ViewID = "dashboard"
	ViewOverview     ViewID = "overview"
	ViewDeliverables ViewID = "deliverables"
	ViewMethodology  ViewID = "methodology"
	ViewTools        ViewID = "tools"
	ViewResults      ViewID = "results"
)

// DefaultView is shown on first load and for unknown section ids.
const DefaultView = ViewDashboard

// Section is one navigation tab.
type Section struct {
	ID    ViewID `json:"id"`
	Label string `json:"label"`
}

var sections = []Section{
	{ID: ViewDashboard, Label: "Dashboard"},
	{ID: ViewOverview, Label: "Vue d'ensemble"},
	{ID: ViewDeliverables, Label: "Livrables"},
	{ID: ViewMethodology, Label: "Méthodologie"},
	{ID: ViewTools, Label: "Technologies"},
	{ID: ViewResults, Label: "Résultats"},
}

// Sections returns the navigation tabs in display order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Parse returns the view named by id and whether it exists.
func Parse(id string) (ViewID, bool) {
	for _, s := range sections {
		if string(s.ID) == id {
			return s.ID, true
		}
	}
	return "", false
}

// State is the shell state: which view is active.
type State struct {
	Active ViewID `json:"active"`
}

// Initial returns the state of a freshly opened shell.
func Initial() State {
	return State{Active: DefaultView}
}

// Select returns the state after a section-change request. Unknown ids select
// the default view.
func Select(_ State, requested string) State {
	if id, ok := Parse(requested); ok {
		return State{Active: id}
	}
	return State{Active: DefaultView}
}
