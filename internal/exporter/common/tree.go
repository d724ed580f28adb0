package common

import "rest-recon/internal/model"

// ControllerGroup is a controller with the generated entries derived from it.
type ControllerGroup struct {
	Controller model.Controller
	Entries    []model.Generated
	Tests      int
}

// GroupByController returns one group per controller, in report order.
// Controllers that produced no endpoints are kept with no entries so the
// summary still lists them.
func GroupByController(report *model.Report) []ControllerGroup {
	groups := make([]ControllerGroup, 0, len(report.Controllers))
	for _, c := range report.Controllers {
		g := ControllerGroup{Controller: c}
		for _, entry := range report.Generated {
			if entry.Endpoint.FileName == c.FileName && entry.Endpoint.Controller == c.ClassName {
				g.Entries = append(g.Entries, entry)
				g.Tests += len(entry.TestNames)
			}
		}
		groups = append(groups, g)
	}
	return groups
}
