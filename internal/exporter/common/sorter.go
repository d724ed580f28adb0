package common

import (
	"sort"

	"rest-recon/internal/model"
)

// SortByPath returns a copy of entries ordered by endpoint path, then stem.
func SortByPath(entries []model.Generated) []model.Generated {
	out := append([]model.Generated(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Endpoint.Path != out[j].Endpoint.Path {
			return out[i].Endpoint.Path < out[j].Endpoint.Path
		}
		return out[i].Stem < out[j].Stem
	})
	return out
}

// ResourceCount is the number of endpoints of one resource type.
type ResourceCount struct {
	Type  model.ResourceType
	Count int
}

// ResourceCounts lists every resource type with its endpoint count, in the fixed type order.
func ResourceCounts(report *model.Report) []ResourceCount {
	counts := report.CountByResource()
	out := make([]ResourceCount, 0, len(model.ResourceTypes))
	for _, rt := range model.ResourceTypes {
		out = append(out, ResourceCount{Type: rt, Count: counts[rt]})
	}
	return out
}
