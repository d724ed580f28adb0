package model

// Generated pairs an endpoint with the files written for it.
type Generated struct {
	Endpoint  Endpoint
	Stem      string   // unique file stem, e.g. "categories" or "abilities_2"
	TestFile  string   // relative to the output directory
	DocFile   string   // relative to the output directory
	TestNames []string // Go test function names, in battery order
}

// SkippedFile is a scanned file that did not produce a controller.
type SkippedFile struct {
	Path   string
	Reason string
}

// Report accumulates the results of one generation run.
// Stages only ever append to it.
type Report struct {
	SourceRoot     string
	BatteryVersion string

	FilesScanned int
	Controllers  []Controller
	Generated    []Generated
	Skipped      []SkippedFile
	Warnings     []string
}

// NewReport creates an empty report for sourceRoot.
func NewReport(sourceRoot, batteryVersion string) *Report {
	return &Report{
		SourceRoot:     sourceRoot,
		BatteryVersion: batteryVersion,
	}
}

// AddController records a parsed controller.
func (r *Report) AddController(c Controller) {
	r.Controllers = append(r.Controllers, c)
}

// AddGenerated records the files produced for one endpoint.
func (r *Report) AddGenerated(g Generated) {
	r.Generated = append(r.Generated, g)
}

// AddSkipped records a file excluded from the run.
func (r *Report) AddSkipped(path, reason string) {
	r.Skipped = append(r.Skipped, SkippedFile{Path: path, Reason: reason})
}

// AddWarning records a non-fatal diagnostic.
func (r *Report) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// TotalTests is the number of generated test functions.
func (r *Report) TotalTests() int {
	n := 0
	for _, g := range r.Generated {
		n += len(g.TestNames)
	}
	return n
}

// CountByResource returns how many endpoints have each resource type.
func (r *Report) CountByResource() map[ResourceType]int {
	counts := make(map[ResourceType]int)
	for _, g := range r.Generated {
		counts[g.Endpoint.ResourceType]++
	}
	return counts
}

// EndpointsFor returns the generated entries whose endpoint came from the given class.
func (r *Report) EndpointsFor(className string) []Generated {
	var out []Generated
	for _, g := range r.Generated {
		if g.Endpoint.Controller == className {
			out = append(out, g)
		}
	}
	return out
}
