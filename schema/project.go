package schema

import "slices"

// ProjectSpec is the static configuration of one tracked project.
type ProjectSpec struct {
	Name          string   `json:"name"`
	InitialCommit string   `json:"initial_commit"` // Oldest commit that is always sampled
	Branch        string   `json:"branch"`         // Remote branch to follow
	Paths         []string `json:"paths"`          // Path prefixes that bound the analysis
	Excludes      []string `json:"excludes"`       // Paths passed to the analyzer as exclusions
	Dir           string   `json:"dir"`            // Working copy, mutated by every checkout
}

// DefaultExclude is the schema directory excluded from every analysis by default.
const DefaultExclude = "synapse/storage/schema"

// DefaultProjects is the project table used when no projects are configured.
var DefaultProjects = []ProjectSpec{
	{Name: "synapse", InitialCommit: "4f475c7697722e946e39e42f38f3dd03a95d8765", Branch: "develop", Paths: []string{"synapse", "tests"}},
	{Name: "sydent", InitialCommit: "2360cd427fb5cbebd34baa02ccb05ca2211eab63", Branch: "main", Paths: []string{"sydent", "tests"}},
	{Name: "sygnal", InitialCommit: "2eb2dd4eb6d83a17f260af02731940427e67feea", Branch: "main", Paths: []string{"sygnal", "tests"}},
}

// Clone returns a deep copy so callers can never share slices with the table.
func (p ProjectSpec) Clone() ProjectSpec {
	p.Paths = slices.Clone(p.Paths)
	p.Excludes = slices.Clone(p.Excludes)
	return p
}
