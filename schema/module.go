package schema

import "strings"

// ModuleKey groups fully qualified module paths by their first two segments.
type ModuleKey string

// moduleKeyDepth is the fixed resolution of the per-module rollup.
const moduleKeyDepth = 2

// NewModuleKey truncates a dotted module path to at most two segments,
// e.g. "synapse.handlers.room" becomes "synapse.handlers".
func NewModuleKey(modulePath string) ModuleKey {
	parts := strings.SplitN(modulePath, ".", moduleKeyDepth+1)
	if len(parts) > moduleKeyDepth {
		parts = parts[:moduleKeyDepth]
	}
	return ModuleKey(strings.Join(parts, "."))
}

// Aggregation is the rollup of one line-precision report.
type Aggregation struct {
	Total    Record
	ByModule map[ModuleKey]Record
	Records  int     // Number of data lines folded in
	Warnings []error // Lines skipped because they could not be parsed
}

// NewAggregation returns an empty aggregation ready for accumulation.
func NewAggregation() *Aggregation {
	return &Aggregation{ByModule: make(map[ModuleKey]Record)}
}

// Accumulate folds one module's record into the total and its bucket.
// The bucket is created as a zero record on first write.
func (a *Aggregation) Accumulate(modulePath string, r Record) {
	key := NewModuleKey(modulePath)
	a.Total = Combine(a.Total, r)
	a.ByModule[key] = Combine(a.ByModule[key], r)
	a.Records++
}
