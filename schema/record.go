package schema

import (
	"encoding/json"
	"fmt"
)

// RecordFields is the number of counters carried by a Record.
const RecordFields = 6

// Record holds the line-precision counters for one module, one module bucket or a whole tree.
// The counters are independent: the analyzer may overlap or omit categories, so they are
// not required to add up to Lines.
type Record struct {
	Lines      int // Total lines in the unit
	Precise    int // Lines with a fully precise type
	Imprecise  int // Lines with a partially precise type
	Any        int // Lines typed as Any
	Empty      int // Blank lines
	Unanalyzed int // Lines skipped by the analyzer
}

// Combine returns the field-wise sum of a and b. The zero Record is its identity.
func Combine(a, b Record) Record {
	return Record{
		Lines:      a.Lines + b.Lines,
		Precise:    a.Precise + b.Precise,
		Imprecise:  a.Imprecise + b.Imprecise,
		Any:        a.Any + b.Any,
		Empty:      a.Empty + b.Empty,
		Unanalyzed: a.Unanalyzed + b.Unanalyzed,
	}
}

// Add is shorthand for Combine(r, o).
func (r Record) Add(o Record) Record {
	return Combine(r, o)
}

// Sum folds records starting from the zero Record.
func Sum(records ...Record) Record {
	var total Record
	for _, r := range records {
		total = Combine(total, r)
	}
	return total
}

// Tuple returns the counters in report order.
func (r Record) Tuple() [RecordFields]int {
	return [RecordFields]int{r.Lines, r.Precise, r.Imprecise, r.Any, r.Empty, r.Unanalyzed}
}

// RecordFromTuple is the inverse of Tuple.
func RecordFromTuple(t [RecordFields]int) Record {
	return Record{
		Lines:      t[0],
		Precise:    t[1],
		Imprecise:  t[2],
		Any:        t[3],
		Empty:      t[4],
		Unanalyzed: t[5],
	}
}

// Validate rejects records with negative counters.
func (r Record) Validate() error {
	for i, v := range r.Tuple() {
		if v < 0 {
			return fmt.Errorf("field %s is negative: %d", RecordFieldNames[i], v)
		}
	}
	return nil
}

// PreciseRatio is Precise/Lines, or 0 for an empty record.
func (r Record) PreciseRatio() float64 {
	if r.Lines == 0 {
		return 0
	}
	return float64(r.Precise) / float64(r.Lines)
}

// RecordFieldNames lists the counter names in tuple order.
var RecordFieldNames = [RecordFields]string{"lines", "precise", "imprecise", "any", "empty", "unanalyzed"}

// MarshalJSON encodes the record as a six-element array.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Tuple())
}

// UnmarshalJSON decodes a six-element array.
func (r *Record) UnmarshalJSON(data []byte) error {
	var t [RecordFields]int
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("record must be an array of %d integers: %w", RecordFields, err)
	}
	*r = RecordFromTuple(t)
	return nil
}
