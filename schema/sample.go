package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// SampleTimeFormat is how commit timestamps are written in the report.
const SampleTimeFormat = "2006-01-02 15:04:05"

// Commit is one entry of a newest-first history walk.
type Commit struct {
	ID   string    // Full hexadecimal commit id
	Time time.Time // Committer timestamp
}

// SampleEntry is the analysis of one historical snapshot of a project.
type SampleEntry struct {
	Commit   string
	Time     time.Time
	Total    Record
	ByModule map[ModuleKey]Record
}

// NewSampleEntry builds an entry from a commit and its aggregation.
func NewSampleEntry(c Commit, agg *Aggregation) SampleEntry {
	byModule := make(map[ModuleKey]Record, len(agg.ByModule))
	maps.Copy(byModule, agg.ByModule)
	return SampleEntry{
		Commit:   c.ID,
		Time:     c.Time,
		Total:    agg.Total,
		ByModule: byModule,
	}
}

// ModuleKeys returns the entry's module keys in sorted order.
func (e SampleEntry) ModuleKeys() []ModuleKey {
	return slices.Sorted(maps.Keys(e.ByModule))
}

// MarshalJSON encodes the entry as [commit, timestamp, total, by_module].
func (e SampleEntry) MarshalJSON() ([]byte, error) {
	byModule := e.ByModule
	if byModule == nil {
		byModule = map[ModuleKey]Record{}
	}
	return json.Marshal([]any{
		e.Commit,
		e.Time.Local().Format(SampleTimeFormat),
		e.Total,
		byModule,
	})
}

// UnmarshalJSON decodes the four-element array written by MarshalJSON.
func (e *SampleEntry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 4 {
		return fmt.Errorf("sample entry must have 4 elements, got %d", len(raw))
	}

	var ts string
	if err := json.Unmarshal(raw[0], &e.Commit); err != nil {
		return fmt.Errorf("invalid commit: %w", err)
	}
	if err := json.Unmarshal(raw[1], &ts); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	t, err := time.ParseInLocation(SampleTimeFormat, ts, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	e.Time = t
	if err := json.Unmarshal(raw[2], &e.Total); err != nil {
		return fmt.Errorf("invalid total: %w", err)
	}
	e.ByModule = make(map[ModuleKey]Record)
	if err := json.Unmarshal(raw[3], &e.ByModule); err != nil {
		return fmt.Errorf("invalid module map: %w", err)
	}
	return nil
}

// Report maps each project name to its samples, newest first.
type Report map[string][]SampleEntry

// Projects returns the report's project names in sorted order.
func (r Report) Projects() []string {
	return slices.Sorted(maps.Keys(r))
}

// Latest returns the newest sample for a project.
func (r Report) Latest(project string) (SampleEntry, bool) {
	series := r[project]
	if len(series) == 0 {
		return SampleEntry{}, false
	}
	return series[0], true
}

// Clone copies the top-level map and series slices. A nil series becomes empty.
func (r Report) Clone() Report {
	out := make(Report, len(r))
	for k, v := range r {
		out[k] = append(make([]SampleEntry, 0, len(v)), v...)
	}
	return out
}
