package schema

import "time"

// StoreStatus represents the status of the sample store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  uint             `json:"schema_version"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      string           `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	TotalSamples   int              `json:"total_samples"`
	SamplesByRepo  map[string]int   `json:"samples_by_project"`
	TableSizes     map[string]int64 `json:"table_sizes"`
	OldestCommitAt time.Time        `json:"oldest_commit_at"`
	NewestCommitAt time.Time        `json:"newest_commit_at"`
}

// RunRecord represents a row from the runs table.
type RunRecord struct {
	RunID        string
	StartTime    time.Time
	EndTime      *time.Time
	StartDay     time.Time
	Projects     int
	Samples      int
	Failures     int
	ConfigParams string
}

// StoredSample is a sample as persisted, with the cache key it was stored under.
type StoredSample struct {
	Project     string
	Fingerprint string
	RunID       string
	AnalyzedAt  time.Time
	Entry       SampleEntry
}
