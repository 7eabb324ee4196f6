// Package main provides a performance benchmarking tool for the arewetypedyet CLI.
// It measures how long a full run takes for each project, first with the sample store
// disabled and then with a fresh SQLite store, treating the first stored run as cold and
// averaging the rest as warm. Results are written as CSV for performance documentation.
//
// Prerequisites:
// - arewetypedyet and mypy installed and available in PATH
// - Project checkouts in the workspace directory: sydent, sygnal, synapse
//
// Usage: go run benchmark/main.go [workspace-dir]
//
//	workspace-dir: Directory containing the project checkouts
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Project     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Workspace   string
	Timeout     time.Duration
	StartDay    string
	NoStoreRuns int
	StoreRuns   int
	Projects    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [workspace-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Workspace:   os.Args[1],
		Timeout:     2 * time.Hour,
		StartDay:    "2024-01-01", // Pinned so repeated runs sample the same commits
		NoStoreRuns: 2,
		StoreRuns:   3,
		Projects:    []string{"sydent", "sygnal", "synapse"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binaries and project checkouts exist
func checkPrerequisites(config BenchmarkConfig) error {
	for _, bin := range []string{"arewetypedyet", "mypy"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s binary not found in PATH", bin)
		}
	}

	for _, project := range config.Projects {
		projectPath := filepath.Join(config.Workspace, project)
		if _, err := os.Stat(projectPath); os.IsNotExist(err) {
			return fmt.Errorf("project %s not found at %s", project, projectPath)
		}
	}
	return nil
}

// runBenchmarks executes the benchmark suite for every configured project
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d projects, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.Projects), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, project := range config.Projects {
		results = append(results, runBenchmarkSuite(config, project))
	}
	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a project
func runBenchmarkSuite(config BenchmarkConfig, project string) BenchmarkResult {
	fmt.Printf("Benchmarking %s\n", project)

	scratch, err := os.MkdirTemp("", "arewetypedyet-benchmark-*")
	if err != nil {
		fmt.Printf("  Cannot create scratch dir: %v\n", err)
		return BenchmarkResult{Project: project, NoStoreTime: "ERROR", ColdTime: "ERROR", WarmTime: "ERROR"}
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	// Helper to run a benchmark phase
	runPhase := func(backend, connect string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, project, scratch, backend, connect, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: every commit analyzed from scratch
	_, noStoreAvg := runPhase("none", "", config.NoStoreRuns, "No-store")

	// Phase 2: the first run fills the store, later runs reuse it
	coldTime, warmAvg := runPhase("sqlite", filepath.Join(scratch, "samples.db"), config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Project:     project,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark runs one project multiple times with the given store and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, project, scratch, backend, connect string, numRuns int) (coldTime float64, warmTimes []float64) {
	outputFile := filepath.Join(scratch, "results.json")
	args := []string{
		"run",
		"--project", project,
		"--workspace", config.Workspace,
		"--start-day", config.StartDay,
		"--output-file", outputFile,
		"--store-backend", backend,
		"--color", "no",
	}
	if connect != "" {
		args = append(args, "--store-db-connect", connect)
	}

	var times []float64
	for range numRuns {
		_ = os.Remove(outputFile)
		start := time.Now()

		cmd := exec.Command("arewetypedyet", args...)
		cmd.Dir = config.Workspace

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, outputFile) {
				times = append(times, time.Since(start).Seconds())
			} else if cmdErr != nil {
				fmt.Printf("    run failed: %v\n", cmdErr)
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the run reported completion and left a report behind
func isSuccess(output []byte, outputFile string) bool {
	if !strings.Contains(string(output), "Wrote ") {
		return false
	}
	info, err := os.Stat(outputFile)
	return err == nil && info.Size() > 0
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/arewetypedyet_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"project", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Project, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-10s: No-store: %s, Cold: %s, Warm: %s\n", result.Project, result.NoStoreTime, result.ColdTime, result.WarmTime)
	}
}
