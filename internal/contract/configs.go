package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/clokep/arewetypedyet/schema"
)

// Default values for configuration.
const (
	DefaultWorkers         = 1
	DefaultRemote          = "origin"
	DefaultOutputFile      = "results.json"
	DefaultReportDirName   = ".mypy-output"
	DefaultAnalyzerTimeout = 30 * time.Minute
	DefaultFetchTimeout    = 10 * time.Minute
	MaxWorkers             = 64
)

// StartDayFormat is how --start-day is written.
const StartDayFormat = time.DateOnly

// Validation errors returned by ProcessAndValidate.
var (
	ErrInvalidWorkers   = errors.New("invalid workers")
	ErrInvalidOutput    = errors.New("invalid output format")
	ErrInvalidBackend   = errors.New("invalid store backend")
	ErrInvalidConnect   = errors.New("invalid store connection string")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrInvalidStartDay  = errors.New("invalid start day")
	ErrInvalidProject   = errors.New("invalid project definition")
	ErrUnknownProject   = errors.New("unknown project")
	ErrInvalidWorkspace = errors.New("invalid workspace")
)

// commitIDPattern accepts full SHA-1 or SHA-256 object names as git rev-list prints them.
// The sampler compares ids exactly, so abbreviated or uppercase ids would never match.
var commitIDPattern = regexp.MustCompile(`^([0-9a-f]{40}|[0-9a-f]{64})$`)

// ProjectRawInput is one entry of the `projects` list in the config file.
type ProjectRawInput struct {
	Name          string   `mapstructure:"name"`
	InitialCommit string   `mapstructure:"initial_commit"`
	Branch        string   `mapstructure:"branch"`
	Paths         []string `mapstructure:"paths"`
	Excludes      []string `mapstructure:"excludes"`
	Dir           string   `mapstructure:"dir"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Workspace  string
	Remote     string
	OutputFile string
	Output     schema.OutputMode
	Workers    int
	Width      int // Terminal width override (0 = auto-detect)

	FailFast    bool
	StrictParse bool

	AnalyzerBin     string
	AnalyzerTimeout time.Duration
	FetchTimeout    time.Duration
	ReportDir       string

	Excludes []string
	StartDay time.Time // Zero means the latest Monday at run time
	Projects []schema.ProjectSpec

	// ProjectFilter holds the --project names, empty when every project is selected
	ProjectFilter []string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels and log prefixes
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Workspace      string `mapstructure:"workspace"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Project        string `mapstructure:"project"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Color          string `mapstructure:"color"`

	// --- Fields from runCmd.Flags() ---
	Remote          string `mapstructure:"remote"`
	Workers         int    `mapstructure:"workers"`
	FailFast        bool   `mapstructure:"fail-fast"`
	StrictParse     bool   `mapstructure:"strict-parse"`
	AnalyzerBin     string `mapstructure:"analyzer-bin"`
	AnalyzerTimeout string `mapstructure:"analyzer-timeout"`
	FetchTimeout    string `mapstructure:"fetch-timeout"`
	ReportDir       string `mapstructure:"report-dir"`
	Exclude         string `mapstructure:"exclude"`
	StartDay        string `mapstructure:"start-day"`

	// --- Project table from config file ---
	Projects []ProjectRawInput `mapstructure:"projects"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Excludes = slices.Clone(c.Excludes)
	clone.ProjectFilter = slices.Clone(c.ProjectFilter)
	if c.Projects != nil {
		clone.Projects = make([]schema.ProjectSpec, len(c.Projects))
		for i, p := range c.Projects {
			clone.Projects[i] = p.Clone()
		}
	}
	return &clone
}

// ProjectNames returns the configured project names in order.
func (c *Config) ProjectNames() []string {
	return projectNames(c.Projects)
}

// ProjectReportDir returns the report directory for one project, so that
// projects analyzed in parallel never share a report file.
func (c *Config) ProjectReportDir(project string) string {
	return filepath.Join(c.ReportDir, project)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processStartDay(cfg, input); err != nil {
		return err
	}
	if err := resolveWorkspace(cfg, input); err != nil {
		return err
	}
	if err := processProjects(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("%w: store-db-connect is required when using %s backend", ErrInvalidConnect, backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("%w: MySQL connection string must contain '@tcp(' for host:port", ErrInvalidConnect)
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("%w: MySQL connection string must contain '/' followed by database name", ErrInvalidConnect)
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%w: store-db-connect is required when using %s backend", ErrInvalidConnect, backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("%w: PostgreSQL connection string must contain 'host=' parameter", ErrInvalidConnect)
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("%w: PostgreSQL connection string must contain 'dbname=' parameter", ErrInvalidConnect)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.FailFast = input.FailFast
	cfg.StrictParse = input.StrictParse
	cfg.AnalyzerBin = input.AnalyzerBin
	if cfg.AnalyzerBin == "" {
		cfg.AnalyzerBin = DefaultAnalyzerBin
	}
	cfg.Remote = strings.TrimSpace(input.Remote)
	if cfg.Remote == "" {
		cfg.Remote = DefaultRemote
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 1 and %d (received %d)", ErrInvalidWorkers, MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("%w '%s'. must be text, json, csv, parquet", ErrInvalidOutput, input.Output)
	}

	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("%w '%s'. must be sqlite, mysql, postgresql, none", ErrInvalidBackend, input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	cfg.Excludes = splitList(input.Exclude)
	return nil
}

// processDurations parses the timeout settings.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	var err error
	if cfg.AnalyzerTimeout, err = parsePositiveDuration("analyzer-timeout", input.AnalyzerTimeout, DefaultAnalyzerTimeout); err != nil {
		return err
	}
	if cfg.FetchTimeout, err = parsePositiveDuration("fetch-timeout", input.FetchTimeout, DefaultFetchTimeout); err != nil {
		return err
	}
	return nil
}

// parsePositiveDuration parses s, falling back to def when s is empty.
func parsePositiveDuration(key, s string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidDuration, key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive (received %s)", ErrInvalidDuration, key, d)
	}
	return d, nil
}

// processStartDay parses --start-day as a local calendar date.
func processStartDay(cfg *Config, input *ConfigRawInput) error {
	s := strings.TrimSpace(input.StartDay)
	if s == "" {
		cfg.StartDay = time.Time{}
		return nil
	}
	day, err := time.ParseInLocation(StartDayFormat, s, time.Local)
	if err != nil {
		return fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidStartDay, s)
	}
	cfg.StartDay = day
	return nil
}

// resolveWorkspace makes the workspace and report directory absolute.
func resolveWorkspace(cfg *Config, input *ConfigRawInput) error {
	ws := input.Workspace
	if ws == "" {
		ws = "."
	}
	abs, err := filepath.Abs(ws)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidWorkspace, ws, err)
	}
	cfg.Workspace = filepath.Clean(abs)

	reportDir := input.ReportDir
	if reportDir == "" {
		reportDir = DefaultReportDirName
	}
	if !filepath.IsAbs(reportDir) {
		reportDir = filepath.Join(cfg.Workspace, reportDir)
	}
	cfg.ReportDir = filepath.Clean(reportDir)
	return nil
}

// processProjects builds the project table, falling back to the built-in projects,
// and applies the --project filter.
func processProjects(cfg *Config, input *ConfigRawInput) error {
	var projects []schema.ProjectSpec
	if len(input.Projects) == 0 {
		for _, p := range schema.DefaultProjects {
			projects = append(projects, p.Clone())
		}
	} else {
		for _, raw := range input.Projects {
			projects = append(projects, schema.ProjectSpec{
				Name:          strings.TrimSpace(raw.Name),
				InitialCommit: strings.TrimSpace(raw.InitialCommit),
				Branch:        strings.TrimSpace(raw.Branch),
				Paths:         slices.Clone(raw.Paths),
				Excludes:      slices.Clone(raw.Excludes),
				Dir:           strings.TrimSpace(raw.Dir),
			})
		}
	}

	seen := make(map[string]struct{}, len(projects))
	for i := range projects {
		p := &projects[i]
		if err := validateProject(*p); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate project %q", ErrInvalidProject, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.Dir == "" {
			p.Dir = filepath.Join(cfg.Workspace, p.Name)
		} else if !filepath.IsAbs(p.Dir) {
			p.Dir = filepath.Join(cfg.Workspace, p.Dir)
		}
		if p.Excludes == nil {
			p.Excludes = slices.Clone(cfg.Excludes)
		}
	}

	filter := splitList(input.Project)
	cfg.ProjectFilter = nil
	if len(filter) == 0 {
		cfg.Projects = projects
		return nil
	}
	cfg.Projects = nil
	for _, name := range filter {
		idx := slices.IndexFunc(projects, func(p schema.ProjectSpec) bool { return p.Name == name })
		if idx < 0 {
			return fmt.Errorf("%w %q. known projects: %s", ErrUnknownProject, name, strings.Join(projectNames(projects), ", "))
		}
		if !slices.ContainsFunc(cfg.Projects, func(p schema.ProjectSpec) bool { return p.Name == name }) {
			cfg.Projects = append(cfg.Projects, projects[idx])
			cfg.ProjectFilter = append(cfg.ProjectFilter, name)
		}
	}
	return nil
}

// validateProject checks a single project definition.
func validateProject(p schema.ProjectSpec) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProject)
	case strings.ContainsAny(p.Name, `/\`) || p.Name == "." || p.Name == "..":
		return fmt.Errorf("%w: name %q must not be a path", ErrInvalidProject, p.Name)
	case p.Branch == "":
		return fmt.Errorf("%w: project %q has no branch", ErrInvalidProject, p.Name)
	case len(p.Paths) == 0:
		return fmt.Errorf("%w: project %q has no paths to analyze", ErrInvalidProject, p.Name)
	case p.InitialCommit != "" && !commitIDPattern.MatchString(p.InitialCommit):
		return fmt.Errorf("%w: project %q initial commit %q is not a full lowercase commit id", ErrInvalidProject, p.Name, p.InitialCommit)
	}
	return nil
}

// projectNames lists names for error messages.
func projectNames(projects []schema.ProjectSpec) []string {
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GetSampleDBFilePath returns the path to the SQLite DB file for sample storage.
func GetSampleDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".arewetypedyet.db"
	}
	return filepath.Join(homeDir, ".arewetypedyet.db")
}
