package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/clokep/arewetypedyet/internal/contract"
	"github.com/clokep/arewetypedyet/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// errNoStore is returned when the server runs with the none backend or before InitStore.
var errNoStore = errors.New("no sample store available, run with --store-backend sqlite|mysql|postgresql")

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// seriesPoint is one sample in a tool response.
type seriesPoint struct {
	Commit         string        `json:"commit"`
	Timestamp      string        `json:"timestamp"`
	Record         schema.Record `json:"record"`
	PrecisePercent float64       `json:"precise_percent"`
	Label          string        `json:"label"`
}

// projectSummary describes one project in list_projects.
type projectSummary struct {
	Name       string       `json:"name"`
	Configured bool         `json:"configured"`
	Branch     string       `json:"branch,omitempty"`
	Latest     *seriesPoint `json:"latest,omitempty"`
}

func newSeriesPoint(e schema.SampleEntry, r schema.Record) seriesPoint {
	percent := r.PreciseRatio() * 100
	return seriesPoint{
		Commit:         e.Commit,
		Timestamp:      e.Time.Local().Format(schema.SampleTimeFormat),
		Record:         r,
		PrecisePercent: percent,
		Label:          contract.GetPlainLabel(percent),
	}
}

func (h *toolHandler) store() (contract.SampleStore, error) {
	if h.mgr == nil {
		return nil, errNoStore
	}
	store := h.mgr.GetSampleStore()
	if store == nil {
		return nil, errNoStore
	}
	return store, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListProjects(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stored, err := store.ListProjects()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot list stored projects: %v", err)), nil
	}

	var summaries []projectSummary
	seen := map[string]bool{}
	for _, p := range h.baseCfg.Projects {
		summaries = append(summaries, projectSummary{Name: p.Name, Configured: true, Branch: p.Branch})
		seen[p.Name] = true
	}
	for _, name := range stored {
		if !seen[name] {
			summaries = append(summaries, projectSummary{Name: name})
		}
	}

	for i := range summaries {
		if !slices.Contains(stored, summaries[i].Name) {
			continue
		}
		latest, err := store.GetSeries(summaries[i].Name, 1)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot load %s: %v", summaries[i].Name, err)), nil
		}
		if len(latest) > 0 {
			point := newSeriesPoint(latest[0].Entry, latest[0].Entry.Total)
			summaries[i].Latest = &point
		}
	}
	return jsonResult(summaries)
}

// loadSeries validates the common project and limit arguments and reads the series.
func (h *toolHandler) loadSeries(request mcp.CallToolRequest) ([]schema.StoredSample, error) {
	project := request.GetString("project", "")
	if project == "" {
		return nil, errors.New("project is required")
	}
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return nil, errors.New("limit must not be negative")
	}
	store, err := h.store()
	if err != nil {
		return nil, err
	}
	series, err := store.GetSeries(project, limit)
	if err != nil {
		return nil, fmt.Errorf("cannot load series of %s: %w", project, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no stored samples for project %q", project)
	}
	return series, nil
}

func (h *toolHandler) handleGetSeries(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	series, err := h.loadSeries(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	points := make([]seriesPoint, len(series))
	for i, s := range series {
		points[i] = newSeriesPoint(s.Entry, s.Entry.Total)
	}
	return jsonResult(points)
}

func (h *toolHandler) handleGetModuleTrend(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	module := request.GetString("module", "")
	if module == "" {
		return mcp.NewToolResultError("module is required"), nil
	}
	series, err := h.loadSeries(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	key := schema.NewModuleKey(module)
	var points []seriesPoint
	for _, s := range series {
		if r, ok := s.Entry.ByModule[key]; ok {
			points = append(points, newSeriesPoint(s.Entry, r))
		}
	}
	if len(points) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("module %q does not appear in any sample", key)), nil
	}
	return jsonResult(map[string]any{
		"module": key,
		"series": points,
	})
}

func (h *toolHandler) handleGetStoreStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read store status: %v", err)), nil
	}
	return jsonResult(status)
}
