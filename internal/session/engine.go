package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/javonjax/OpenAQ-App/internal/airquality"
	"github.com/javonjax/OpenAQ-App/internal/openaq"
)

// focusZoom is the map zoom applied when a table row or overview point
// singles out one station.
const focusZoom = 18

// RecentSource fetches the raw recent measurements for one location and
// pollutant code. openaq.Client satisfies it.
type RecentSource interface {
	FetchRecent(ctx context.Context, locationID int, parameter string) ([]openaq.Measurement, error)
}

// SelectionState is the per-session UI selection. Mutated only inside
// trigger handlers.
type SelectionState struct {
	Pollutant         airquality.PollutantKind `json:"pollutant"`
	Region            airquality.RegionKey     `json:"region"`
	DisplayMode       airquality.DisplayMode   `json:"displayMode"`
	FocusedLocationID *int                     `json:"focusedLocationId,omitempty"`
}

// Notice is the dismissible data-unavailable alert.
type Notice struct {
	Message string `json:"message,omitempty"`
	Visible bool   `json:"visible"`
}

// View is the full output snapshot handed to the rendering layer. Version
// increases with every applied state change, so a renderer can tell when an
// async drill-down result has landed.
type View struct {
	Version      uint64                    `json:"version"`
	Selection    SelectionState            `json:"selection"`
	Camera       airquality.Camera         `json:"camera"`
	Map          airquality.MapViewModel   `json:"map"`
	Table        airquality.TableViewModel `json:"table"`
	Graph        airquality.GraphViewModel `json:"graph"`
	Gauges       airquality.GaugeViewModel `json:"gauges"`
	Notice       Notice                    `json:"notice"`
	GraphLoading bool                      `json:"graphLoading"`
}

// MarkerClick is the payload of a map-marker click.
type MarkerClick struct {
	LocationID int
	Name       string
}

// RowClick is the payload of a table-row click. Coordinates is the literal
// "{lat}, {lon}" string carried by the row.
type RowClick struct {
	LocationID  int
	Name        string
	Coordinates string
}

// PointClick is the payload of an overview-graph point click.
type PointClick struct {
	LocationID int
	Name       string
	Lat        float64
	Lon        float64
}

// Engine is the per-session synchronization engine. It resolves the six
// trigger kinds into the correct output recomputation, one trigger at a
// time, and guards against stale drill-down results: a fetched series is
// applied only if it still belongs to the current drill-down generation and
// the current pollutant.
type Engine struct {
	mu       sync.Mutex
	datasets map[airquality.PollutantKind]*airquality.Dataset
	source   RecentSource
	logger   *slog.Logger

	sel          SelectionState
	camera       airquality.Camera
	mapVM        airquality.MapViewModel
	tableVM      airquality.TableViewModel
	graph        airquality.GraphViewModel
	gauges       airquality.GaugeViewModel
	notice       Notice
	graphLoading bool
	version      uint64

	// drillSeq is the drill-down generation. Bumped by every new click and
	// by pollutant changes, so a late response can recognize itself as stale.
	drillSeq    uint64
	drillCancel context.CancelFunc
}

// NewEngine creates an engine with the default selection (PM 2.5, Show All,
// Markers, no focus) and the corresponding initial outputs.
func NewEngine(datasets map[airquality.PollutantKind]*airquality.Dataset, source RecentSource, logger *slog.Logger) *Engine {
	e := &Engine{
		datasets: datasets,
		source:   source,
		logger:   logger,
		sel: SelectionState{
			Pollutant:   airquality.PM25,
			Region:      airquality.RegionShowAll,
			DisplayMode: airquality.DisplayMarkers,
		},
	}
	e.camera, _ = airquality.RegionCamera(airquality.RegionShowAll)

	ds := e.dataset()
	e.mapVM = airquality.BuildMapViewModel(ds, e.sel.DisplayMode)
	e.tableVM = airquality.BuildTableViewModel(ds)
	e.graph = airquality.BuildOverviewGraph(ds)
	e.gauges = airquality.BuildGauges(e.sel.Pollutant, airquality.Averages{})
	return e
}

// dataset returns the dataset matching the current pollutant selection.
// Callers hold e.mu.
func (e *Engine) dataset() *airquality.Dataset {
	return e.datasets[e.sel.Pollutant]
}

// View returns a snapshot of the current outputs.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return View{
		Version:      e.version,
		Selection:    e.sel,
		Camera:       e.camera,
		Map:          e.mapVM,
		Table:        e.tableVM,
		Graph:        e.graph,
		Gauges:       e.gauges,
		Notice:       e.notice,
		GraphLoading: e.graphLoading,
	}
}

// SelectPollutant switches the active dataset. The map, table, overview
// graph, and gauges are rebuilt for the new pollutant, the region resets to
// Show All, and any drill-down focus is cleared. An in-flight drill-down for
// the previous pollutant is superseded: its result will be discarded when it
// arrives.
func (e *Engine) SelectPollutant(kind airquality.PollutantKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.datasets[kind]; !ok {
		return fmt.Errorf("no dataset for pollutant %q", kind)
	}
	if kind == e.sel.Pollutant {
		return nil
	}

	e.supersedeDrillDown()

	e.sel.Pollutant = kind
	e.sel.Region = airquality.RegionShowAll
	e.sel.FocusedLocationID = nil
	e.camera, _ = airquality.RegionCamera(airquality.RegionShowAll)

	ds := e.dataset()
	e.mapVM = airquality.BuildMapViewModel(ds, e.sel.DisplayMode)
	e.tableVM = airquality.BuildTableViewModel(ds)
	e.graph = airquality.BuildOverviewGraph(ds)
	e.gauges = airquality.BuildGauges(kind, airquality.Averages{})
	e.version++
	return nil
}

// FocusRegion recenters and zooms the map camera. A pure camera transform:
// markers, table, graph, and gauges are untouched.
func (e *Engine) FocusRegion(key airquality.RegionKey) error {
	cam, ok := airquality.RegionCamera(key)
	if !ok {
		return fmt.Errorf("unknown region %q", key)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.Region = key
	e.camera = cam
	e.version++
	return nil
}

// SetDisplayMode rebuilds the map view-model in the new mode. Region
// selection and drill-down state are unaffected.
func (e *Engine) SetDisplayMode(mode airquality.DisplayMode) error {
	switch mode {
	case airquality.DisplayMarkers, airquality.DisplayHeatmap:
	default:
		return fmt.Errorf("unknown display mode %q", mode)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.DisplayMode = mode
	e.mapVM = airquality.BuildMapViewModel(e.dataset(), mode)
	e.version++
	return nil
}

// HandleMarkerClick starts a drill-down for the clicked station. A click
// with no resolvable payload is a no-op.
func (e *Engine) HandleMarkerClick(p MarkerClick) error {
	if p.LocationID == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.startDrillDown(p.LocationID, p.Name)
	return nil
}

// HandleRowClick parses the row's "{lat}, {lon}" string, recenters the map
// on the station, and starts a drill-down. An empty row selection is a
// no-op.
func (e *Engine) HandleRowClick(p RowClick) error {
	if p.LocationID == 0 && p.Coordinates == "" {
		return nil
	}

	lat, lon, err := ParseCoordinates(p.Coordinates)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.camera = airquality.Camera{Lat: lat, Lon: lon, Zoom: focusZoom}
	e.startDrillDown(p.LocationID, p.Name)
	return nil
}

// HandlePointClick recenters the map using the overview point's metadata and
// starts a drill-down. A click with no resolvable payload is a no-op.
func (e *Engine) HandlePointClick(p PointClick) error {
	if p.LocationID == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.camera = airquality.Camera{Lat: p.Lat, Lon: p.Lon, Zoom: focusZoom}
	e.startDrillDown(p.LocationID, p.Name)
	return nil
}

// DismissNotice hides the data-unavailable alert.
func (e *Engine) DismissNotice() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notice = Notice{}
	e.version++
}

// Close cancels any in-flight drill-down. The engine must not be used after
// Close.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.supersedeDrillDown()
}

// supersedeDrillDown invalidates the current drill-down generation and
// cancels its fetch. Callers hold e.mu.
func (e *Engine) supersedeDrillDown() {
	e.drillSeq++
	if e.drillCancel != nil {
		e.drillCancel()
		e.drillCancel = nil
	}
	e.graphLoading = false
}

// startDrillDown launches the asynchronous recent-data fetch for one
// station. Only the graph region enters a loading state; map, table, and
// controls stay interactive. Callers hold e.mu.
func (e *Engine) startDrillDown(locationID int, name string) {
	e.supersedeDrillDown()
	seq := e.drillSeq

	if name == "" {
		if loc, ok := e.dataset().Find(locationID); ok {
			name = loc.Name
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.drillCancel = cancel
	e.graphLoading = true
	kind := e.sel.Pollutant
	e.version++

	go e.drillDown(ctx, seq, locationID, name, kind)
}

// drillDown performs the blocking fetch and applies the result, unless the
// session has moved on in the meantime.
func (e *Engine) drillDown(ctx context.Context, seq uint64, locationID int, name string, kind airquality.PollutantKind) {
	raw, err := e.source.FetchRecent(ctx, locationID, string(kind))

	var series airquality.RecentSeries
	if err == nil {
		series = airquality.NormalizeRecent(raw, kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.drillSeq || kind != e.sel.Pollutant {
		// Stale: a newer click or a pollutant change superseded this fetch.
		return
	}

	e.graphLoading = false
	e.drillCancel = nil

	if err != nil || len(series) == 0 {
		if err != nil && !errors.Is(err, openaq.ErrNoRecentData) {
			e.logger.Warn("recent data fetch failed", "location", locationID, "error", err)
		}
		e.graph = airquality.BuildOverviewGraph(e.dataset())
		e.gauges = airquality.BuildGauges(kind, airquality.Averages{})
		e.sel.FocusedLocationID = nil
		if name != "" {
			e.notice = Notice{Message: fmt.Sprintf("Recent data for %s is unavailable.", name), Visible: true}
		} else {
			e.notice = Notice{Message: "Recent data is unavailable.", Visible: true}
		}
		e.version++
		return
	}

	e.graph = airquality.BuildTrendGraph(series, kind, name)
	e.gauges = airquality.BuildGauges(kind, airquality.ComputeAverages(series))
	e.notice = Notice{}
	id := locationID
	e.sel.FocusedLocationID = &id
	e.version++
}

// ParseCoordinates reads the literal "{lat}, {lon}" comma-separated string
// carried by table rows.
func ParseCoordinates(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed coordinates %q", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed coordinates %q: %w", s, err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed coordinates %q: %w", s, err)
	}
	return lat, lon, nil
}
