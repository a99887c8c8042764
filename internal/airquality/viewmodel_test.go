package airquality

import (
	"strings"
	"testing"
	"time"
)

func testDataset(kind PollutantKind) *Dataset {
	updated := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	return &Dataset{
		Pollutant: kind,
		Locations: []Location{
			{
				ID:          101,
				Name:        "Station A",
				City:        "Springfield",
				Country:     "US",
				Coordinates: Coordinates{Lat: 40.7128, Lon: -74.006},
				LastUpdated: updated,
				Readings:    map[PollutantKind]Reading{kind: {LastValue: 12.1, ParameterID: 2}},
			},
			{
				ID:          102,
				Name:        "Station B",
				City:        "Shelbyville",
				Country:     "US",
				Coordinates: Coordinates{Lat: -33.87, Lon: 151.21},
				LastUpdated: updated.Add(-time.Hour),
				Readings:    map[PollutantKind]Reading{kind: {LastValue: 55.5, ParameterID: 2}},
			},
		},
	}
}

func TestColorAtBandEdges(t *testing.T) {
	cfg := ConfigFor(PM25)

	if got := cfg.ColorAt(0); got != (RGB{0, 128, 0}) {
		t.Fatalf("expected green at 0, got %+v", got)
	}
	if got := cfg.ColorAt(12.1); got != (RGB{255, 255, 0}) {
		t.Fatalf("expected yellow at 12.1, got %+v", got)
	}
	// Above the display ceiling clamps to the final band color.
	if got := cfg.ColorAt(300); got != (RGB{128, 0, 0}) {
		t.Fatalf("expected maroon above ceiling, got %+v", got)
	}
}

func TestColorAtInterpolatesBetweenBands(t *testing.T) {
	cfg := ConfigFor(PM25)

	// Halfway between green (0) and yellow (12.1).
	got := cfg.ColorAt(12.1 / 2)
	if got.R <= 0 || got.R >= 255 {
		t.Fatalf("expected red channel strictly between endpoints, got %d", got.R)
	}
	if got.B != 0 {
		t.Fatalf("expected zero blue channel, got %d", got.B)
	}
}

func TestBuildMapViewModelMarkers(t *testing.T) {
	ds := testDataset(PM25)

	vm := BuildMapViewModel(ds, DisplayMarkers)

	if vm.Mode != DisplayMarkers {
		t.Fatalf("unexpected mode %q", vm.Mode)
	}
	if len(vm.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(vm.Points))
	}
	p := vm.Points[0]
	if p.Color == "" || !strings.HasPrefix(p.Color, "#") {
		t.Fatalf("marker mode must color points, got %q", p.Color)
	}
	if p.UpdatedDate != "2024-03-01" || p.UpdatedTime != "12:30:45" {
		t.Fatalf("unexpected hover date/time: %q %q", p.UpdatedDate, p.UpdatedTime)
	}
	if vm.Scale.Min != 0 || vm.Scale.Max != 250 {
		t.Fatalf("unexpected pm25 scale bounds: %v..%v", vm.Scale.Min, vm.Scale.Max)
	}
}

func TestBuildMapViewModelHeatmapSharesScale(t *testing.T) {
	ds := testDataset(PM10)

	markers := BuildMapViewModel(ds, DisplayMarkers)
	heat := BuildMapViewModel(ds, DisplayHeatmap)

	if heat.Points[0].Color != "" {
		t.Fatalf("density mode must omit per-point color, got %q", heat.Points[0].Color)
	}
	if heat.Scale.Min != markers.Scale.Min || heat.Scale.Max != markers.Scale.Max {
		t.Fatalf("scale bounds differ across modes: %+v vs %+v", heat.Scale, markers.Scale)
	}
	if heat.Scale.Max != 425 {
		t.Fatalf("unexpected pm10 display ceiling %v", heat.Scale.Max)
	}
}

func TestBuildTableViewModel(t *testing.T) {
	ds := testDataset(PM25)

	vm := BuildTableViewModel(ds)

	if vm.Title != "PM 2.5: All data" {
		t.Fatalf("unexpected title %q", vm.Title)
	}
	row := vm.Rows[0]
	if row.Coordinates != "40.7128, -74.006" {
		t.Fatalf("unexpected coordinates string %q", row.Coordinates)
	}
	if row.LastUpdated != "2024-03-01 at 12:30:45 GMT" {
		t.Fatalf("unexpected last-updated string %q", row.LastUpdated)
	}
}

func TestBuildTrendGraph(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := RecentSeries{
		{Time: base, Value: 10},
		{Time: base.Add(time.Hour), Value: 20},
	}

	vm := BuildTrendGraph(series, PM10, "Station A")

	if vm.Kind != GraphLine {
		t.Fatalf("expected line graph, got %q", vm.Kind)
	}
	if vm.Title != "Station A - PM 10" {
		t.Fatalf("unexpected title %q", vm.Title)
	}
	if len(vm.Points) != 2 || vm.Points[0].Meta != nil {
		t.Fatalf("trend points must carry no click metadata: %+v", vm.Points)
	}
}

func TestBuildOverviewGraphAttachesMetadata(t *testing.T) {
	ds := testDataset(PM25)

	vm := BuildOverviewGraph(ds)

	if vm.Kind != GraphScatter {
		t.Fatalf("expected scatter, got %q", vm.Kind)
	}
	if vm.Title != "PM 2.5: All data" {
		t.Fatalf("unexpected title %q", vm.Title)
	}
	if len(vm.Points) != 2 {
		t.Fatalf("expected one point per location, got %d", len(vm.Points))
	}
	meta := vm.Points[0].Meta
	if meta == nil || meta.LocationID != 101 || meta.Lat != 40.7128 {
		t.Fatalf("missing or wrong click metadata: %+v", meta)
	}
}

func TestBuildGaugesFollowPollutant(t *testing.T) {
	pm25 := BuildGauges(PM25, Averages{Avg24h: 12, Avg7d: 34})
	pm10 := BuildGauges(PM10, Averages{})

	if pm25.Max != 250 || pm10.Max != 425 {
		t.Fatalf("unexpected gauge ceilings: %v, %v", pm25.Max, pm10.Max)
	}
	if pm25.Avg24h != 12 || pm25.Avg7d != 34 {
		t.Fatalf("unexpected gauge values: %+v", pm25)
	}
	if len(pm25.Bands) != 5 {
		t.Fatalf("expected 5 gauge bands, got %d", len(pm25.Bands))
	}
	if pm25.Bands[4].To != 250 || pm10.Bands[4].To != 425 {
		t.Fatalf("gauge bands must end at the pollutant ceiling: %+v, %+v", pm25.Bands[4], pm10.Bands[4])
	}
}

func TestFormatCoordinatesRoundTrip(t *testing.T) {
	got := FormatCoordinates(Coordinates{Lat: 40.7128, Lon: -74.0060})
	if got != "40.7128, -74.006" {
		t.Fatalf("unexpected format %q", got)
	}
}
