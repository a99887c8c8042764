package airquality

import (
	"fmt"
	"strconv"
	"time"
)

const (
	concentrationLabel = "Concentration (µg/m³)"

	dateLayout      = "2006-01-02"
	clockLayout     = "15:04:05"
	tableTimeLayout = "2006-01-02 at 15:04:05 GMT"
)

// MapPoint is one map marker or density cell. Color is set in marker mode
// only; density mode leaves the renderer to interpolate from the scale.
type MapPoint struct {
	LocationID  int     `json:"locationId"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Value       float64 `json:"value"`
	Color       string  `json:"color,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	UpdatedDate string  `json:"updatedDate"`
	UpdatedTime string  `json:"updatedTime"`
}

// ColorScale is the legend shared by both display modes, so legends stay
// comparable when the mode switches.
type ColorScale struct {
	Title string      `json:"title"`
	Min   float64     `json:"min"`
	Max   float64     `json:"max"`
	Ticks []float64   `json:"ticks"`
	Stops []ScaleStop `json:"stops"`
}

// MapViewModel is the renderer-facing description of the map layer.
type MapViewModel struct {
	Mode   DisplayMode `json:"mode"`
	Points []MapPoint  `json:"points"`
	Scale  ColorScale  `json:"scale"`
}

// BuildMapViewModel produces the marker set or density field for a dataset.
func BuildMapViewModel(ds *Dataset, mode DisplayMode) MapViewModel {
	cfg := ConfigFor(ds.Pollutant)

	points := make([]MapPoint, 0, len(ds.Locations))
	for _, loc := range ds.Locations {
		value := ds.Reading(loc).LastValue
		p := MapPoint{
			LocationID:  loc.ID,
			Name:        loc.Name,
			City:        loc.City,
			Country:     loc.Country,
			Value:       value,
			Lat:         loc.Coordinates.Lat,
			Lon:         loc.Coordinates.Lon,
			UpdatedDate: loc.LastUpdated.UTC().Format(dateLayout),
			UpdatedTime: loc.LastUpdated.UTC().Format(clockLayout),
		}
		if mode == DisplayMarkers {
			p.Color = cfg.ColorAt(value).Hex()
		}
		points = append(points, p)
	}

	return MapViewModel{
		Mode:   mode,
		Points: points,
		Scale: ColorScale{
			Title: concentrationLabel,
			Min:   0,
			Max:   cfg.DisplayMax,
			Ticks: cfg.Ticks,
			Stops: cfg.ScaleStops(),
		},
	}
}

// TableRow is one data-table entry. Coordinates is the literal
// "{lat}, {lon}" string the row-click trigger parses back.
type TableRow struct {
	LocationID  int     `json:"id"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	LastUpdated string  `json:"lastUpdated"`
	Coordinates string  `json:"coordinates"`
}

// TableViewModel is the renderer-facing description of the data table.
type TableViewModel struct {
	Title string     `json:"title"`
	Rows  []TableRow `json:"rows"`
}

// BuildTableViewModel produces one row per dataset location.
func BuildTableViewModel(ds *Dataset) TableViewModel {
	cfg := ConfigFor(ds.Pollutant)

	rows := make([]TableRow, 0, len(ds.Locations))
	for _, loc := range ds.Locations {
		rows = append(rows, TableRow{
			LocationID:  loc.ID,
			Name:        loc.Name,
			Value:       ds.Reading(loc).LastValue,
			LastUpdated: loc.LastUpdated.UTC().Format(tableTimeLayout),
			Coordinates: FormatCoordinates(loc.Coordinates),
		})
	}

	return TableViewModel{
		Title: fmt.Sprintf("%s: All data", cfg.Label),
		Rows:  rows,
	}
}

// FormatCoordinates renders "{lat}, {lon}" in the exact comma-space form the
// row-click payload is parsed from.
func FormatCoordinates(c Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// GraphKind distinguishes the connected trend line from the overview scatter.
type GraphKind string

const (
	GraphLine    GraphKind = "line"
	GraphScatter GraphKind = "scatter"
)

// PointMeta attaches click metadata to overview-graph points so a click can
// start a drill-down.
type PointMeta struct {
	LocationID int     `json:"locationId"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// GraphPoint is one plotted point.
type GraphPoint struct {
	Time  time.Time  `json:"time"`
	Value float64    `json:"value"`
	Meta  *PointMeta `json:"meta,omitempty"`
}

// GraphViewModel is the renderer-facing description of the analytics graph.
type GraphViewModel struct {
	Kind   GraphKind    `json:"kind"`
	Title  string       `json:"title"`
	XLabel string       `json:"xLabel"`
	YLabel string       `json:"yLabel"`
	Points []GraphPoint `json:"points"`
}

// BuildTrendGraph produces the single connected line of a location's recent
// series, ascending in time.
func BuildTrendGraph(series RecentSeries, kind PollutantKind, locationName string) GraphViewModel {
	cfg := ConfigFor(kind)

	points := make([]GraphPoint, 0, len(series))
	for _, s := range series {
		points = append(points, GraphPoint{Time: s.Time, Value: s.Value})
	}

	return GraphViewModel{
		Kind:   GraphLine,
		Title:  fmt.Sprintf("%s - %s", locationName, cfg.Label),
		XLabel: "Date",
		YLabel: concentrationLabel,
		Points: points,
	}
}

// BuildOverviewGraph produces the pre-drill-down scatter: one point per
// location, its current value against its last-updated date, with click
// metadata attached.
func BuildOverviewGraph(ds *Dataset) GraphViewModel {
	cfg := ConfigFor(ds.Pollutant)

	points := make([]GraphPoint, 0, len(ds.Locations))
	for _, loc := range ds.Locations {
		points = append(points, GraphPoint{
			Time:  loc.LastUpdated,
			Value: ds.Reading(loc).LastValue,
			Meta: &PointMeta{
				LocationID: loc.ID,
				Name:       loc.Name,
				Lat:        loc.Coordinates.Lat,
				Lon:        loc.Coordinates.Lon,
			},
		})
	}

	return GraphViewModel{
		Kind:   GraphScatter,
		Title:  fmt.Sprintf("%s: All data", cfg.Label),
		XLabel: "Date",
		YLabel: concentrationLabel,
		Points: points,
	}
}

// GaugeViewModel drives the 24-hour and 7-day average dials. Scale and bands
// follow the active pollutant regardless of drill-down outcome.
type GaugeViewModel struct {
	Avg24h float64     `json:"avg24h"`
	Avg7d  float64     `json:"avg7d"`
	Max    float64     `json:"max"`
	Bands  []GaugeBand `json:"bands"`
}

// BuildGauges produces the gauge pair for a pollutant and average values.
func BuildGauges(kind PollutantKind, avg Averages) GaugeViewModel {
	cfg := ConfigFor(kind)
	return GaugeViewModel{
		Avg24h: avg.Avg24h,
		Avg7d:  avg.Avg7d,
		Max:    cfg.DisplayMax,
		Bands:  cfg.GaugeBands(),
	}
}
