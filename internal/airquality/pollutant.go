package airquality

import (
	"fmt"
)

// PollutantKind identifies one of the tracked particulate measures. Its
// string value doubles as the OpenAQ parameter code.
type PollutantKind string

const (
	PM25 PollutantKind = "pm25"
	PM10 PollutantKind = "pm10"
)

// Kinds lists the tracked pollutants in display order.
func Kinds() []PollutantKind {
	return []PollutantKind{PM25, PM10}
}

// ParsePollutant maps a parameter code to a PollutantKind.
func ParsePollutant(code string) (PollutantKind, error) {
	switch PollutantKind(code) {
	case PM25:
		return PM25, nil
	case PM10:
		return PM10, nil
	}
	return "", fmt.Errorf("unknown pollutant %q", code)
}

// Label returns the human-readable name, e.g. "PM 2.5".
func (k PollutantKind) Label() string {
	switch k {
	case PM25:
		return "PM 2.5"
	case PM10:
		return "PM 10"
	}
	return string(k)
}

// RGB is a color channel triple used for band interpolation.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	colorGreen  = RGB{0, 128, 0}
	colorYellow = RGB{255, 255, 0}
	colorOrange = RGB{255, 165, 0}
	colorRed    = RGB{255, 0, 0}
	colorPurple = RGB{128, 0, 128}
	colorMaroon = RGB{128, 0, 0}
)

// ColorStop anchors a color at a concentration value.
type ColorStop struct {
	Value float64
	Color RGB
}

// Config is the static per-pollutant configuration: valid snapshot range,
// display ceiling for color scales and gauges, the 5-band color thresholds,
// and the color-bar tick values. One record per pollutant; builders never
// hardcode another pollutant's thresholds.
type Config struct {
	Kind        PollutantKind
	Label       string
	SnapshotMax float64
	DisplayMax  float64
	Stops       []ColorStop
	Ticks       []float64
}

var pollutantConfigs = map[PollutantKind]Config{
	PM25: {
		Kind:        PM25,
		Label:       "PM 2.5",
		SnapshotMax: 350,
		DisplayMax:  250,
		Stops: []ColorStop{
			{0, colorGreen},
			{12.1, colorYellow},
			{35.5, colorOrange},
			{55.5, colorRed},
			{150.5, colorPurple},
			{250, colorMaroon},
		},
		Ticks: []float64{0, 12, 35, 55, 150, 250},
	},
	PM10: {
		Kind:        PM10,
		Label:       "PM 10",
		SnapshotMax: 525,
		DisplayMax:  425,
		Stops: []ColorStop{
			{0, colorGreen},
			{55, colorYellow},
			{155, colorOrange},
			{255, colorRed},
			{355, colorPurple},
			{425, colorMaroon},
		},
		Ticks: []float64{0, 55, 155, 255, 355, 425},
	},
}

// ConfigFor returns the static configuration for a pollutant.
func ConfigFor(kind PollutantKind) Config {
	return pollutantConfigs[kind]
}

// ValidSnapshot reports whether a latest reading admits a location into
// this pollutant's dataset.
func (c Config) ValidSnapshot(v float64) bool {
	return v >= 0 && v <= c.SnapshotMax
}

// ColorAt linearly interpolates the band colors at the given concentration.
// Values outside the display range clamp to the end colors.
func (c Config) ColorAt(v float64) RGB {
	stops := c.Stops
	if v <= stops[0].Value {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if v >= last.Value {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		if v > stops[i].Value {
			continue
		}
		a, b := stops[i-1], stops[i]
		t := (v - a.Value) / (b.Value - a.Value)
		return RGB{
			R: lerpChannel(a.Color.R, b.Color.R, t),
			G: lerpChannel(a.Color.G, b.Color.G, t),
			B: lerpChannel(a.Color.B, b.Color.B, t),
		}
	}
	return last.Color
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// ScaleStop positions a color on a normalized 0..1 scale.
type ScaleStop struct {
	Position float64 `json:"position"`
	Color    string  `json:"color"`
}

// ScaleStops renders the band thresholds as normalized color-scale stops
// over [0, DisplayMax].
func (c Config) ScaleStops() []ScaleStop {
	stops := make([]ScaleStop, 0, len(c.Stops))
	for _, s := range c.Stops {
		stops = append(stops, ScaleStop{
			Position: s.Value / c.DisplayMax,
			Color:    s.Color.Hex(),
		})
	}
	return stops
}

// GaugeBand is one colored segment of a gauge dial.
type GaugeBand struct {
	Color string  `json:"color"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// GaugeBands renders the band thresholds as gauge segments.
func (c Config) GaugeBands() []GaugeBand {
	bands := make([]GaugeBand, 0, len(c.Stops)-1)
	for i := 0; i < len(c.Stops)-1; i++ {
		bands = append(bands, GaugeBand{
			Color: c.Stops[i].Color.Hex(),
			From:  c.Stops[i].Value,
			To:    c.Stops[i+1].Value,
		})
	}
	return bands
}
