package airquality

import "time"

// NameUnavailable substitutes for stations that report no display name.
const NameUnavailable = "Name unavailable"

// Coordinates is a lat/lon pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Reading is the latest reported value for one pollutant at a location.
type Reading struct {
	LastValue   float64
	ParameterID int
}

// Location is a validated monitoring location. Immutable once built;
// identity is ID.
type Location struct {
	ID           int
	Name         string
	City         string
	Country      string
	Coordinates  Coordinates
	FirstUpdated time.Time
	LastUpdated  time.Time

	// Readings holds the in-range readings this location reported,
	// keyed by pollutant.
	Readings map[PollutantKind]Reading
}

// Dataset is an ordered set of locations filtered to one pollutant. Every
// member carries an in-range reading for that pollutant. Datasets are built
// once at startup and never mutated, so they are safe for concurrent readers.
type Dataset struct {
	Pollutant PollutantKind
	Locations []Location
}

// Find returns the location with the given id, if present.
func (d *Dataset) Find(id int) (Location, bool) {
	for _, loc := range d.Locations {
		if loc.ID == id {
			return loc, true
		}
	}
	return Location{}, false
}

// Reading returns a location's value for the dataset's pollutant.
func (d *Dataset) Reading(loc Location) Reading {
	return loc.Readings[d.Pollutant]
}

// Sample is one timestamped measurement.
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// RecentSeries is a location's recent measurements ordered by time
// ascending. An empty series is a valid state meaning "no data".
type RecentSeries []Sample
