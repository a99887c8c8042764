package airquality

import (
	"sort"
	"time"

	"github.com/javonjax/OpenAQ-App/internal/openaq"
)

// BuildDataset converts raw API locations into the validated dataset for one
// pollutant. A location is admitted when it reports that pollutant with a
// latest value inside the pollutant's snapshot range; everything else is
// silently dropped. A missing display name becomes NameUnavailable. Input
// order is preserved.
func BuildDataset(raw []openaq.Location, kind PollutantKind) Dataset {
	cfg := ConfigFor(kind)
	ds := Dataset{Pollutant: kind}

	for _, r := range raw {
		if r.Coordinates == nil {
			continue
		}
		lastUpdated, err := time.Parse(time.RFC3339, r.LastUpdated)
		if err != nil {
			continue
		}

		readings := make(map[PollutantKind]Reading)
		for _, p := range r.Parameters {
			k, err := ParsePollutant(p.Parameter)
			if err != nil || p.LastValue == nil {
				continue
			}
			if !ConfigFor(k).ValidSnapshot(*p.LastValue) {
				continue
			}
			readings[k] = Reading{LastValue: *p.LastValue, ParameterID: p.ID}
		}

		reading, ok := readings[kind]
		if !ok || !cfg.ValidSnapshot(reading.LastValue) {
			continue
		}

		name := r.Name
		if name == "" {
			name = NameUnavailable
		}

		// firstUpdated is cosmetic; an unparsable value stays zero.
		firstUpdated, _ := time.Parse(time.RFC3339, r.FirstUpdated)

		ds.Locations = append(ds.Locations, Location{
			ID:           r.ID,
			Name:         name,
			City:         r.City,
			Country:      r.Country,
			Coordinates:  Coordinates{Lat: r.Coordinates.Latitude, Lon: r.Coordinates.Longitude},
			FirstUpdated: firstUpdated.UTC(),
			LastUpdated:  lastUpdated.UTC(),
			Readings:     readings,
		})
	}

	return ds
}

// NormalizeRecent converts raw measurements into a RecentSeries, dropping
// records whose value is missing or outside the pollutant's valid range.
// The API is asked for ascending order, but the series is re-sorted when a
// response arrives out of order rather than trusting that silently.
func NormalizeRecent(raw []openaq.Measurement, kind PollutantKind) RecentSeries {
	cfg := ConfigFor(kind)

	series := make(RecentSeries, 0, len(raw))
	for _, m := range raw {
		if m.Value == nil || !cfg.ValidSnapshot(*m.Value) {
			continue
		}
		ts, err := time.Parse(time.RFC3339, m.Date.UTC)
		if err != nil {
			continue
		}
		series = append(series, Sample{Time: ts.UTC(), Value: *m.Value})
	}

	if !sort.SliceIsSorted(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	}) {
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Time.Before(series[j].Time)
		})
	}

	return series
}
