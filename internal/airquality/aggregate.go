package airquality

import "time"

// Averages holds the rolling means of a location's recent series.
type Averages struct {
	Avg24h float64 `json:"avg24h"`
	Avg7d  float64 `json:"avg7d"`
}

// ComputeAverages returns the 24-hour and 7-day mean readings, both windows
// anchored at the latest timestamp in the series (the data's own recency,
// not wall clock) and inclusive of it. Callers must not pass an empty
// series; they branch on "no data" before aggregating.
func ComputeAverages(series RecentSeries) Averages {
	var tMax time.Time
	for _, s := range series {
		if s.Time.After(tMax) {
			tMax = s.Time
		}
	}

	cutoff24h := tMax.Add(-24 * time.Hour)
	cutoff7d := tMax.Add(-7 * 24 * time.Hour)

	var sum24, sum7 float64
	var n24, n7 int
	for _, s := range series {
		if !s.Time.Before(cutoff7d) {
			sum7 += s.Value
			n7++
		}
		if !s.Time.Before(cutoff24h) {
			sum24 += s.Value
			n24++
		}
	}

	avg := Averages{}
	if n24 > 0 {
		avg.Avg24h = sum24 / float64(n24)
	}
	if n7 > 0 {
		avg.Avg7d = sum7 / float64(n7)
	}
	return avg
}
