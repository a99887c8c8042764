package openaq

// Location is a raw record from the OpenAQ /locations endpoint.
type Location struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	City         string       `json:"city"`
	Country      string       `json:"country"`
	Coordinates  *Coordinates `json:"coordinates"`
	FirstUpdated string       `json:"firstUpdated"`
	LastUpdated  string       `json:"lastUpdated"`
	Parameters   []Parameter  `json:"parameters"`
}

// Coordinates as reported by the API. May be absent on a location.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Parameter is one pollutant entry attached to a location.
// LastValue is a pointer because the API reports null for stations
// that registered the parameter but never measured it.
type Parameter struct {
	ID        int      `json:"id"`
	Parameter string   `json:"parameter"`
	LastValue *float64 `json:"lastValue"`
}

// Measurement is a raw record from the /measurements endpoint.
type Measurement struct {
	LocationID int             `json:"locationId"`
	Location   string          `json:"location"`
	Parameter  string          `json:"parameter"`
	Value      *float64        `json:"value"`
	Date       MeasurementDate `json:"date"`
}

// MeasurementDate carries both representations the API returns;
// only the UTC one is used downstream.
type MeasurementDate struct {
	UTC   string `json:"utc"`
	Local string `json:"local"`
}
