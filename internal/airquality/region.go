package airquality

import "fmt"

// RegionKey selects a preset map focus.
type RegionKey string

const (
	RegionShowAll        RegionKey = "Show All"
	RegionNorthAmerica   RegionKey = "North America"
	RegionCentralAmerica RegionKey = "Central America"
	RegionSouthAmerica   RegionKey = "South America"
	RegionEurope         RegionKey = "Europe"
	RegionAfrica         RegionKey = "Africa"
	RegionAsia           RegionKey = "Asia"
	RegionOceania        RegionKey = "Oceania"
)

// Camera is a map centering target.
type Camera struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom float64 `json:"zoom"`
}

var regionCameras = map[RegionKey]Camera{
	RegionShowAll:        {17, 17, 1},
	RegionNorthAmerica:   {55.8457, -103.6386, 2},
	RegionSouthAmerica:   {-25.5, -61, 2.25},
	RegionCentralAmerica: {18, -90, 4},
	RegionEurope:         {57, 16, 2},
	RegionAfrica:         {-1, 19.75, 2.3},
	RegionAsia:           {28.33, 86.67, 2.3},
	RegionOceania:        {-31.55, 137.2, 2.3},
}

// ParseRegion validates a region name.
func ParseRegion(name string) (RegionKey, error) {
	key := RegionKey(name)
	if _, ok := regionCameras[key]; !ok {
		return "", fmt.Errorf("unknown region %q", name)
	}
	return key, nil
}

// RegionCamera returns the centering target for a region.
func RegionCamera(key RegionKey) (Camera, bool) {
	cam, ok := regionCameras[key]
	return cam, ok
}

// DisplayMode selects how the dataset is drawn on the map.
type DisplayMode string

const (
	DisplayMarkers DisplayMode = "Markers"
	DisplayHeatmap DisplayMode = "Heatmap"
)

// ParseDisplayMode validates a display mode name.
func ParseDisplayMode(name string) (DisplayMode, error) {
	switch DisplayMode(name) {
	case DisplayMarkers:
		return DisplayMarkers, nil
	case DisplayHeatmap:
		return DisplayHeatmap, nil
	}
	return "", fmt.Errorf("unknown display mode %q", name)
}
