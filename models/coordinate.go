package models

import (
	"fmt"
	"math"
	"strconv"
)

// Coordinate is an immutable latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the WGS84 ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("invalid latitude %f: must be between -90 and 90", c.Lat)
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("invalid longitude %f: must be between -180 and 180", c.Lng)
	}
	return nil
}

// Offset returns a new coordinate shifted by the given deltas in degrees.
func (c Coordinate) Offset(dLat, dLng float64) Coordinate {
	return Coordinate{Lat: c.Lat + dLat, Lng: c.Lng + dLng}
}

// String formats the coordinate as "lat,lng", the order used by directions links.
func (c Coordinate) String() string {
	return FormatDegrees(c.Lat) + "," + FormatDegrees(c.Lng)
}

// FormatDegrees rounds to 7 decimals (about 1 cm) and drops trailing zeros,
// so 8.5241+0.002 prints as 8.5261.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e7)/1e7, 'f', -1, 64)
}

// LngLat returns [lng, lat] for GeoJSON based APIs.
func (c Coordinate) LngLat() []float64 { return []float64{c.Lng, c.Lat} }
