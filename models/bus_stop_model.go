package models

// NearbyStop is display-only transit information. It has no live data source.
type NearbyStop struct {
	Name      string
	Distance  string
	Routes    []string
	NextBuses []string
}

// SampleNearbyStops is the static content of the "Nearby Bus Stops" panel.
func SampleNearbyStops() []NearbyStop {
	return []NearbyStop{
		{
			Name:      "Central Bus Stop",
			Distance:  "200m away",
			Routes:    []string{"101", "202"},
			NextBuses: []string{"Route 101 - 5 min", "Route 202 - 12 min"},
		},
	}
}
