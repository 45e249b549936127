package models

// Route is a drawable path returned by a routing provider.
// Path runs from the user's position to the destination.
type Route struct {
	From            Coordinate   `json:"from"`
	To              Coordinate   `json:"to"`
	Path            []Coordinate `json:"path"`
	DistanceMeters  int          `json:"distance_meters"`
	DurationSeconds int          `json:"duration_seconds"`
	Provider        string       `json:"provider"`
}

// RouteOverlay is a route currently drawn on a map surface.
type RouteOverlay struct {
	ID       string `json:"id"`
	ToiletID string `json:"toilet_id"`
	Route    Route  `json:"route"`
	Color    string `json:"color"`
	Weight   int    `json:"weight"`
}
