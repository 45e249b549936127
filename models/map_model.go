package models

const (
	IconUser   = "user"
	IconToilet = "toilet"
)

// TileLayer describes the base map. Attribution must be shown verbatim.
type TileLayer struct {
	URLTemplate string `json:"url_template"`
	Attribution string `json:"attribution"`
}

// Marker is a clickable point on the map.
type Marker struct {
	ID       string     `json:"id"`
	Position Coordinate `json:"position"`
	Icon     string     `json:"icon"`
	Title    string     `json:"title"`
	Popup    []string   `json:"popup"`
}

// MapSnapshot is everything the browser needs to draw the current view.
type MapSnapshot struct {
	ViewID        string        `json:"view_id"`
	Version       uint64        `json:"version"`
	Tiles         TileLayer     `json:"tiles"`
	Center        Coordinate    `json:"center"`
	Zoom          int           `json:"zoom"`
	Located       bool          `json:"located"`
	LocationError string        `json:"location_error,omitempty"`
	User          *Marker       `json:"user,omitempty"`
	Markers       []Marker      `json:"markers"`
	SelectedID    string        `json:"selected_id,omitempty"`
	Route         *RouteOverlay `json:"route,omitempty"`
	RouteError    string        `json:"route_error,omitempty"`
}
