package services

import (
	"fmt"
	"sync"
	"toilet-finder/models"
)

const (
	routeColor  = "#6366f1"
	routeWeight = 4
)

// OverlaySurface is where route overlays are drawn and removed.
type OverlaySurface interface {
	AddOverlay(o models.RouteOverlay)
	RemoveOverlay(id string)
}

// MapSurface is the render model of one map: base tiles, the user marker,
// candidate markers and the live route overlays.
type MapSurface struct {
	mu         sync.Mutex
	tiles      models.TileLayer
	center     models.Coordinate
	zoom       int
	user       *models.Coordinate
	candidates []models.Toilet
	overlays   []models.RouteOverlay
}

func NewMapSurface(tiles models.TileLayer, center models.Coordinate, zoom int) *MapSurface {
	return &MapSurface{tiles: tiles, center: center, zoom: zoom}
}

// SetUser moves the user marker and flies the map center to it.
func (m *MapSurface) SetUser(c models.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &c
	m.center = c
}

func (m *MapSurface) SetCandidates(toilets []models.Toilet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = append([]models.Toilet(nil), toilets...)
}

// Activate resolves a marker click to its toilet.
func (m *MapSurface) Activate(id string) (models.Toilet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.candidates {
		if t.ID == id {
			return t, true
		}
	}
	return models.Toilet{}, false
}

func (m *MapSurface) AddOverlay(o models.RouteOverlay) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlays = append(m.overlays, o)
}

func (m *MapSurface) RemoveOverlay(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.overlays[:0]
	for _, o := range m.overlays {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	m.overlays = kept
}

// OverlayCount reports how many overlays are live. It is 0 or 1 whenever the
// surface is driven by a RouteSynchronizer.
func (m *MapSurface) OverlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.overlays)
}

// Render fills the map part of a snapshot.
func (m *MapSurface) Render(s *models.MapSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.Tiles = m.tiles
	s.Center = m.center
	s.Zoom = m.zoom
	s.User = nil
	if m.user != nil {
		s.User = &models.Marker{
			ID:       "user",
			Position: *m.user,
			Icon:     models.IconUser,
			Title:    "You are here",
			Popup:    []string{"You are here"},
		}
	}

	s.Markers = make([]models.Marker, 0, len(m.candidates))
	for _, t := range m.candidates {
		s.Markers = append(s.Markers, toiletMarker(t))
	}

	s.Route = nil
	if n := len(m.overlays); n > 0 {
		o := m.overlays[n-1]
		s.Route = &o
	}
}

func toiletMarker(t models.Toilet) models.Marker {
	price := "Free"
	if t.Paid {
		price = "Paid"
	}
	return models.Marker{
		ID:       t.ID,
		Position: t.Position,
		Icon:     models.IconToilet,
		Title:    t.Name,
		Popup:    []string{t.Name, fmt.Sprintf("Rating: %d/5", t.HygieneRating), price},
	}
}
