package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"toilet-finder/metrics"
	"toilet-finder/models"
)

// ErrRouteUnavailable wraps every routing failure surfaced by the synchronizer.
var ErrRouteUnavailable = errors.New("route unavailable")

type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRebuilding
	SyncActive
)

func (s SyncState) String() string {
	switch s {
	case SyncRebuilding:
		return "rebuilding"
	case SyncActive:
		return "active"
	default:
		return "idle"
	}
}

type routeKey struct {
	toiletID string
	from     models.Coordinate
	to       models.Coordinate
}

// RouteSynchronizer keeps at most one route overlay on a surface, derived
// from the (user position, selected toilet) pair.
//
// A change of pair always tears the previous overlay down before a new one
// is requested. Builds are tagged with a generation; a build that finishes
// after a newer change is discarded, so two overlays are never live at once.
type RouteSynchronizer struct {
	mu        sync.Mutex
	router    Router
	surface   OverlaySurface
	state     SyncState
	gen       uint64
	current   *routeKey
	overlayID string
	lastErr   error
}

func NewRouteSynchronizer(router Router, surface OverlaySurface) *RouteSynchronizer {
	return &RouteSynchronizer{router: router, surface: surface}
}

// PendingRoute is a build started by Begin. Build must be called at most once.
type PendingRoute struct {
	s   *RouteSynchronizer
	gen uint64
	key routeKey
}

// Reconcile brings the overlay in line with the given pair. Calling it again
// with the pair that is already active is a no-op.
func (s *RouteSynchronizer) Reconcile(ctx context.Context, position *models.Coordinate, selection *models.Toilet) error {
	p := s.Begin(position, selection)
	if p == nil {
		return nil
	}
	return p.Build(ctx)
}

// Begin performs the synchronous half of Reconcile: it releases the previous
// overlay and, when the pair is complete, returns the build to run. It
// returns nil when there is nothing to build, including when the pair is
// unchanged since its last build failed.
func (s *RouteSynchronizer) Begin(position *models.Coordinate, selection *models.Toilet) *PendingRoute {
	return s.begin(position, selection, false)
}

// BeginRetry is Begin, except that an unchanged pair whose last build failed
// is built again. It backs an explicit user action such as re-selecting.
func (s *RouteSynchronizer) BeginRetry(position *models.Coordinate, selection *models.Toilet) *PendingRoute {
	return s.begin(position, selection, true)
}

func (s *RouteSynchronizer) begin(position *models.Coordinate, selection *models.Toilet, retryFailed bool) *PendingRoute {
	s.mu.Lock()
	defer s.mu.Unlock()

	var key *routeKey
	if position != nil && selection != nil {
		key = &routeKey{toiletID: selection.ID, from: *position, to: selection.Position}
	}

	if key != nil && s.current != nil && *s.current == *key {
		if s.state != SyncIdle {
			return nil
		}
		if s.lastErr != nil && !retryFailed {
			return nil
		}
	}
	if key == nil && s.state == SyncIdle && s.current == nil && s.lastErr == nil {
		return nil
	}

	s.gen++
	s.teardownLocked()
	s.lastErr = nil

	if key == nil {
		s.state = SyncIdle
		s.current = nil
		return nil
	}

	s.state = SyncRebuilding
	s.current = key
	return &PendingRoute{s: s, gen: s.gen, key: *key}
}

// Build asks the router for the path and installs the overlay unless a newer
// change superseded this build. Routing failures leave the synchronizer Idle
// with no overlay and are returned wrapped in ErrRouteUnavailable.
func (p *PendingRoute) Build(ctx context.Context) error {
	route, err := p.s.router.Route(ctx, p.key.from, p.key.to)

	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.gen != s.gen {
		metrics.RouteBuildsTotal.WithLabelValues("superseded").Inc()
		return nil
	}

	if err != nil {
		metrics.RouteBuildsTotal.WithLabelValues("failed").Inc()
		s.state = SyncIdle
		s.lastErr = err
		return fmt.Errorf("%w: %w", ErrRouteUnavailable, err)
	}

	route.From, route.To = p.key.from, p.key.to
	overlay := models.RouteOverlay{
		ID:       fmt.Sprintf("route-%d", p.gen),
		ToiletID: p.key.toiletID,
		Route:    route,
		Color:    routeColor,
		Weight:   routeWeight,
	}
	s.surface.AddOverlay(overlay)
	s.overlayID = overlay.ID
	s.state = SyncActive
	metrics.RouteBuildsTotal.WithLabelValues("ok").Inc()
	return nil
}

// Release tears down any overlay and returns to Idle. In-flight builds are
// discarded when they finish.
func (s *RouteSynchronizer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.teardownLocked()
	s.state = SyncIdle
	s.current = nil
	s.lastErr = nil
}

func (s *RouteSynchronizer) teardownLocked() {
	if s.overlayID != "" {
		s.surface.RemoveOverlay(s.overlayID)
		s.overlayID = ""
	}
}

func (s *RouteSynchronizer) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError is the failure of the most recent build for the current pair.
func (s *RouteSynchronizer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
