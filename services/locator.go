package services

import (
	"context"
	"fmt"
	"sync"
	"toilet-finder/models"
)

// Browser geolocation error codes (GeolocationPositionError).
const (
	LocationPermissionDenied    = 1
	LocationPositionUnavailable = 2
	LocationTimeout             = 3
)

// LocationError is a failure reported by the geolocation provider.
type LocationError struct {
	Code    int
	Message string
}

func (e *LocationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("geolocation failed: %s", e.Reason())
	}
	return fmt.Sprintf("geolocation failed: %s: %s", e.Reason(), e.Message)
}

func (e *LocationError) Reason() string {
	switch e.Code {
	case LocationPermissionDenied:
		return "permission_denied"
	case LocationPositionUnavailable:
		return "position_unavailable"
	case LocationTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Locator yields the user's position. Each call blocks until the next fix,
// a failure, or ctx cancellation.
type Locator interface {
	Locate(ctx context.Context) (models.Coordinate, error)
}

type locateResult struct {
	coord models.Coordinate
	err   error
}

// ReportedLocator is fed by the browser. Only the latest unread report is
// kept; older ones are dropped.
type ReportedLocator struct {
	mu sync.Mutex
	ch chan locateResult
}

func NewReportedLocator() *ReportedLocator {
	return &ReportedLocator{ch: make(chan locateResult, 1)}
}

func (r *ReportedLocator) Report(c models.Coordinate) {
	r.push(locateResult{coord: c})
}

func (r *ReportedLocator) Fail(err error) {
	r.push(locateResult{err: err})
}

func (r *ReportedLocator) push(res locateResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.ch:
	default:
	}
	r.ch <- res
}

func (r *ReportedLocator) Locate(ctx context.Context) (models.Coordinate, error) {
	select {
	case <-ctx.Done():
		return models.Coordinate{}, ctx.Err()
	case res := <-r.ch:
		return res.coord, res.err
	}
}
