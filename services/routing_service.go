package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"toilet-finder/models"
)

// ErrNoRoute is returned by routers when the provider found no path.
var ErrNoRoute = errors.New("no route found")

// Router computes a drawable path between two coordinates.
type Router interface {
	Route(ctx context.Context, from, to models.Coordinate) (models.Route, error)
}

// StaticRouter returns a straight two-point path. It never calls out and is
// used in tests and local runs without a routing backend.
type StaticRouter struct {
	// MetersPerSecond is used to derive a duration; walking pace by default.
	MetersPerSecond float64
}

func (s StaticRouter) Route(ctx context.Context, from, to models.Coordinate) (models.Route, error) {
	if err := ctx.Err(); err != nil {
		return models.Route{}, err
	}
	if err := from.Validate(); err != nil {
		return models.Route{}, fmt.Errorf("static route: from: %w", err)
	}
	if err := to.Validate(); err != nil {
		return models.Route{}, fmt.Errorf("static route: to: %w", err)
	}

	speed := s.MetersPerSecond
	if speed <= 0 {
		speed = 1.4
	}
	meters := HaversineMeters(from, to)

	return models.Route{
		From:            from,
		To:              to,
		Path:            []models.Coordinate{from, to},
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: int(math.Round(meters / speed)),
		Provider:        "static",
	}, nil
}

// FailingRouter always fails with Err (ErrNoRoute when nil).
type FailingRouter struct {
	Err error
}

func (f FailingRouter) Route(ctx context.Context, from, to models.Coordinate) (models.Route, error) {
	if f.Err != nil {
		return models.Route{}, f.Err
	}
	return models.Route{}, ErrNoRoute
}

const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two coordinates.
func HaversineMeters(a, b models.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
