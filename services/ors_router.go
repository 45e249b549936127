package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
	"toilet-finder/logger"
	"toilet-finder/metrics"
	"toilet-finder/models"
)

// ORSRouter implements Router using the OpenRouteService directions API.
type ORSRouter struct {
	client  *routeClient
	baseURL string
	profile string
}

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsDirectionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

func NewORSRouter(apiKey, baseURL, profile string, timeout time.Duration) (*ORSRouter, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	if profile == "" {
		profile = "foot-walking"
	}
	return &ORSRouter{
		client:  newRouteClient(timeout, map[string]string{"Authorization": apiKey}),
		baseURL: baseURL,
		profile: profile,
	}, nil
}

func (o *ORSRouter) Route(ctx context.Context, from, to models.Coordinate) (_ models.Route, err error) {
	defer logger.Time(ctx, "ors.Route")(&err)

	if err := from.Validate(); err != nil {
		return models.Route{}, fmt.Errorf("ors route: from: %w", err)
	}
	if err := to.Validate(); err != nil {
		return models.Route{}, fmt.Errorf("ors route: to: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)
	payload, err := json.Marshal(orsDirectionsRequest{
		Coordinates: [][]float64{from.LngLat(), to.LngLat()},
	})
	if err != nil {
		return models.Route{}, fmt.Errorf("marshal directions request: %w", err)
	}

	start := time.Now()
	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		return o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	metrics.RouteDurationMs.WithLabelValues("ors").Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return models.Route{}, fmt.Errorf("ors directions: %v: %w", err, ErrNoRoute)
		}
		return models.Route{}, fmt.Errorf("ors directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded orsDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.Route{}, fmt.Errorf("decode directions response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return models.Route{}, fmt.Errorf("ors returned no features: %w", ErrNoRoute)
	}

	f := decoded.Features[0]
	path, err := lngLatPath(f.Geometry.Coordinates)
	if err != nil {
		return models.Route{}, fmt.Errorf("ors geometry: %w", err)
	}

	return models.Route{
		From:            from,
		To:              to,
		Path:            path,
		DistanceMeters:  int(math.Round(f.Properties.Summary.Distance)),
		DurationSeconds: int(math.Round(f.Properties.Summary.Duration)),
		Provider:        "ors",
	}, nil
}
