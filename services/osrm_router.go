package services

import (
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

// OSRMRouter implements Router using an OSRM HTTP server
// (/route/v1/{profile}/{lng},{lat};{lng},{lat}).
//
// The router is safe for concurrent use.
type OSRMRouter struct {
	client  *routeClient
	baseURL string
	profile string
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

func NewOSRMRouter(baseURL, profile string, timeout time.Duration) (*OSRMRouter, error) {
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if profile == "" {
		profile = "foot"
	}
	return &OSRMRouter{
		client:  newRouteClient(timeout, nil),
		baseURL: baseURL,
		profile: profile,
	}, nil
}

func (o *OSRMRouter) Route(ctx context.Context, from, to models.Coordinate) (_ models.Route, err error) {
	defer logger.Time(ctx, "osrm.Route")(&err)

	if err := from.Validate(); err != nil {
		return models.Route{}, fmt.Errorf("osrm route: from: %w", err)
	}
	if err := to.Validate(); err != nil {
		return models.Route{}, fmt.Errorf("osrm route: to: %w", err)
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f",
		o.baseURL, o.profile, from.Lng, from.Lat, to.Lng, to.Lat)

	start := time.Now()
	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		q.Set("alternatives", "false")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	metrics.RouteDurationMs.WithLabelValues("osrm").Observe(float64(time.Since(start).Milliseconds()))
	var decoded osrmResponse
	if err != nil {
		// OSRM reports NoRoute and friends as 400 with a JSON body.
		var he *httpStatusError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest ||
			json.Unmarshal([]byte(he.Body), &decoded) != nil || decoded.Code == "" {
			return models.Route{}, fmt.Errorf("osrm route request: %w", err)
		}
	} else {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return models.Route{}, fmt.Errorf("decode osrm response: %w", err)
		}
	}

	if decoded.Code != "Ok" {
		if decoded.Code == "NoRoute" || decoded.Code == "NoSegment" {
			return models.Route{}, fmt.Errorf("osrm %s: %w", decoded.Code, ErrNoRoute)
		}
		return models.Route{}, fmt.Errorf("osrm returned code %q: %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 {
		return models.Route{}, fmt.Errorf("osrm returned no routes: %w", ErrNoRoute)
	}

	best := decoded.Routes[0]
	path, err := lngLatPath(best.Geometry.Coordinates)
	if err != nil {
		return models.Route{}, fmt.Errorf("osrm geometry: %w", err)
	}

	return models.Route{
		From:            from,
		To:              to,
		Path:            path,
		DistanceMeters:  int(math.Round(best.Distance)),
		DurationSeconds: int(math.Round(best.Duration)),
		Provider:        "osrm",
	}, nil
}

// lngLatPath converts GeoJSON [lng, lat] pairs into coordinates.
func lngLatPath(coords [][]float64) ([]models.Coordinate, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("path has %d points, want at least 2", len(coords))
	}
	out := make([]models.Coordinate, 0, len(coords))
	for i, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("invalid coordinate format at index %d", i)
		}
		out = append(out, models.Coordinate{Lat: c[1], Lng: c[0]})
	}
	return out, nil
}
