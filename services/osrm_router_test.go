package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"toilet-finder/models"
)

var (
	testFrom = models.Coordinate{Lat: 8.5241, Lng: 76.9366}
	testTo   = models.Coordinate{Lat: 8.5261, Lng: 76.9386}
)

func newTestOSRM(t *testing.T, h http.HandlerFunc) *OSRMRouter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	r, err := NewOSRMRouter(srv.URL, "foot", time.Second)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	r.client.backoff = time.Millisecond
	return r
}

func TestOSRMRouterRoute(t *testing.T) {
	r := newTestOSRM(t, func(w http.ResponseWriter, req *http.Request) {
		if !strings.HasPrefix(req.URL.Path, "/route/v1/foot/76.936600,8.524100;76.938600,8.526100") {
			t.Errorf("path = %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("overview") != "full" || q.Get("geometries") != "geojson" {
			t.Errorf("query = %s", req.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"code": "Ok",
			"routes": []map[string]any{{
				"distance": 412.6,
				"duration": 297.2,
				"geometry": map[string]any{
					"type":        "LineString",
					"coordinates": [][]float64{{76.9366, 8.5241}, {76.9375, 8.5250}, {76.9386, 8.5261}},
				},
			}},
		})
	})

	route, err := r.Route(context.Background(), testFrom, testTo)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if len(route.Path) != 3 {
		t.Fatalf("path has %d points, want 3", len(route.Path))
	}
	if route.Path[1] != (models.Coordinate{Lat: 8.5250, Lng: 76.9375}) {
		t.Errorf("path[1] = %v, lng/lat not swapped", route.Path[1])
	}
	if route.DistanceMeters != 413 || route.DurationSeconds != 297 {
		t.Errorf("distance/duration = %d/%d", route.DistanceMeters, route.DurationSeconds)
	}
	if route.Provider != "osrm" {
		t.Errorf("provider = %q", route.Provider)
	}
}

func TestOSRMRouterRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	r := newTestOSRM(t, func(w http.ResponseWriter, req *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":1,"duration":1,"geometry":{"coordinates":[[76.9366,8.5241],[76.9386,8.5261]]}}]}`))
	})

	if _, err := r.Route(context.Background(), testFrom, testTo); err != nil {
		t.Fatalf("route: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestOSRMRouterNoRoute(t *testing.T) {
	var calls atomic.Int32
	r := newTestOSRM(t, func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points"}`))
	})

	_, err := r.Route(context.Background(), testFrom, testTo)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (4xx is not retried)", got)
	}
}

func TestOSRMRouterGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	r := newTestOSRM(t, func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	})

	_, err := r.Route(context.Background(), testFrom, testTo)
	var he *httpStatusError
	if !errors.As(err, &he) || he.Code != http.StatusBadGateway {
		t.Fatalf("err = %v, want 502 status error", err)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("calls = %d, want 4", got)
	}
}

func TestOSRMRouterInvalidInput(t *testing.T) {
	r := newTestOSRM(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("router called for invalid input")
	})
	if _, err := r.Route(context.Background(), models.Coordinate{Lat: 100}, testTo); err == nil {
		t.Error("expected validation error")
	}
}

func TestNewOSRMRouterRequiresBaseURL(t *testing.T) {
	if _, err := NewOSRMRouter("", "foot", time.Second); err == nil {
		t.Error("expected error for empty base url")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"429", &httpStatusError{Code: 429}, true},
		{"503", &httpStatusError{Code: 503}, true},
		{"400", &httpStatusError{Code: 400}, false},
		{"canceled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
