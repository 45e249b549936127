package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestORS(t *testing.T, h http.HandlerFunc) *ORSRouter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	r, err := NewORSRouter("test-key", srv.URL, "", time.Second)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	r.client.backoff = time.Millisecond
	return r
}

func TestORSRouterRoute(t *testing.T) {
	r := newTestORS(t, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			t.Errorf("method = %s", req.Method)
		}
		if req.URL.Path != "/v2/directions/foot-walking/geojson" {
			t.Errorf("path = %s", req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("authorization = %q", got)
		}

		var body orsDirectionsRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.Coordinates) != 2 || body.Coordinates[0][0] != 76.9366 || body.Coordinates[0][1] != 8.5241 {
			t.Errorf("coordinates = %v, want [lng lat] pairs", body.Coordinates)
		}

		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[[76.9366,8.5241],[76.9386,8.5261]]},
			"properties":{"summary":{"distance":310.4,"duration":223.5}}}]}`))
	})

	route, err := r.Route(context.Background(), testFrom, testTo)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if len(route.Path) != 2 || route.Path[1] != testTo {
		t.Errorf("path = %v", route.Path)
	}
	if route.DistanceMeters != 310 || route.DurationSeconds != 224 || route.Provider != "ors" {
		t.Errorf("route = %+v", route)
	}
}

func TestORSRouterNotFound(t *testing.T) {
	r := newTestORS(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"error":{"code":2010,"message":"Could not find routable point"}}`, http.StatusNotFound)
	})

	if _, err := r.Route(context.Background(), testFrom, testTo); !errors.Is(err, ErrNoRoute) {
		t.Errorf("err = %v, want ErrNoRoute", err)
	}
}

func TestORSRouterEmptyFeatures(t *testing.T) {
	r := newTestORS(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})

	if _, err := r.Route(context.Background(), testFrom, testTo); !errors.Is(err, ErrNoRoute) {
		t.Errorf("err = %v, want ErrNoRoute", err)
	}
}

func TestORSRouterCanceledContext(t *testing.T) {
	r := newTestORS(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("request sent with canceled context")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Route(ctx, testFrom, testTo); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewORSRouterRequiresKey(t *testing.T) {
	if _, err := NewORSRouter("", "", "", time.Second); err == nil {
		t.Error("expected error for empty api key")
	}
}
