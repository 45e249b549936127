package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ROUTING_PROVIDER", "ROUTING_PROFILE", "MAP_DEFAULT_LAT", "MAP_DEFAULT_LNG", "CORS_ALLOWED_ORIGINS", "ROUTE_CACHE_TTL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Routing.Provider != ProviderOSRM {
		t.Fatalf("provider = %q, want %q", cfg.Routing.Provider, ProviderOSRM)
	}
	if cfg.Routing.Profile != "foot" {
		t.Fatalf("profile = %q, want foot", cfg.Routing.Profile)
	}
	if cfg.Map.DefaultLat != 8.5241 || cfg.Map.DefaultLng != 76.9366 {
		t.Fatalf("default center = %f,%f", cfg.Map.DefaultLat, cfg.Map.DefaultLng)
	}
	if cfg.Map.TileAttribution != DefaultTileAttribution {
		t.Fatalf("attribution = %q", cfg.Map.TileAttribution)
	}
	if cfg.Routing.CacheTTL != 10*time.Minute {
		t.Fatalf("cache ttl = %v", cfg.Routing.CacheTTL)
	}
	if len(cfg.Server.CorsOrigins) != 2 {
		t.Fatalf("cors origins = %v", cfg.Server.CorsOrigins)
	}
}

func TestLoadORSRequiresKey(t *testing.T) {
	t.Setenv("ROUTING_PROVIDER", "ors")
	t.Setenv("ORS_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for ors without api key")
	}

	t.Setenv("ORS_API_KEY", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Routing.Profile != "foot-walking" {
		t.Fatalf("profile = %q, want foot-walking", cfg.Routing.Profile)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("ROUTING_PROVIDER", "graphhopper")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestGetEnvAsSliceTrims(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	got := getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("got %v", got)
	}
}
