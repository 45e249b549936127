package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOSRM = "osrm"
	ProviderORS  = "ors"

	DefaultTileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultTileAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Map     MapConfig
	Routing RoutingConfig
	Redis   RedisConfig
	View    ViewConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

type MapConfig struct {
	TileURL           string
	TileAttribution   string
	DefaultLat        float64
	DefaultLng        float64
	DefaultZoom       int
	DirectionsBaseURL string
}

type RoutingConfig struct {
	Provider    string
	OSRMBaseURL string
	ORSBaseURL  string
	ORSAPIKey   string
	Profile     string
	Timeout     time.Duration
	CacheTTL    time.Duration
}

// RedisConfig is optional; an empty Addr disables the route cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ViewConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	provider := strings.ToLower(getEnv("ROUTING_PROVIDER", ProviderOSRM))

	cfg := Config{
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		Map: MapConfig{
			TileURL:           getEnv("MAP_TILE_URL", DefaultTileURL),
			TileAttribution:   getEnv("MAP_TILE_ATTRIBUTION", DefaultTileAttribution),
			DefaultLat:        getEnvAsFloat("MAP_DEFAULT_LAT", 8.5241),
			DefaultLng:        getEnvAsFloat("MAP_DEFAULT_LNG", 76.9366),
			DefaultZoom:       getEnvAsInt("MAP_DEFAULT_ZOOM", 15),
			DirectionsBaseURL: strings.TrimRight(getEnv("DIRECTIONS_BASE_URL", "https://www.openstreetmap.org"), "/"),
		},
		Routing: RoutingConfig{
			Provider:    provider,
			OSRMBaseURL: strings.TrimRight(getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"), "/"),
			ORSBaseURL:  strings.TrimRight(getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"), "/"),
			ORSAPIKey:   os.Getenv("ORS_API_KEY"),
			Profile:     getEnv("ROUTING_PROFILE", defaultProfile(provider)),
			Timeout:     getEnvAsDuration("ROUTING_TIMEOUT", 10*time.Second),
			CacheTTL:    getEnvAsDuration("ROUTE_CACHE_TTL", 10*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		View: ViewConfig{
			IdleTimeout:   getEnvAsDuration("VIEW_IDLE_TIMEOUT", 30*time.Minute),
			SweepInterval: getEnvAsDuration("VIEW_SWEEP_INTERVAL", time.Minute),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if config is valid
func (c Config) Validate() error {
	switch c.Routing.Provider {
	case ProviderOSRM:
	case ProviderORS:
		if strings.TrimSpace(c.Routing.ORSAPIKey) == "" {
			return fmt.Errorf("config: ORS_API_KEY is required when ROUTING_PROVIDER=%s", ProviderORS)
		}
	default:
		return fmt.Errorf("config: unknown ROUTING_PROVIDER %q", c.Routing.Provider)
	}

	if c.Map.DefaultLat < -90 || c.Map.DefaultLat > 90 || c.Map.DefaultLng < -180 || c.Map.DefaultLng > 180 {
		return fmt.Errorf("config: default map center %f,%f out of range", c.Map.DefaultLat, c.Map.DefaultLng)
	}
	if c.Map.DefaultZoom < 0 || c.Map.DefaultZoom > 19 {
		return fmt.Errorf("config: MAP_DEFAULT_ZOOM %d out of range 0-19", c.Map.DefaultZoom)
	}
	if c.View.IdleTimeout <= 0 || c.View.SweepInterval <= 0 {
		return fmt.Errorf("config: view idle timeout and sweep interval must be positive")
	}

	return nil
}

func defaultProfile(provider string) string {
	if provider == ProviderORS {
		return "foot-walking"
	}
	return "foot"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
