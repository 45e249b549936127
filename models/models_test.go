package models

import (
	"math"
	"testing"
)

func TestCoordinateValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinate
		wantErr bool
	}{
		{"origin", Coordinate{0, 0}, false},
		{"corners", Coordinate{90, 180}, false},
		{"negative corners", Coordinate{-90, -180}, false},
		{"lat too high", Coordinate{90.1, 0}, true},
		{"lng too low", Coordinate{0, -180.5}, true},
		{"nan", Coordinate{math.NaN(), 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCoordinateString(t *testing.T) {
	c := Coordinate{Lat: 8.5241, Lng: 76.9366}.Offset(0.002, 0.002)
	if got, want := c.String(), "8.5261,76.9386"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := (Coordinate{Lat: -33.5, Lng: 0}).String(), "-33.5,0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCoordinateLngLat(t *testing.T) {
	got := Coordinate{Lat: 1, Lng: 2}.LngLat()
	if got[0] != 2 || got[1] != 1 {
		t.Errorf("LngLat() = %v, want [2 1]", got)
	}
}

func TestValidateCandidates(t *testing.T) {
	valid := Toilet{ID: "1", Position: Coordinate{1, 1}, HygieneRating: 5}

	if err := ValidateCandidates([]Toilet{valid, {ID: "2", Position: Coordinate{1, 1}}}); err != nil {
		t.Errorf("valid set: %v", err)
	}

	bad := []struct {
		name    string
		toilets []Toilet
	}{
		{"duplicate id", []Toilet{valid, valid}},
		{"empty id", []Toilet{{Position: Coordinate{1, 1}}}},
		{"rating above five", []Toilet{{ID: "x", Position: Coordinate{1, 1}, HygieneRating: 6}}},
		{"negative rating", []Toilet{{ID: "x", Position: Coordinate{1, 1}, HygieneRating: -1}}},
		{"bad position", []Toilet{{ID: "x", Position: Coordinate{100, 1}}}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateCandidates(tt.toilets); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSampleNearbyStops(t *testing.T) {
	stops := SampleNearbyStops()
	if len(stops) != 1 {
		t.Fatalf("stops = %d, want 1", len(stops))
	}
	s := stops[0]
	if s.Name != "Central Bus Stop" || s.Distance != "200m away" || len(s.NextBuses) != 2 {
		t.Errorf("stop = %+v", s)
	}
}
