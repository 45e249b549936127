package models

import (
	"errors"
	"fmt"
)

const (
	MinHygieneRating = 0
	MaxHygieneRating = 5
)

// Toilet is a nearby public toilet shown on the map.
type Toilet struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Position             Coordinate `json:"position"`
	Paid                 bool       `json:"paid"`
	HygieneRating        int        `json:"hygiene_rating"`
	WheelchairAccessible bool       `json:"wheelchair_accessible"`
	FamilyFriendly       bool       `json:"family_friendly"`
	Showers              bool       `json:"showers"`
	Reviews              []Review   `json:"reviews"`
}

// Review is a single user review. Reviews are displayed in slice order.
type Review struct {
	ID       string `json:"id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
	UserName string `json:"user_name"`
}

// Validate checks a single toilet record.
func (t Toilet) Validate() error {
	if t.ID == "" {
		return errors.New("toilet id must be non-empty")
	}
	if err := t.Position.Validate(); err != nil {
		return fmt.Errorf("toilet %q: %w", t.ID, err)
	}
	if t.HygieneRating < MinHygieneRating || t.HygieneRating > MaxHygieneRating {
		return fmt.Errorf("toilet %q: hygiene rating %d out of range %d-%d",
			t.ID, t.HygieneRating, MinHygieneRating, MaxHygieneRating)
	}
	return nil
}

// ValidateCandidates validates every record and checks that ids are unique.
func ValidateCandidates(toilets []Toilet) error {
	seen := make(map[string]struct{}, len(toilets))
	for i, t := range toilets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("candidate #%d: %w", i+1, err)
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("candidate #%d: duplicate toilet id %q", i+1, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
