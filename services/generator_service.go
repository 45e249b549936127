package services

import (
	"context"
	"fmt"
	"toilet-finder/models"
)

// MockOffset is the distance in degrees, on each axis, between the user and
// each mocked toilet.
const MockOffset = 0.002

// Generator produces candidate toilets near a user position. It is the seam
// where a real nearby search would plug in.
type Generator interface {
	Generate(ctx context.Context, user models.Coordinate) ([]models.Toilet, error)
}

// MockGenerator returns two fixed sample toilets around the user.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (g *MockGenerator) Generate(ctx context.Context, user models.Coordinate) ([]models.Toilet, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("generate toilets: %w", err)
	}

	return []models.Toilet{
		{
			ID:                   "1",
			Name:                 "Public Toilet 1",
			Position:             user.Offset(MockOffset, MockOffset),
			Paid:                 true,
			HygieneRating:        4,
			WheelchairAccessible: true,
			FamilyFriendly:       true,
			Showers:              false,
			Reviews:              []models.Review{},
		},
		{
			ID:                   "2",
			Name:                 "Public Toilet 2",
			Position:             user.Offset(-MockOffset, -MockOffset),
			Paid:                 false,
			HygieneRating:        3,
			WheelchairAccessible: false,
			FamilyFriendly:       true,
			Showers:              true,
			Reviews:              []models.Review{},
		},
	}, nil
}
