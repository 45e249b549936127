package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"toilet-finder/middleware"
	"toilet-finder/models"
	"toilet-finder/services"
	"toilet-finder/utils/errors"
)

type ToiletHandler struct {
	generator services.Generator
}

type NearbyToiletsResponse struct {
	Toilets []models.Toilet `json:"toilets"`
	Count   int             `json:"count"`
	Lat     float64         `json:"lat"`
	Lng     float64         `json:"lng"`
}

func NewToiletHandler(generator services.Generator) *ToiletHandler {
	return &ToiletHandler{generator: generator}
}

func (h *ToiletHandler) GetNearbyToilets(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput.WithDetails("lat must be a number"))
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput.WithDetails("lng must be a number"))
		return
	}
	user := models.Coordinate{Lat: lat, Lng: lng}
	if err := user.Validate(); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput.WithDetails(err.Error()))
		return
	}

	toilets, err := h.generator.Generate(r.Context(), user)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := NearbyToiletsResponse{
		Toilets: toilets,
		Count:   len(toilets),
		Lat:     lat,
		Lng:     lng,
	}
	json.NewEncoder(w).Encode(response)
}
