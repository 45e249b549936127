package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"toilet-finder/middleware"
	"toilet-finder/models"
	"toilet-finder/services"
	"toilet-finder/utils/errors"
	"toilet-finder/web"

	"github.com/gorilla/mux"
)

type ViewHandler struct {
	registry *services.Registry
}

type CreateViewResponse struct {
	ViewID string             `json:"view_id"`
	Map    models.MapSnapshot `json:"map"`
}

type locationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type locationErrorRequest struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type selectionRequest struct {
	ToiletID string `json:"toilet_id"`
}

func NewViewHandler(registry *services.Registry) *ViewHandler {
	return &ViewHandler{registry: registry}
}

func (h *ViewHandler) view(w http.ResponseWriter, r *http.Request) (*services.View, bool) {
	v, ok := h.registry.Get(mux.Vars(r)["id"])
	if !ok {
		middleware.WriteError(w, errors.ErrViewNotFound)
		return nil, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *ViewHandler) CreateView(w http.ResponseWriter, r *http.Request) {
	v := h.registry.Create()
	writeJSON(w, http.StatusCreated, CreateViewResponse{ViewID: v.ID, Map: v.Snapshot()})
}

func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

func (h *ViewHandler) DeleteView(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Close(mux.Vars(r)["id"]) {
		middleware.WriteError(w, errors.ErrViewNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ViewHandler) ReportLocation(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Lat == nil || req.Lng == nil {
		middleware.WriteError(w, errors.ErrInvalidInput.WithDetails("lat and lng are required"))
		return
	}
	c := models.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	if err := c.Validate(); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput.WithDetails(err.Error()))
		return
	}

	if err := v.ReportLocation(c); err != nil {
		middleware.WriteError(w, apiError(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *ViewHandler) ReportLocationError(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}

	var req locationErrorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	err := v.ReportLocationError(&services.LocationError{Code: req.Code, Message: req.Message})
	if err != nil {
		middleware.WriteError(w, apiError(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Select handles a marker activation. A routing failure does not fail the
// request: the selection stands and the snapshot carries route_error.
func (h *ViewHandler) Select(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}

	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToiletID == "" {
		middleware.WriteError(w, errors.ErrInvalidInput.WithDetails("toilet_id is required"))
		return
	}

	if err := v.Select(req.ToiletID); err != nil && !stderrors.Is(err, services.ErrRouteUnavailable) {
		middleware.WriteError(w, apiError(err))
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

func (h *ViewHandler) Deselect(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	if err := v.Deselect(); err != nil {
		middleware.WriteError(w, apiError(err))
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// Panel renders the detail panel fragment for the current selection.
func (h *ViewHandler) Panel(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}

	state := v.Panel()
	data := web.NewPanelData(state.Toilet, state.DirectionsURL)
	data.RouteError = state.RouteError

	var buf bytes.Buffer
	if err := web.RenderPanel(&buf, data); err != nil {
		middleware.WriteError(w, errors.Wrap(err, "RENDER_FAILED", "Failed to render panel", http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *ViewHandler) Directions(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	url, err := v.DirectionsURL()
	if err != nil {
		middleware.WriteError(w, apiError(err))
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
