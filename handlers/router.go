package handlers

import (
	"net/http"
	"toilet-finder/metrics"
	"toilet-finder/middleware"
	"toilet-finder/services"
	"toilet-finder/utils/errors"
	"toilet-finder/web"

	"github.com/gorilla/mux"
)

// NewRouter wires every route of the service.
func NewRouter(registry *services.Registry, generator services.Generator, allowedOrigins []string) http.Handler {
	toiletHandler := NewToiletHandler(generator)
	viewHandler := NewViewHandler(registry)
	socketHandler := NewSocketHandler(registry, allowedOrigins)

	r := mux.NewRouter()
	r.Use(middleware.AccessLog())
	r.Use(middleware.Recover())
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, errors.ErrMethodNotAllowed)
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, errors.ErrNotFound)
	})

	r.HandleFunc("/", Page).Methods("GET")
	r.PathPrefix("/static/").Handler(web.Static()).Methods("GET")
	r.HandleFunc("/health", Health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/toilets", toiletHandler.GetNearbyToilets).Methods("GET")

	// View routes
	r.HandleFunc("/views", viewHandler.CreateView).Methods("POST")
	r.HandleFunc("/views/{id}", viewHandler.GetView).Methods("GET")
	r.HandleFunc("/views/{id}", viewHandler.DeleteView).Methods("DELETE")
	r.HandleFunc("/views/{id}/location", viewHandler.ReportLocation).Methods("POST")
	r.HandleFunc("/views/{id}/location/error", viewHandler.ReportLocationError).Methods("POST")
	r.HandleFunc("/views/{id}/selection", viewHandler.Select).Methods("POST")
	r.HandleFunc("/views/{id}/selection", viewHandler.Deselect).Methods("DELETE")
	r.HandleFunc("/views/{id}/panel", viewHandler.Panel).Methods("GET")
	r.HandleFunc("/views/{id}/directions", viewHandler.Directions).Methods("GET")
	r.HandleFunc("/views/{id}/ws", socketHandler.ViewSocket).Methods("GET")

	return middleware.CORS(allowedOrigins)(r)
}
