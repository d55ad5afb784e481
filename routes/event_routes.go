package routes

import (
	"supper_server/controllers"
	"supper_server/services"

	"github.com/gorilla/mux"
)

// RegisterEventRoutes sets up routes for events and RSVPs under
// /api/events.
func RegisterEventRoutes(r *mux.Router, eventService *services.EventService, adminToken string) {
	controller := controllers.NewEventController(eventService)

	eventRouter := r.PathPrefix("/api/events").Subrouter()
	eventRouter.HandleFunc("", controller.GetOpenEvents).Methods("GET")
	eventRouter.HandleFunc("/{id}", controller.GetEvent).Methods("GET")
	eventRouter.HandleFunc("/{id}/rsvps", controller.CreateRsvp).Methods("POST")

	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.HandleFunc("/events", adminOnly(adminToken, controller.CreateEvent)).Methods("POST")
	adminRouter.HandleFunc("/events/{id}/rsvps", adminOnly(adminToken, controller.GetRsvps)).Methods("GET")
}
