package controllers

import (
	"encoding/json"
	"net/http"

	"supper_server/services"

	"github.com/gorilla/mux"
)

// EventController handles HTTP requests for events and RSVPs
type EventController struct {
	EventService *services.EventService
}

// NewEventController creates a new EventController instance
func NewEventController(eventService *services.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// CreateEvent handles creating a new event
func (ec *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := ec.EventService.CreateEvent(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"eventId": event.EventID,
	})
}

// GetOpenEvents handles listing open events
func (ec *EventController) GetOpenEvents(w http.ResponseWriter, r *http.Request) {
	events, err := ec.EventService.GetOpenEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// GetEvent handles fetching a single event
func (ec *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	event, err := ec.EventService.GetEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// CreateRsvp handles a capacity-bounded RSVP for an event
func (ec *EventController) CreateRsvp(w http.ResponseWriter, r *http.Request) {
	var input services.CreateRsvpInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	input.EventID = mux.Vars(r)["id"]

	rsvp, err := ec.EventService.CreateRsvp(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"rsvpId": rsvp.RsvpID,
	})
}

// GetRsvps handles the admin listing of RSVPs for an event
func (ec *EventController) GetRsvps(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["id"]

	rsvps, err := ec.EventService.GetRsvps(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rsvps": rsvps,
	})
}
