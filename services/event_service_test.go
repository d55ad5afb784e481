package services

import (
	"context"
	"fmt"
	"testing"

	"supper_server/models"
)

func newEventService() (*EventService, *memEventStore) {
	store := newMemEventStore()
	return &EventService{Store: store}, store
}

func seedOpenEvent(t *testing.T, store *memEventStore, id string, groupSize int) {
	t.Helper()
	err := store.CreateEvent(context.Background(), &models.Event{
		EventID:     id,
		Title:       "Shared Dinner in Oakland",
		City:        "Oakland",
		StartAt:     "2030-01-10T19:00:00Z",
		RsvpCloseAt: "2030-01-09T19:00:00Z",
		GroupSize:   groupSize,
		Status:      models.EventStatusOpen,
		CreatedAt:   "2026-08-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func rsvpInput(eventID, email string, partySize int) *CreateRsvpInput {
	return &CreateRsvpInput{
		EventID:   eventID,
		Name:      "Guest " + email,
		Email:     email,
		PartySize: partySize,
	}
}

func TestCreateEventValidation(t *testing.T) {
	service, _ := newEventService()

	valid := CreateEventInput{
		Title:       "Supper in the Mission",
		City:        "San Francisco",
		StartAt:     "2030-01-10T19:00:00Z",
		RsvpCloseAt: "2030-01-09T19:00:00Z",
	}

	tests := []struct {
		name   string
		modify func(*CreateEventInput)
	}{
		{"missing title", func(in *CreateEventInput) { in.Title = "" }},
		{"missing city", func(in *CreateEventInput) { in.City = "" }},
		{"malformed start", func(in *CreateEventInput) { in.StartAt = "next friday" }},
		{"malformed close", func(in *CreateEventInput) { in.RsvpCloseAt = "soon" }},
		{"close after start", func(in *CreateEventInput) { in.RsvpCloseAt = "2030-01-11T19:00:00Z" }},
		{"group size too small", func(in *CreateEventInput) { in.GroupSize = 1 }},
		{"group size too large", func(in *CreateEventInput) { in.GroupSize = 21 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.modify(&input)
			_, err := service.CreateEvent(context.Background(), &input)
			if !IsValidationError(err) {
				t.Errorf("CreateEvent() error = %v, want validation error", err)
			}
		})
	}
}

func TestCreateEventDefaultGroupSize(t *testing.T) {
	service, _ := newEventService()
	event, err := service.CreateEvent(context.Background(), &CreateEventInput{
		Title:       "Supper in the Mission",
		City:        "San Francisco",
		StartAt:     "2030-01-10T19:00:00Z",
		RsvpCloseAt: "2030-01-09T19:00:00Z",
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if event.GroupSize != 6 {
		t.Errorf("group size = %d, want default 6", event.GroupSize)
	}
	if event.Status != models.EventStatusOpen {
		t.Errorf("status = %s, want %s", event.Status, models.EventStatusOpen)
	}
}

func TestCreateRsvpValidation(t *testing.T) {
	service, store := newEventService()
	seedOpenEvent(t, store, "event-1", 6)

	tests := []struct {
		name   string
		modify func(*CreateRsvpInput)
	}{
		{"missing event", func(in *CreateRsvpInput) { in.EventID = "" }},
		{"missing name", func(in *CreateRsvpInput) { in.Name = "" }},
		{"missing email", func(in *CreateRsvpInput) { in.Email = "" }},
		{"party size zero", func(in *CreateRsvpInput) { in.PartySize = 0 }},
		{"party size three", func(in *CreateRsvpInput) { in.PartySize = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := rsvpInput("event-1", "sam@example.com", 1)
			tt.modify(input)
			_, err := service.CreateRsvp(context.Background(), input)
			if !IsValidationError(err) {
				t.Errorf("CreateRsvp() error = %v, want validation error", err)
			}
		})
	}
}

func TestCreateRsvpCapacityBoundary(t *testing.T) {
	service, store := newEventService()
	seedOpenEvent(t, store, "event-1", 6)
	ctx := context.Background()

	// Five singles fit a table of six.
	for i := 0; i < 5; i++ {
		_, err := service.CreateRsvp(ctx, rsvpInput("event-1", fmt.Sprintf("guest%d@example.com", i), 1))
		if err != nil {
			t.Fatalf("RSVP %d error = %v", i, err)
		}
	}

	// One seat left: a pair does not fit, and the refusal changes nothing.
	_, err := service.CreateRsvp(ctx, rsvpInput("event-1", "pair@example.com", 2))
	if !IsConflictError(err) {
		t.Fatalf("over-capacity RSVP error = %v, want conflict error", err)
	}
	event, err := store.GetEvent(ctx, "event-1")
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if event.AttendeeCount != 5 {
		t.Errorf("attendee count = %d after refused RSVP, want 5", event.AttendeeCount)
	}

	// A single still takes the last seat.
	if _, err := service.CreateRsvp(ctx, rsvpInput("event-1", "last@example.com", 1)); err != nil {
		t.Fatalf("last-seat RSVP error = %v", err)
	}
	event, err = store.GetEvent(ctx, "event-1")
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if event.AttendeeCount != 6 {
		t.Errorf("attendee count = %d, want 6", event.AttendeeCount)
	}

	// Full table: nobody else gets in.
	_, err = service.CreateRsvp(ctx, rsvpInput("event-1", "late@example.com", 1))
	if !IsConflictError(err) {
		t.Errorf("full-event RSVP error = %v, want conflict error", err)
	}
}

func TestCreateRsvpDuplicateEmail(t *testing.T) {
	service, store := newEventService()
	seedOpenEvent(t, store, "event-1", 6)
	ctx := context.Background()

	if _, err := service.CreateRsvp(ctx, rsvpInput("event-1", "sam@example.com", 1)); err != nil {
		t.Fatalf("first RSVP error = %v", err)
	}
	_, err := service.CreateRsvp(ctx, rsvpInput("event-1", "sam@example.com", 1))
	if !IsConflictError(err) {
		t.Errorf("duplicate RSVP error = %v, want conflict error", err)
	}
	event, err := store.GetEvent(ctx, "event-1")
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if event.AttendeeCount != 1 {
		t.Errorf("attendee count = %d after duplicate, want 1", event.AttendeeCount)
	}
}

func TestCreateRsvpDeadlinePassed(t *testing.T) {
	service, store := newEventService()
	err := store.CreateEvent(context.Background(), &models.Event{
		EventID:     "event-1",
		Title:       "Shared Dinner in Oakland",
		City:        "Oakland",
		StartAt:     "2026-01-10T19:00:00Z",
		RsvpCloseAt: "2026-01-09T19:00:00Z",
		GroupSize:   6,
		Status:      models.EventStatusOpen,
		CreatedAt:   "2026-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	_, err = service.CreateRsvp(context.Background(), rsvpInput("event-1", "sam@example.com", 1))
	if !IsConflictError(err) {
		t.Errorf("past-deadline RSVP error = %v, want conflict error", err)
	}
}

func TestCreateRsvpClosedEvent(t *testing.T) {
	service, store := newEventService()
	err := store.CreateEvent(context.Background(), &models.Event{
		EventID:     "event-1",
		Title:       "Shared Dinner in Oakland",
		City:        "Oakland",
		StartAt:     "2030-01-10T19:00:00Z",
		RsvpCloseAt: "2030-01-09T19:00:00Z",
		GroupSize:   6,
		Status:      models.EventStatusClosed,
		CreatedAt:   "2026-08-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	_, err = service.CreateRsvp(context.Background(), rsvpInput("event-1", "sam@example.com", 1))
	if !IsConflictError(err) {
		t.Errorf("closed-event RSVP error = %v, want conflict error", err)
	}
}

func TestGetOpenEventsFiltersPastDeadlines(t *testing.T) {
	service, store := newEventService()
	seedOpenEvent(t, store, "event-future", 6)
	err := store.CreateEvent(context.Background(), &models.Event{
		EventID:     "event-past",
		Title:       "Shared Dinner in Oakland",
		City:        "Oakland",
		StartAt:     "2026-01-10T19:00:00Z",
		RsvpCloseAt: "2026-01-09T19:00:00Z",
		GroupSize:   6,
		Status:      models.EventStatusOpen,
		CreatedAt:   "2026-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	events, err := service.GetOpenEvents(context.Background())
	if err != nil {
		t.Fatalf("GetOpenEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].EventID != "event-future" {
		t.Errorf("GetOpenEvents() = %v, want only event-future", events)
	}
}
