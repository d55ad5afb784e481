package services

import (
	"context"
	"time"

	"supper_server/models"
	"supper_server/utils"

	"github.com/google/uuid"
)

// EventService manages standalone events and their capacity-bounded
// RSVP intake. This flow shares the atomic capacity-check discipline of
// the matching engine but not its state machine.
type EventService struct {
	Store EventStore
}

// CreateEventInput is the payload for a new event.
type CreateEventInput struct {
	Title       string `json:"title"`
	City        string `json:"city"`
	StartAt     string `json:"startAt"`
	RsvpCloseAt string `json:"rsvpCloseAt"`
	GroupSize   int    `json:"groupSize"`
}

// CreateEvent validates and stores a new open event.
func (es *EventService) CreateEvent(ctx context.Context, input *CreateEventInput) (*models.Event, error) {
	if input.Title == "" {
		return nil, NewValidationError("title is required")
	}
	if input.City == "" {
		return nil, NewValidationError("city is required")
	}
	startAt, err := time.Parse(time.RFC3339, input.StartAt)
	if err != nil {
		return nil, NewValidationError("invalid startAt date format")
	}
	rsvpCloseAt, err := time.Parse(time.RFC3339, input.RsvpCloseAt)
	if err != nil {
		return nil, NewValidationError("invalid rsvpCloseAt date format")
	}
	if !rsvpCloseAt.Before(startAt) {
		return nil, NewValidationError("RSVP close must be before event start")
	}
	groupSize := input.GroupSize
	if groupSize == 0 {
		groupSize = 6
	}
	if groupSize < 2 || groupSize > 20 {
		return nil, NewValidationError("group size must be between 2 and 20")
	}

	event := &models.Event{
		EventID:     uuid.NewString(),
		Title:       input.Title,
		City:        input.City,
		StartAt:     startAt.UTC().Format(time.RFC3339),
		RsvpCloseAt: rsvpCloseAt.UTC().Format(time.RFC3339),
		GroupSize:   groupSize,
		Status:      models.EventStatusOpen,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := es.Store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetOpenEvents returns open events whose RSVP deadline has not passed,
// soonest first.
func (es *EventService) GetOpenEvents(ctx context.Context) ([]models.Event, error) {
	events, err := es.Store.OpenEvents(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	open := events[:0]
	for i := range events {
		if events[i].RsvpCloseAt > now {
			open = append(open, events[i])
		}
	}
	return open, nil
}

// GetEvent returns one event by ID.
func (es *EventService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	return es.Store.GetEvent(ctx, eventID)
}

// CreateRsvpInput is the payload for one party's RSVP.
type CreateRsvpInput struct {
	EventID     string `json:"eventId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PartySize   int    `json:"partySize"`
	Diet        string `json:"diet,omitempty"`
	Allergies   string `json:"allergies,omitempty"`
	Vibe        string `json:"vibe,omitempty"`
	AfterDinner string `json:"afterDinner,omitempty"`
}

// CreateRsvp validates and records an RSVP. The read-side checks here
// give friendly errors; the store's transaction conditions are the
// authority that makes capacity and duplicate rejection race-proof.
func (es *EventService) CreateRsvp(ctx context.Context, input *CreateRsvpInput) (*models.Rsvp, error) {
	if input.EventID == "" {
		return nil, NewValidationError("eventId is required")
	}
	if input.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if input.Email == "" {
		return nil, NewValidationError("email is required")
	}
	if input.PartySize < 1 || input.PartySize > 2 {
		return nil, NewValidationError("party size must be 1 or 2")
	}
	phone := ""
	if input.Phone != "" {
		phone = utils.FormatPhoneE164(input.Phone)
	}

	event, err := es.Store.GetEvent(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusOpen {
		return nil, NewConflictError("Event is not open for RSVPs")
	}
	if event.RsvpCloseAt <= time.Now().UTC().Format(time.RFC3339) {
		return nil, NewConflictError("RSVP deadline has passed")
	}

	rsvp := &models.Rsvp{
		EventID:     event.EventID,
		Email:       input.Email,
		RsvpID:      uuid.NewString(),
		Name:        input.Name,
		Phone:       phone,
		PartySize:   input.PartySize,
		Diet:        input.Diet,
		Allergies:   input.Allergies,
		Vibe:        input.Vibe,
		AfterDinner: input.AfterDinner,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := es.Store.CreateRsvp(ctx, event, rsvp); err != nil {
		return nil, err
	}
	return rsvp, nil
}

// GetRsvps returns the RSVPs for one event.
func (es *EventService) GetRsvps(ctx context.Context, eventID string) ([]models.Rsvp, error) {
	return es.Store.RsvpsForEvent(ctx, eventID)
}
