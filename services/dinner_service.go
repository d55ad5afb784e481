package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"supper_server/models"
	"supper_server/utils"

	"github.com/google/uuid"
)

// DinnerService runs the group flow: intake of dinner requests and the
// per-city greedy grouping that assembles proposed dinners.
type DinnerService struct {
	Store DinnerStore
	SMS   Notifier
}

// CreateDinnerRequestInput is the payload for a new group request.
type CreateDinnerRequestInput struct {
	City         string `json:"city"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	IsCouple     bool   `json:"isCouple"`
	PartnerName  string `json:"partnerName,omitempty"`
	PartnerPhone string `json:"partnerPhone,omitempty"`
	Budget       string `json:"budget,omitempty"`
	Diet         string `json:"diet,omitempty"`
	Allergies    string `json:"allergies,omitempty"`
	Vibe         string `json:"vibe,omitempty"`
}

// CreateDinnerRequest validates and stores a new request, sends the
// pool-entry confirmation, and triggers grouping for the city.
func (ds *DinnerService) CreateDinnerRequest(ctx context.Context, input *CreateDinnerRequestInput) (*models.DinnerRequest, error) {
	if input.City == "" {
		return nil, NewValidationError("city is required")
	}
	if input.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if input.Phone == "" {
		return nil, NewValidationError("phone is required")
	}
	if input.IsCouple && input.PartnerName == "" {
		return nil, NewValidationError("partner name is required for couples")
	}

	phone := utils.FormatPhoneE164(input.Phone)
	if !utils.IsValidE164(phone) {
		return nil, NewValidationError("invalid phone number")
	}
	partnerPhone := ""
	if input.PartnerPhone != "" {
		partnerPhone = utils.FormatPhoneE164(input.PartnerPhone)
	}

	existing, err := ds.Store.OpenDinnerRequestByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("You already have an open dinner request. We'll text you when we find a match!")
	}

	request := &models.DinnerRequest{
		RequestID:    uuid.NewString(),
		City:         input.City,
		Name:         input.Name,
		Phone:        phone,
		Email:        input.Email,
		IsCouple:     input.IsCouple,
		PartnerName:  input.PartnerName,
		PartnerPhone: partnerPhone,
		Budget:       input.Budget,
		Diet:         input.Diet,
		Allergies:    input.Allergies,
		Vibe:         input.Vibe,
		Status:       models.RequestStatusOpen,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := ds.Store.CreateDinnerRequest(ctx, request); err != nil {
		return nil, err
	}

	ack := fmt.Sprintf("You're in the pool for a Shared dinner in %s. We'll text you when we find a match.", request.City)
	if !ds.SMS.Send(ctx, phone, ack) {
		log.Printf("request confirmation not delivered to %s", utils.MaskPhone(phone))
	}

	if err := ds.TryMatchRequests(ctx, request.City); err != nil {
		log.Printf("group match attempt failed for city %s: %v", request.City, err)
	}

	return request, nil
}

// TryMatchRequests runs the greedy grouper over a city's OPEN pool.
// Bin-packing by arrival order, not optimal fill: a running group takes
// requests oldest-first until the next one would overflow the target,
// then closes if it reached quorum. Safe to run concurrently with
// intake triggers; the creation transaction only commits against
// still-OPEN requests, so an unchanged pool yields no duplicate dinner.
func (ds *DinnerService) TryMatchRequests(ctx context.Context, city string) error {
	openRequests, err := ds.Store.OpenDinnerRequests(ctx, city)
	if err != nil {
		return err
	}

	if HeadCount(openRequests) < MinGroupSize {
		log.Printf("not enough people in %s (%d/%d minimum)", city, HeadCount(openRequests), MinGroupSize)
		return nil
	}

	for _, group := range AccumulateGroups(openRequests, MinGroupSize, TargetGroupSize) {
		if err := ds.createProposedDinner(ctx, city, group); err != nil {
			return err
		}
	}
	return nil
}

// createProposedDinner persists one group with its event and notifies
// every member. The schedule is a fixed policy, not a preference
// negotiation: next week at 7 PM, RSVPs closing the day before.
func (ds *DinnerService) createProposedDinner(ctx context.Context, city string, requests []models.DinnerRequest) error {
	scheduledAt := time.Now().UTC().AddDate(0, 0, 7)
	scheduledAt = time.Date(scheduledAt.Year(), scheduledAt.Month(), scheduledAt.Day(), 19, 0, 0, 0, time.UTC)
	rsvpCloseAt := scheduledAt.AddDate(0, 0, -1)

	createdAt := time.Now().UTC().Format(time.RFC3339)

	event := &models.Event{
		EventID:     uuid.NewString(),
		Title:       fmt.Sprintf("Shared Dinner in %s", city),
		City:        city,
		StartAt:     scheduledAt.Format(time.RFC3339),
		RsvpCloseAt: rsvpCloseAt.Format(time.RFC3339),
		GroupSize:   HeadCount(requests),
		Status:      models.EventStatusOpen,
		CreatedAt:   createdAt,
	}

	dinner := &models.ProposedDinner{
		DinnerID:    uuid.NewString(),
		EventID:     event.EventID,
		City:        city,
		ScheduledAt: scheduledAt.Format(time.RFC3339),
		Status:      models.DinnerStatusPending,
		CreatedAt:   createdAt,
	}

	members := make([]models.DinnerMember, 0, len(requests))
	for i := range requests {
		request := &requests[i]
		members = append(members, models.DinnerMember{
			MemberID:     uuid.NewString(),
			DinnerID:     dinner.DinnerID,
			RequestID:    request.RequestID,
			Phone:        request.Phone,
			PartnerPhone: request.PartnerPhone,
			PartySize:    request.PartySize(),
			Confirmed:    false,
			CreatedAt:    createdAt,
		})
	}

	ok, err := ds.Store.CreateProposedDinner(ctx, dinner, event, members)
	if err != nil {
		return fmt.Errorf("failed to create proposed dinner: %w", err)
	}
	if !ok {
		// A concurrent grouping run claimed part of this pool first.
		log.Printf("proposed dinner abandoned in %s, requests no longer open", city)
		return nil
	}

	day := scheduledAt.Format("Monday, Jan 2")
	clock := scheduledAt.Format("3:04 PM")
	message := fmt.Sprintf("We found a potential dinner on %s at %s. Reply YES to confirm.", day, clock)
	for i := range members {
		if !ds.SMS.Send(ctx, members[i].Phone, message) {
			log.Printf("match notification not delivered to %s for dinner %s", utils.MaskPhone(members[i].Phone), dinner.DinnerID)
		}
	}

	log.Printf("created proposed dinner %s with %d requests (%d people)", dinner.DinnerID, len(requests), HeadCount(requests))
	return nil
}

// GetAllDinnerRequests returns recent dinner requests for the admin view.
func (ds *DinnerService) GetAllDinnerRequests(ctx context.Context, limit int) ([]models.DinnerRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	return ds.Store.ListDinnerRequests(ctx, limit)
}

// ProposedDinnerSummary is the admin view of one proposed dinner with
// its confirmation progress.
type ProposedDinnerSummary struct {
	models.ProposedDinner
	MemberCount    int `json:"memberCount"`
	ConfirmedCount int `json:"confirmedCount"`
}

// GetAllProposedDinners returns recent proposed dinners with member and
// confirmation counts.
func (ds *DinnerService) GetAllProposedDinners(ctx context.Context, limit int) ([]ProposedDinnerSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	dinners, err := ds.Store.ListProposedDinners(ctx, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProposedDinnerSummary, 0, len(dinners))
	for i := range dinners {
		members, err := ds.Store.MembersForDinner(ctx, dinners[i].DinnerID)
		if err != nil {
			return nil, err
		}
		confirmed := 0
		for j := range members {
			if members[j].Confirmed {
				confirmed++
			}
		}
		summaries = append(summaries, ProposedDinnerSummary{
			ProposedDinner: dinners[i],
			MemberCount:    len(members),
			ConfirmedCount: confirmed,
		})
	}
	return summaries, nil
}
