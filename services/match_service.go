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

// MatchService runs the pairwise flow: intake of match requests and the
// greedy FIFO matcher that pairs them.
type MatchService struct {
	Store   MatchStore
	Members MemberStore
	SMS     Notifier
}

// CreateMatchRequestInput is the payload for a new pairwise request.
type CreateMatchRequestInput struct {
	Phone           string `json:"phone"`
	Region          string `json:"region"`
	TimeWindow      string `json:"timeWindow"`
	PartyType       string `json:"partyType"`
	MatchPreference string `json:"matchPreference"`
}

// CreateMatchRequest validates and stores a new request, then
// immediately tries to match it against the region pool. Returns the
// stored request and whether a match was found right away.
func (ms *MatchService) CreateMatchRequest(ctx context.Context, input *CreateMatchRequestInput) (*models.MatchRequest, bool, error) {
	if input.Phone == "" {
		return nil, false, NewValidationError("phone is required")
	}
	if !models.ValidRegion(input.Region) {
		return nil, false, NewValidationError("invalid region: %s", input.Region)
	}
	if !models.ValidTimeWindow(input.TimeWindow) {
		return nil, false, NewValidationError("invalid time window: %s", input.TimeWindow)
	}
	if !models.ValidPartyType(input.PartyType) {
		return nil, false, NewValidationError("invalid party type: %s", input.PartyType)
	}
	if !models.ValidMatchPreference(input.MatchPreference) {
		return nil, false, NewValidationError("invalid match preference: %s", input.MatchPreference)
	}

	phone := utils.FormatPhoneE164(input.Phone)
	if !utils.IsValidE164(phone) {
		return nil, false, NewValidationError("invalid phone number")
	}

	member, err := ms.Members.GetMemberByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	if member == nil {
		return nil, false, fmt.Errorf("member not found for phone: %w", ErrNotFound)
	}

	// At most one OPEN request per identity; the intake layer enforces
	// this before the matcher ever sees the request.
	existing, err := ms.Store.OpenMatchRequestByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return nil, false, NewConflictError("You already have an open dinner request. We'll text you when we find a match!")
	}

	request := &models.MatchRequest{
		RequestID:       uuid.NewString(),
		Phone:           phone,
		Region:          input.Region,
		TimeWindow:      input.TimeWindow,
		PartyType:       input.PartyType,
		MatchPreference: input.MatchPreference,
		Status:          models.RequestStatusOpen,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := ms.Store.CreateMatchRequest(ctx, request); err != nil {
		return nil, false, err
	}

	if err := ms.TryMatchForRequest(ctx, request.RequestID); err != nil {
		// Matching is best-effort at intake time; the request stays OPEN
		// and a later trigger can pick it up.
		log.Printf("match attempt failed for request %s: %v", request.RequestID, err)
	}

	updated, err := ms.Store.GetMatchRequest(ctx, request.RequestID)
	if err != nil {
		return request, false, nil
	}
	return updated, updated.Status == models.RequestStatusMatched, nil
}

// TryMatchForRequest attempts to pair one request against its region
// pool. No-op when the request is no longer OPEN, so intake triggers
// and periodic sweeps are safe to run concurrently. Greedy first fit in
// arrival order: the earliest compatible candidate wins, and finding
// nobody is steady state, not an error.
func (ms *MatchService) TryMatchForRequest(ctx context.Context, requestID string) error {
	request, err := ms.Store.GetMatchRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != models.RequestStatusOpen {
		return nil
	}

	pool, err := ms.Store.OpenMatchRequests(ctx, request.Region)
	if err != nil {
		return err
	}

	for {
		candidate := FirstCompatible(request, pool)
		if candidate == nil {
			return nil
		}

		match := &models.PairMatch{
			MatchID:    uuid.NewString(),
			RequestAID: request.RequestID,
			RequestBID: candidate.RequestID,
			PhoneA:     request.Phone,
			PhoneB:     candidate.Phone,
			Region:     request.Region,
			Status:     models.MatchStatusPending,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		}

		ok, err := ms.Store.CreatePairMatch(ctx, match)
		if err != nil {
			return err
		}
		if ok {
			ms.sendMatchPrompts(ctx, request, candidate, match)
			return nil
		}

		// Lost a race: either our request or the candidate got claimed by
		// a concurrent run. Re-check our side, drop the candidate, retry.
		fresh, err := ms.Store.GetMatchRequest(ctx, request.RequestID)
		if err != nil {
			return err
		}
		if fresh.Status != models.RequestStatusOpen {
			return nil
		}
		pool = withoutRequest(pool, candidate.RequestID)
	}
}

// sendMatchPrompts notifies both parties after the match transaction
// has committed. Fire-and-forget: failures are logged, never unwound.
func (ms *MatchService) sendMatchPrompts(ctx context.Context, a, b *models.MatchRequest, match *models.PairMatch) {
	message := fmt.Sprintf(
		"We found someone for dinner in %s %s. Reply YES to confirm or NO to pass.",
		models.RegionName(match.Region),
		timeDescription(a.TimeWindow, b.TimeWindow),
	)

	if !ms.SMS.Send(ctx, match.PhoneA, message) {
		log.Printf("match prompt not delivered to %s for match %s", utils.MaskPhone(match.PhoneA), match.MatchID)
	}
	if !ms.SMS.Send(ctx, match.PhoneB, message) {
		log.Printf("match prompt not delivered to %s for match %s", utils.MaskPhone(match.PhoneB), match.MatchID)
	}
	log.Printf("match created: %s", match.MatchID)
}

// timeDescription picks the concrete week when either side named one.
func timeDescription(timeA, timeB string) string {
	if timeA == models.TimeWindowThisWeek || timeB == models.TimeWindowThisWeek {
		return "this week"
	}
	if timeA == models.TimeWindowNextWeek || timeB == models.TimeWindowNextWeek {
		return "next week"
	}
	return "soon"
}

func withoutRequest(pool []models.MatchRequest, requestID string) []models.MatchRequest {
	out := pool[:0]
	for i := range pool {
		if pool[i].RequestID != requestID {
			out = append(out, pool[i])
		}
	}
	return out
}

// CancelMatch is the operator remedy for a stale pending match: it runs
// the same cascade a NO reply does, releasing both requests back to the
// pool.
func (ms *MatchService) CancelMatch(ctx context.Context, matchID, reason string) error {
	match, err := ms.Store.GetPairMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Status != models.MatchStatusPending {
		return NewConflictError("match is not pending")
	}
	if reason == "" {
		reason = "released by admin"
	}

	ok, err := ms.Store.CancelPairMatch(ctx, match, reason)
	if err != nil {
		return err
	}
	if !ok {
		return NewConflictError("match is not pending")
	}

	notice := "That dinner fell through. You're back in the pool and we'll keep looking."
	ms.SMS.Send(ctx, match.PhoneA, notice)
	ms.SMS.Send(ctx, match.PhoneB, notice)
	return nil
}

// GetAllMatchRequests returns recent match requests for the admin view.
func (ms *MatchService) GetAllMatchRequests(ctx context.Context, limit int) ([]models.MatchRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	return ms.Store.ListMatchRequests(ctx, limit)
}

// GetAllPairMatches returns recent pair matches for the admin view.
func (ms *MatchService) GetAllPairMatches(ctx context.Context, limit int) ([]models.PairMatch, error) {
	if limit <= 0 {
		limit = 50
	}
	return ms.Store.ListPairMatches(ctx, limit)
}
