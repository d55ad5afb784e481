package services

import (
	"context"

	"supper_server/models"
)

// The stores own every request/match/dinner lifecycle transition. Each
// multi-row method is one atomic read-modify-write unit: the DynamoDB
// implementations run a single conditional transaction, so a partially
// flipped match is never observable. Methods returning a bool report
// whether the guarded transition actually happened; false means the
// row was already past that state, which callers treat as "someone got
// here first", never as an error.

// MatchStore persists pairwise match requests and pair matches.
type MatchStore interface {
	CreateMatchRequest(ctx context.Context, request *models.MatchRequest) error
	GetMatchRequest(ctx context.Context, requestID string) (*models.MatchRequest, error)
	// OpenMatchRequestByPhone returns the OPEN request for an identity,
	// or nil; the intake duplicate guard.
	OpenMatchRequestByPhone(ctx context.Context, phone string) (*models.MatchRequest, error)
	// OpenMatchRequests returns the OPEN pool for a region, oldest first.
	OpenMatchRequests(ctx context.Context, region string) ([]models.MatchRequest, error)
	// CreatePairMatch writes the match and flips both requests from OPEN
	// to MATCHED_PENDING_CONFIRMATION in one transaction. Returns false
	// without writing if either request is no longer OPEN.
	CreatePairMatch(ctx context.Context, match *models.PairMatch) (bool, error)
	GetPairMatch(ctx context.Context, matchID string) (*models.PairMatch, error)
	// LatestPendingMatchForPhone returns the most recent match still
	// PENDING_CONFIRMATION with this phone on either side, or nil.
	LatestPendingMatchForPhone(ctx context.Context, phone string) (*models.PairMatch, error)
	// SetPairConfirmation stamps one side's confirmation timestamp.
	// Returns false if the match is no longer pending or that side
	// already confirmed (repeated YES).
	SetPairConfirmation(ctx context.Context, matchID, phone, confirmedAt string) (bool, error)
	// ConfirmPairMatch flips the match and both requests to CONFIRMED in
	// one transaction, guarded on the match still being pending with both
	// timestamps set. Returns false if already transitioned.
	ConfirmPairMatch(ctx context.Context, match *models.PairMatch) (bool, error)
	// CancelPairMatch cancels the match and reverts both requests to OPEN
	// with their match reference cleared, in one transaction. Returns
	// false if the match was no longer pending.
	CancelPairMatch(ctx context.Context, match *models.PairMatch, reason string) (bool, error)
	ListMatchRequests(ctx context.Context, limit int) ([]models.MatchRequest, error)
	ListPairMatches(ctx context.Context, limit int) ([]models.PairMatch, error)
}

// DinnerStore persists group dinner requests, proposed dinners and
// their memberships.
type DinnerStore interface {
	CreateDinnerRequest(ctx context.Context, request *models.DinnerRequest) error
	GetDinnerRequest(ctx context.Context, requestID string) (*models.DinnerRequest, error)
	OpenDinnerRequestByPhone(ctx context.Context, phone string) (*models.DinnerRequest, error)
	// OpenDinnerRequests returns the OPEN pool for a city, oldest first.
	OpenDinnerRequests(ctx context.Context, city string) ([]models.DinnerRequest, error)
	// CreateProposedDinner writes the dinner, its event, every member row
	// and flips every underlying request from OPEN to matched, all in one
	// transaction. Returns false without writing if any request is no
	// longer OPEN (a concurrent matcher run won the pool).
	CreateProposedDinner(ctx context.Context, dinner *models.ProposedDinner, event *models.Event, members []models.DinnerMember) (bool, error)
	GetProposedDinner(ctx context.Context, dinnerID string) (*models.ProposedDinner, error)
	// LatestPendingMemberForPhone returns this identity's most recent
	// unconfirmed membership in a still-PENDING dinner, or nil.
	LatestPendingMemberForPhone(ctx context.Context, phone string) (*models.DinnerMember, error)
	// ConfirmMember flips one membership to confirmed. Returns false if
	// it was already confirmed (repeated YES).
	ConfirmMember(ctx context.Context, member *models.DinnerMember, confirmedAt string) (bool, error)
	MembersForDinner(ctx context.Context, dinnerID string) ([]models.DinnerMember, error)
	// ConfirmProposedDinner flips the dinner to CONFIRMED, guarded on it
	// still being PENDING. Returns false if already transitioned.
	ConfirmProposedDinner(ctx context.Context, dinnerID string) (bool, error)
	// RemoveMember deletes the membership row and reopens the underlying
	// request for backfill, in one transaction. The dinner itself is left
	// untouched.
	RemoveMember(ctx context.Context, member *models.DinnerMember) error
	ListDinnerRequests(ctx context.Context, limit int) ([]models.DinnerRequest, error)
	ListProposedDinners(ctx context.Context, limit int) ([]models.ProposedDinner, error)
}

// EventStore persists events and their capacity-bounded RSVPs.
type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	OpenEvents(ctx context.Context) ([]models.Event, error)
	// CreateRsvp inserts the RSVP and bumps the event's attendee count in
	// one transaction. The capacity and duplicate checks run as condition
	// expressions inside that transaction; a failed condition surfaces as
	// a ConflictError with no partial effect.
	CreateRsvp(ctx context.Context, event *models.Event, rsvp *models.Rsvp) error
	RsvpsForEvent(ctx context.Context, eventID string) ([]models.Rsvp, error)
}

// MemberStore persists club members keyed by phone.
type MemberStore interface {
	CreateMember(ctx context.Context, member *models.Member) error
	GetMemberByPhone(ctx context.Context, phone string) (*models.Member, error)
}

// Notifier is the outbound messaging gateway. Send is best-effort: it
// returns false on failure and the caller logs and moves on; a failed
// send never rolls back a committed state change.
type Notifier interface {
	Send(ctx context.Context, to, body string) bool
}
