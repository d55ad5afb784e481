package services

import (
	"context"
	"sort"
	"sync"

	"supper_server/models"
)

// In-memory stores for tests. They enforce the same status guards the
// DynamoDB condition expressions do, so the services see identical
// transition semantics.

type sentMessage struct {
	To   string
	Body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	fail bool
	sent []sentMessage
}

func (f *fakeNotifier) Send(_ context.Context, to, body string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return false
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return true
}

func (f *fakeNotifier) sentTo(phone string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.To == phone {
			out = append(out, m)
		}
	}
	return out
}

// memMatchStore

type memMatchStore struct {
	mu       sync.Mutex
	requests map[string]*models.MatchRequest
	matches  map[string]*models.PairMatch
}

func newMemMatchStore() *memMatchStore {
	return &memMatchStore{
		requests: map[string]*models.MatchRequest{},
		matches:  map[string]*models.PairMatch{},
	}
}

func (s *memMatchStore) CreateMatchRequest(_ context.Context, request *models.MatchRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *request
	s.requests[request.RequestID] = &copied
	return nil
}

func (s *memMatchStore) GetMatchRequest(_ context.Context, requestID string) (*models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (s *memMatchStore) OpenMatchRequestByPhone(_ context.Context, phone string) (*models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.MatchRequest
	for _, request := range s.requests {
		if request.Phone != phone || request.Status != models.RequestStatusOpen {
			continue
		}
		if latest == nil || request.CreatedAt > latest.CreatedAt {
			latest = request
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (s *memMatchStore) OpenMatchRequests(_ context.Context, region string) ([]models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pool []models.MatchRequest
	for _, request := range s.requests {
		if request.Region == region && request.Status == models.RequestStatusOpen {
			pool = append(pool, *request)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].CreatedAt < pool[j].CreatedAt
	})
	return pool, nil
}

func (s *memMatchStore) CreatePairMatch(_ context.Context, match *models.PairMatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, okA := s.requests[match.RequestAID]
	b, okB := s.requests[match.RequestBID]
	if !okA || !okB || a.Status != models.RequestStatusOpen || b.Status != models.RequestStatusOpen {
		return false, nil
	}
	a.Status = models.RequestStatusMatched
	a.MatchID = match.MatchID
	b.Status = models.RequestStatusMatched
	b.MatchID = match.MatchID
	copied := *match
	s.matches[match.MatchID] = &copied
	return true, nil
}

func (s *memMatchStore) GetPairMatch(_ context.Context, matchID string) (*models.PairMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match, ok := s.matches[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *match
	return &copied, nil
}

func (s *memMatchStore) LatestPendingMatchForPhone(_ context.Context, phone string) (*models.PairMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.PairMatch
	for _, match := range s.matches {
		if match.Status != models.MatchStatusPending || !match.HasPhone(phone) {
			continue
		}
		if latest == nil || match.CreatedAt > latest.CreatedAt {
			latest = match
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (s *memMatchStore) SetPairConfirmation(_ context.Context, matchID, phone, confirmedAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match, ok := s.matches[matchID]
	if !ok || match.Status != models.MatchStatusPending {
		return false, nil
	}
	if match.PhoneB == phone {
		if match.ConfirmBAt != "" {
			return false, nil
		}
		match.ConfirmBAt = confirmedAt
		return true, nil
	}
	if match.ConfirmAAt != "" {
		return false, nil
	}
	match.ConfirmAAt = confirmedAt
	return true, nil
}

func (s *memMatchStore) ConfirmPairMatch(_ context.Context, match *models.PairMatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.matches[match.MatchID]
	if !ok || stored.Status != models.MatchStatusPending || !stored.BothConfirmed() {
		return false, nil
	}
	stored.Status = models.MatchStatusConfirmed
	for _, requestID := range []string{stored.RequestAID, stored.RequestBID} {
		if request, ok := s.requests[requestID]; ok && request.Status == models.RequestStatusMatched {
			request.Status = models.RequestStatusConfirmed
		}
	}
	return true, nil
}

func (s *memMatchStore) CancelPairMatch(_ context.Context, match *models.PairMatch, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.matches[match.MatchID]
	if !ok || stored.Status != models.MatchStatusPending {
		return false, nil
	}
	stored.Status = models.MatchStatusCanceled
	stored.CanceledReason = reason
	for _, requestID := range []string{stored.RequestAID, stored.RequestBID} {
		if request, ok := s.requests[requestID]; ok && request.Status == models.RequestStatusMatched {
			request.Status = models.RequestStatusOpen
			request.MatchID = ""
		}
	}
	return true, nil
}

func (s *memMatchStore) ListMatchRequests(_ context.Context, limit int) ([]models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MatchRequest
	for _, request := range s.requests {
		out = append(out, *request)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memMatchStore) ListPairMatches(_ context.Context, limit int) ([]models.PairMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PairMatch
	for _, match := range s.matches {
		out = append(out, *match)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memDinnerStore

type memDinnerStore struct {
	mu       sync.Mutex
	requests map[string]*models.DinnerRequest
	dinners  map[string]*models.ProposedDinner
	members  map[string]*models.DinnerMember
	events   map[string]*models.Event
}

func newMemDinnerStore() *memDinnerStore {
	return &memDinnerStore{
		requests: map[string]*models.DinnerRequest{},
		dinners:  map[string]*models.ProposedDinner{},
		members:  map[string]*models.DinnerMember{},
		events:   map[string]*models.Event{},
	}
}

func (s *memDinnerStore) CreateDinnerRequest(_ context.Context, request *models.DinnerRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *request
	s.requests[request.RequestID] = &copied
	return nil
}

func (s *memDinnerStore) GetDinnerRequest(_ context.Context, requestID string) (*models.DinnerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (s *memDinnerStore) OpenDinnerRequestByPhone(_ context.Context, phone string) (*models.DinnerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.DinnerRequest
	for _, request := range s.requests {
		if request.Phone != phone || request.Status != models.RequestStatusOpen {
			continue
		}
		if latest == nil || request.CreatedAt > latest.CreatedAt {
			latest = request
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (s *memDinnerStore) OpenDinnerRequests(_ context.Context, city string) ([]models.DinnerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pool []models.DinnerRequest
	for _, request := range s.requests {
		if request.City == city && request.Status == models.RequestStatusOpen {
			pool = append(pool, *request)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].CreatedAt < pool[j].CreatedAt
	})
	return pool, nil
}

func (s *memDinnerStore) CreateProposedDinner(_ context.Context, dinner *models.ProposedDinner, event *models.Event, members []models.DinnerMember) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range members {
		request, ok := s.requests[members[i].RequestID]
		if !ok || request.Status != models.RequestStatusOpen {
			return false, nil
		}
	}
	for i := range members {
		s.requests[members[i].RequestID].Status = models.RequestStatusMatched
		copied := members[i]
		s.members[members[i].MemberID] = &copied
	}
	dinnerCopy := *dinner
	s.dinners[dinner.DinnerID] = &dinnerCopy
	eventCopy := *event
	s.events[event.EventID] = &eventCopy
	return true, nil
}

func (s *memDinnerStore) GetProposedDinner(_ context.Context, dinnerID string) (*models.ProposedDinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dinner, ok := s.dinners[dinnerID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *dinner
	return &copied, nil
}

func (s *memDinnerStore) LatestPendingMemberForPhone(_ context.Context, phone string) (*models.DinnerMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.DinnerMember
	for _, member := range s.members {
		if member.Phone != phone || member.Confirmed {
			continue
		}
		dinner, ok := s.dinners[member.DinnerID]
		if !ok || dinner.Status != models.DinnerStatusPending {
			continue
		}
		if latest == nil || member.CreatedAt > latest.CreatedAt {
			latest = member
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (s *memDinnerStore) ConfirmMember(_ context.Context, member *models.DinnerMember, confirmedAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.members[member.MemberID]
	if !ok || stored.Confirmed {
		return false, nil
	}
	dinner, ok := s.dinners[stored.DinnerID]
	if !ok || dinner.Status != models.DinnerStatusPending {
		return false, nil
	}
	stored.Confirmed = true
	stored.ConfirmedAt = confirmedAt
	return true, nil
}

func (s *memDinnerStore) MembersForDinner(_ context.Context, dinnerID string) ([]models.DinnerMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DinnerMember
	for _, member := range s.members {
		if member.DinnerID == dinnerID {
			out = append(out, *member)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

func (s *memDinnerStore) ConfirmProposedDinner(_ context.Context, dinnerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dinner, ok := s.dinners[dinnerID]
	if !ok || dinner.Status != models.DinnerStatusPending {
		return false, nil
	}
	dinner.Status = models.DinnerStatusConfirmed
	return true, nil
}

func (s *memDinnerStore) RemoveMember(_ context.Context, member *models.DinnerMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, member.MemberID)
	if request, ok := s.requests[member.RequestID]; ok && request.Status == models.RequestStatusMatched {
		request.Status = models.RequestStatusOpen
	}
	return nil
}

func (s *memDinnerStore) ListDinnerRequests(_ context.Context, limit int) ([]models.DinnerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DinnerRequest
	for _, request := range s.requests {
		out = append(out, *request)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memDinnerStore) ListProposedDinners(_ context.Context, limit int) ([]models.ProposedDinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProposedDinner
	for _, dinner := range s.dinners {
		out = append(out, *dinner)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memEventStore

type memEventStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
	rsvps  map[string]map[string]*models.Rsvp // eventID -> email -> rsvp
}

func newMemEventStore() *memEventStore {
	return &memEventStore{
		events: map[string]*models.Event{},
		rsvps:  map[string]map[string]*models.Rsvp{},
	}
}

func (s *memEventStore) CreateEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.events[event.EventID] = &copied
	return nil
}

func (s *memEventStore) GetEvent(_ context.Context, eventID string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *memEventStore) OpenEvents(_ context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for _, event := range s.events {
		if event.Status == models.EventStatusOpen {
			out = append(out, *event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartAt < out[j].StartAt
	})
	return out, nil
}

func (s *memEventStore) CreateRsvp(_ context.Context, event *models.Event, rsvp *models.Rsvp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.events[event.EventID]
	if !ok {
		return ErrNotFound
	}
	if _, exists := s.rsvps[event.EventID][rsvp.Email]; exists {
		return NewConflictError("You have already RSVPed to this event")
	}
	if stored.Status != models.EventStatusOpen || stored.AttendeeCount > stored.GroupSize-rsvp.PartySize {
		return NewConflictError("Not enough spots left for your party")
	}
	stored.AttendeeCount += rsvp.PartySize
	if s.rsvps[event.EventID] == nil {
		s.rsvps[event.EventID] = map[string]*models.Rsvp{}
	}
	copied := *rsvp
	s.rsvps[event.EventID][rsvp.Email] = &copied
	return nil
}

func (s *memEventStore) RsvpsForEvent(_ context.Context, eventID string) ([]models.Rsvp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rsvp
	for _, rsvp := range s.rsvps[eventID] {
		out = append(out, *rsvp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

// memMemberStore

type memMemberStore struct {
	mu      sync.Mutex
	members map[string]*models.Member
}

func newMemMemberStore() *memMemberStore {
	return &memMemberStore{members: map[string]*models.Member{}}
}

func (s *memMemberStore) CreateMember(_ context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.members[member.Phone]; exists {
		return NewConflictError("You're already on the list. We'll be in touch.")
	}
	copied := *member
	s.members[member.Phone] = &copied
	return nil
}

func (s *memMemberStore) GetMemberByPhone(_ context.Context, phone string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.members[phone]
	if !ok {
		return nil, nil
	}
	copied := *member
	return &copied, nil
}
