package services

import (
	"supper_server/models"
)

// The two matching flows are instances of one grouping discipline: walk
// the OPEN pool oldest-first and fill greedily. FirstCompatible is the
// group-of-two case, AccumulateGroups the quorum/target case. Both are
// first-fit by arrival order, not optimal packing; earliest waiting
// candidates always win.

// Group quorum and target for multi-party dinners.
const (
	MinGroupSize    = 3
	TargetGroupSize = 6
)

// FirstCompatible returns the earliest candidate in pool compatible
// with request, skipping the request itself and any candidate sharing
// its phone. Returns nil when no candidate fits; an empty pool is
// steady state, not an error.
func FirstCompatible(request *models.MatchRequest, pool []models.MatchRequest) *models.MatchRequest {
	for i := range pool {
		candidate := &pool[i]
		if candidate.RequestID == request.RequestID || candidate.Phone == request.Phone {
			continue
		}
		if IsCompatible(request, candidate) {
			return candidate
		}
	}
	return nil
}

// AccumulateGroups folds an oldest-first list of dinner requests into
// groups. A running group accepts requests until the next one would
// push its headcount past target; it is then emitted if it reached
// quorum. A group sitting exactly at target keeps accepting until an
// overflow closes it. The final remainder is emitted only if it meets
// quorum; otherwise those requests stay in the pool for the next pass.
func AccumulateGroups(requests []models.DinnerRequest, quorum, target int) [][]models.DinnerRequest {
	var groups [][]models.DinnerRequest
	var current []models.DinnerRequest
	currentSize := 0

	for i := range requests {
		request := requests[i]
		size := request.PartySize()

		if currentSize+size > target {
			if currentSize >= quorum {
				groups = append(groups, current)
			}
			current = []models.DinnerRequest{request}
			currentSize = size
			continue
		}
		current = append(current, request)
		currentSize += size
	}

	if currentSize >= quorum {
		groups = append(groups, current)
	}

	return groups
}

// HeadCount sums the party sizes of a slice of dinner requests.
func HeadCount(requests []models.DinnerRequest) int {
	total := 0
	for i := range requests {
		total += requests[i].PartySize()
	}
	return total
}
