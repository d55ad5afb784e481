package services

import (
	"supper_server/models"
)

// IsCompatible reports whether two match requests may share a dinner.
// Pure boolean, no ranking: region equality, then both sides' party
// preferences satisfied, then time windows. Diet and vibe never gate.
func IsCompatible(a, b *models.MatchRequest) bool {
	if a.Region != b.Region {
		return false
	}
	if !checkPartyCompatibility(a.PartyType, a.MatchPreference, b.PartyType, b.MatchPreference) {
		return false
	}
	return checkTimeCompatibility(a.TimeWindow, b.TimeWindow)
}

// checkPartyCompatibility is a symmetric AND: each side's preference
// must accept the other side's party type.
func checkPartyCompatibility(partyA, prefA, partyB, prefB string) bool {
	if prefA == models.MatchPreferenceSoloOnly && partyB != models.PartyTypeSolo {
		return false
	}
	if prefB == models.MatchPreferenceSoloOnly && partyA != models.PartyTypeSolo {
		return false
	}
	if prefA == models.MatchPreferenceCoupleOnly && partyB != models.PartyTypeCouple {
		return false
	}
	if prefB == models.MatchPreferenceCoupleOnly && partyA != models.PartyTypeCouple {
		return false
	}
	return true
}

// checkTimeCompatibility: FLEXIBLE pairs with anything, otherwise the
// windows must be identical. No partial overlap logic.
func checkTimeCompatibility(timeA, timeB string) bool {
	if timeA == models.TimeWindowFlexible || timeB == models.TimeWindowFlexible {
		return true
	}
	return timeA == timeB
}
