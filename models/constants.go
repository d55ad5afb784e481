package models

// Regions (one matching pool per region)
const (
	RegionNorthBay     = "NORTH_BAY"
	RegionSanFrancisco = "SAN_FRANCISCO"
	RegionEastBay      = "EAST_BAY"
	RegionSouthBay     = "SOUTH_BAY"
)

// Time windows
const (
	TimeWindowThisWeek = "THIS_WEEK"
	TimeWindowNextWeek = "NEXT_WEEK"
	TimeWindowFlexible = "FLEXIBLE"
)

// Party types
const (
	PartyTypeSolo   = "SOLO"
	PartyTypeCouple = "COUPLE"
)

// Match preferences
const (
	MatchPreferenceSoloOnly   = "SOLO_ONLY"
	MatchPreferenceCoupleOnly = "COUPLE_ONLY"
	MatchPreferenceOpen       = "OPEN"
)

// Request statuses (shared by match requests and dinner requests)
const (
	RequestStatusOpen      = "OPEN"
	RequestStatusMatched   = "MATCHED_PENDING_CONFIRMATION"
	RequestStatusConfirmed = "CONFIRMED"
	RequestStatusCanceled  = "CANCELED"
)

// Pair match statuses
const (
	MatchStatusPending   = "PENDING_CONFIRMATION"
	MatchStatusConfirmed = "CONFIRMED"
	MatchStatusCanceled  = "CANCELED"
)

// Proposed dinner statuses
const (
	DinnerStatusPending   = "PENDING"
	DinnerStatusConfirmed = "CONFIRMED"
	DinnerStatusCanceled  = "CANCELED"
)

// Event statuses
const (
	EventStatusOpen   = "open"
	EventStatusClosed = "closed"
)

// Member statuses
const (
	MemberStatusWaitlist = "waitlist"
	MemberStatusActive   = "active"
)

// regionNames maps region codes to human-readable names for SMS copy.
var regionNames = map[string]string{
	RegionNorthBay:     "North Bay",
	RegionSanFrancisco: "San Francisco",
	RegionEastBay:      "East Bay",
	RegionSouthBay:     "South Bay",
}

// RegionName returns the human-readable name for a region code.
func RegionName(region string) string {
	if name, ok := regionNames[region]; ok {
		return name
	}
	return region
}

// ValidRegion reports whether region is a known region code.
func ValidRegion(region string) bool {
	_, ok := regionNames[region]
	return ok
}

// ValidTimeWindow reports whether tw is a known time window.
func ValidTimeWindow(tw string) bool {
	return tw == TimeWindowThisWeek || tw == TimeWindowNextWeek || tw == TimeWindowFlexible
}

// ValidPartyType reports whether pt is a known party type.
func ValidPartyType(pt string) bool {
	return pt == PartyTypeSolo || pt == PartyTypeCouple
}

// ValidMatchPreference reports whether pref is a known match preference.
func ValidMatchPreference(pref string) bool {
	return pref == MatchPreferenceSoloOnly || pref == MatchPreferenceCoupleOnly || pref == MatchPreferenceOpen
}
