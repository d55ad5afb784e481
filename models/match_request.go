package models

// MatchRequest is a single pairwise dinner request waiting in a region pool.
type MatchRequest struct {
	RequestID       string `dynamodbav:"requestId" json:"requestId"`
	Phone           string `dynamodbav:"phone" json:"phone"`
	Region          string `dynamodbav:"region" json:"region"`
	TimeWindow      string `dynamodbav:"timeWindow" json:"timeWindow"`
	PartyType       string `dynamodbav:"partyType" json:"partyType"`
	MatchPreference string `dynamodbav:"matchPreference" json:"matchPreference"`
	Status          string `dynamodbav:"status" json:"status"`
	MatchID         string `dynamodbav:"matchId,omitempty" json:"matchId,omitempty"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchRequestsTable is the DynamoDB table name for match requests
const MatchRequestsTable = "MatchRequests"

// MatchRequestRegionIndex is a GSI keyed by (region, createdAt) so the
// OPEN pool is an ordered query rather than a scan.
const MatchRequestRegionIndex = "RegionCreatedIndex"

// MatchRequestPhoneIndex is a GSI keyed by (phone, createdAt), used for
// the duplicate-open-request guard.
const MatchRequestPhoneIndex = "PhoneCreatedIndex"
