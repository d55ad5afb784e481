package models

// DinnerRequest is a solo or couple request waiting to be grouped into
// a multi-person dinner in its city. Diet, allergies and vibe are soft
// attributes carried through to messaging; they never gate matching.
type DinnerRequest struct {
	RequestID    string `dynamodbav:"requestId" json:"requestId"`
	City         string `dynamodbav:"city" json:"city"`
	Name         string `dynamodbav:"name" json:"name"`
	Phone        string `dynamodbav:"phone" json:"phone"`
	Email        string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	IsCouple     bool   `dynamodbav:"isCouple" json:"isCouple"`
	PartnerName  string `dynamodbav:"partnerName,omitempty" json:"partnerName,omitempty"`
	PartnerPhone string `dynamodbav:"partnerPhone,omitempty" json:"partnerPhone,omitempty"`
	Budget       string `dynamodbav:"budget,omitempty" json:"budget,omitempty"`
	Diet         string `dynamodbav:"diet,omitempty" json:"diet,omitempty"`
	Allergies    string `dynamodbav:"allergies,omitempty" json:"allergies,omitempty"`
	Vibe         string `dynamodbav:"vibe,omitempty" json:"vibe,omitempty"`
	Status       string `dynamodbav:"status" json:"status"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// PartySize returns the headcount this request contributes to a group.
// Couples always travel together.
func (r *DinnerRequest) PartySize() int {
	if r.IsCouple {
		return 2
	}
	return 1
}

// DinnerRequestsTable is the DynamoDB table name for dinner requests
const DinnerRequestsTable = "DinnerRequests"

// DinnerRequestCityIndex is a GSI keyed by (city, createdAt) for the
// ordered per-city OPEN pool.
const DinnerRequestCityIndex = "CityCreatedIndex"

// DinnerRequestPhoneIndex is a GSI keyed by (phone, createdAt), used
// for the duplicate-open-request guard.
const DinnerRequestPhoneIndex = "PhoneCreatedIndex"
