package models

// ProposedDinner is a multi-party dinner assembled from 3+ people worth
// of open dinner requests in one city.
type ProposedDinner struct {
	DinnerID    string `dynamodbav:"dinnerId" json:"dinnerId"`
	EventID     string `dynamodbav:"eventId" json:"eventId"`
	City        string `dynamodbav:"city" json:"city"`
	ScheduledAt string `dynamodbav:"scheduledAt" json:"scheduledAt"`
	Status      string `dynamodbav:"status" json:"status"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// DinnerMember links one dinner request into a proposed dinner and
// carries that party's independent confirmation state.
type DinnerMember struct {
	MemberID     string `dynamodbav:"memberId" json:"memberId"`
	DinnerID     string `dynamodbav:"dinnerId" json:"dinnerId"`
	RequestID    string `dynamodbav:"requestId" json:"requestId"`
	Phone        string `dynamodbav:"phone" json:"phone"`
	PartnerPhone string `dynamodbav:"partnerPhone,omitempty" json:"partnerPhone,omitempty"`
	PartySize    int    `dynamodbav:"partySize" json:"partySize"`
	Confirmed    bool   `dynamodbav:"confirmed" json:"confirmed"`
	ConfirmedAt  string `dynamodbav:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// ProposedDinnersTable is the DynamoDB table name for proposed dinners
const ProposedDinnersTable = "ProposedDinners"

// DinnerMembersTable is the DynamoDB table name for dinner memberships
const DinnerMembersTable = "DinnerMembers"

// DinnerMemberPhoneIndex is a GSI keyed by (phone, createdAt) so an
// inbound reply can find this identity's most recent membership.
const DinnerMemberPhoneIndex = "PhoneCreatedIndex"

// DinnerMemberDinnerIndex is a GSI keyed by dinnerId for listing the
// members of one dinner.
const DinnerMemberDinnerIndex = "DinnerCreatedIndex"
