package models

// PairMatch is a proposed two-party dinner awaiting YES from both sides.
// It becomes CONFIRMED only when both confirmation timestamps are set,
// and CANCELED as soon as either side declines.
type PairMatch struct {
	MatchID        string `dynamodbav:"matchId" json:"matchId"`
	RequestAID     string `dynamodbav:"requestAId" json:"requestAId"`
	RequestBID     string `dynamodbav:"requestBId" json:"requestBId"`
	PhoneA         string `dynamodbav:"phoneA" json:"phoneA"`
	PhoneB         string `dynamodbav:"phoneB" json:"phoneB"`
	Region         string `dynamodbav:"region" json:"region"`
	Status         string `dynamodbav:"status" json:"status"`
	ConfirmAAt     string `dynamodbav:"confirmAAt,omitempty" json:"confirmAAt,omitempty"`
	ConfirmBAt     string `dynamodbav:"confirmBAt,omitempty" json:"confirmBAt,omitempty"`
	CanceledReason string `dynamodbav:"canceledReason,omitempty" json:"canceledReason,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// HasPhone reports whether phone is one of the two sides of the match.
func (m *PairMatch) HasPhone(phone string) bool {
	return m.PhoneA == phone || m.PhoneB == phone
}

// OtherPhone returns the opposite side's phone for a given participant.
func (m *PairMatch) OtherPhone(phone string) string {
	if m.PhoneA == phone {
		return m.PhoneB
	}
	return m.PhoneA
}

// BothConfirmed reports whether both sides have confirmed.
func (m *PairMatch) BothConfirmed() bool {
	return m.ConfirmAAt != "" && m.ConfirmBAt != ""
}

// PairMatchesTable is the DynamoDB table name for pair matches
const PairMatchesTable = "PairMatches"
