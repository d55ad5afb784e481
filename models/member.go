package models

// Member is a person on the club list, keyed by E.164 phone. The phone
// is the identity every request, match and SMS reply is resolved by.
type Member struct {
	Phone     string `dynamodbav:"phone" json:"phone"`
	MemberID  string `dynamodbav:"memberId" json:"memberId"`
	FullName  string `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	Status    string `dynamodbav:"status" json:"status"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// MembersTable is the DynamoDB table name for members
const MembersTable = "Members"
