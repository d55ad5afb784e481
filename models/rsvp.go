package models

// Rsvp is one party's reservation for an event. The table key is
// (eventId, email), which doubles as the duplicate-RSVP guard.
type Rsvp struct {
	EventID     string `dynamodbav:"eventId" json:"eventId"`
	Email       string `dynamodbav:"email" json:"email"`
	RsvpID      string `dynamodbav:"rsvpId" json:"rsvpId"`
	Name        string `dynamodbav:"name" json:"name"`
	Phone       string `dynamodbav:"phone" json:"phone"`
	PartySize   int    `dynamodbav:"partySize" json:"partySize"`
	Diet        string `dynamodbav:"diet,omitempty" json:"diet,omitempty"`
	Allergies   string `dynamodbav:"allergies,omitempty" json:"allergies,omitempty"`
	Vibe        string `dynamodbav:"vibe,omitempty" json:"vibe,omitempty"`
	AfterDinner string `dynamodbav:"afterDinner,omitempty" json:"afterDinner,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// RsvpsTable is the DynamoDB table name for event RSVPs
const RsvpsTable = "Rsvps"
