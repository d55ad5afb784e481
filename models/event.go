package models

// Event is a scheduled dinner with a fixed headcount open for RSVPs.
// AttendeeCount is the running sum of RSVP party sizes; the RSVP insert
// transaction guards it against GroupSize.
type Event struct {
	EventID       string `dynamodbav:"eventId" json:"eventId"`
	Title         string `dynamodbav:"title" json:"title"`
	City          string `dynamodbav:"city" json:"city"`
	StartAt       string `dynamodbav:"startAt" json:"startAt"`
	RsvpCloseAt   string `dynamodbav:"rsvpCloseAt" json:"rsvpCloseAt"`
	GroupSize     int    `dynamodbav:"groupSize" json:"groupSize"`
	AttendeeCount int    `dynamodbav:"attendeeCount" json:"attendeeCount"`
	Status        string `dynamodbav:"status" json:"status"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// EventsTable is the DynamoDB table name for events
const EventsTable = "Events"
