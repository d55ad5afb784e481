package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"supper_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoEventStore is the DynamoDB-backed EventStore.
type DynamoEventStore struct {
	Dynamo *DynamoService
}

func (s *DynamoEventStore) CreateEvent(ctx context.Context, event *models.Event) error {
	return s.Dynamo.PutItem(ctx, models.EventsTable, event)
}

func (s *DynamoEventStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	key := map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.EventsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var event models.Event
	if err := attributevalue.UnmarshalMap(item, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}

func (s *DynamoEventStore) OpenEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.Dynamo.ScanWithFilter(ctx, models.EventsTable, func(item map[string]types.AttributeValue) bool {
		return attrString(item, "status") == models.EventStatusOpen
	}, &events)
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartAt < events[j].StartAt
	})
	return events, nil
}

// CreateRsvp inserts the RSVP and bumps the event's attendee counter in
// one transaction. The capacity check is a condition expression on the
// counter, computed against the slot the party needs, so concurrent
// RSVPs cannot overbook; the RSVP key (eventId, email) doubles as the
// duplicate guard.
func (s *DynamoEventStore) CreateRsvp(ctx context.Context, event *models.Event, rsvp *models.Rsvp) error {
	rsvpItem, err := attributevalue.MarshalMap(rsvp)
	if err != nil {
		return fmt.Errorf("failed to marshal rsvp: %w", err)
	}

	// GroupSize never changes after creation, so the room left for this
	// party can be computed outside the transaction.
	room := event.GroupSize - rsvp.PartySize

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.RsvpsTable),
				Item:                rsvpItem,
				ConditionExpression: aws.String("attribute_not_exists(eventId)"),
			},
		},
		{
			Update: &types.Update{
				TableName: aws.String(models.EventsTable),
				Key: map[string]types.AttributeValue{
					"eventId": &types.AttributeValueMemberS{Value: event.EventID},
				},
				UpdateExpression:    aws.String("SET attendeeCount = attendeeCount + :n"),
				ConditionExpression: aws.String("#s = :open AND attendeeCount <= :room"),
				ExpressionAttributeNames: map[string]string{
					"#s": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":n":    &types.AttributeValueMemberN{Value: strconv.Itoa(rsvp.PartySize)},
					":room": &types.AttributeValueMemberN{Value: strconv.Itoa(room)},
					":open": &types.AttributeValueMemberS{Value: models.EventStatusOpen},
				},
			},
		},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if reason := rsvpConflictReason(err); reason != "" {
			return NewConflictError("%s", reason)
		}
		return err
	}
	return nil
}

// rsvpConflictReason maps a canceled RSVP transaction to a user-visible
// rejection. Item order matches CreateRsvp: the put is the duplicate
// guard, the counter update the capacity guard.
func rsvpConflictReason(err error) string {
	var txnErr *types.TransactionCanceledException
	if !errors.As(err, &txnErr) {
		return ""
	}
	for i, reason := range txnErr.CancellationReasons {
		if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
			continue
		}
		if i == 0 {
			return "You have already RSVPed to this event"
		}
		return "Not enough spots left for your party"
	}
	return ""
}

func (s *DynamoEventStore) RsvpsForEvent(ctx context.Context, eventID string) ([]models.Rsvp, error) {
	items, err := s.Dynamo.QueryItemsWithQueryInput(ctx, rsvpQueryInput(eventID))
	if err != nil {
		return nil, err
	}

	var rsvps []models.Rsvp
	if err := attributevalue.UnmarshalListOfMaps(items, &rsvps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rsvps: %w", err)
	}
	return rsvps, nil
}

func rsvpQueryInput(eventID string) *dynamodb.QueryInput {
	tableName := models.RsvpsTable
	return &dynamodb.QueryInput{
		TableName:              &tableName,
		KeyConditionExpression: aws.String("eventId = :eventId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eventId": &types.AttributeValueMemberS{Value: eventID},
		},
	}
}

// DynamoMemberStore is the DynamoDB-backed MemberStore.
type DynamoMemberStore struct {
	Dynamo *DynamoService
}

func (s *DynamoMemberStore) CreateMember(ctx context.Context, member *models.Member) error {
	item, err := attributevalue.MarshalMap(member)
	if err != nil {
		return fmt.Errorf("failed to marshal member: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.MembersTable),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(phone)"),
			},
		},
	}
	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return NewConflictError("You're already on the list. We'll be in touch.")
		}
		return err
	}
	return nil
}

func (s *DynamoMemberStore) GetMemberByPhone(ctx context.Context, phone string) (*models.Member, error) {
	key := map[string]types.AttributeValue{
		"phone": &types.AttributeValueMemberS{Value: phone},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MembersTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var member models.Member
	if err := attributevalue.UnmarshalMap(item, &member); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member: %w", err)
	}
	return &member, nil
}
