package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"supper_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDinnerStore is the DynamoDB-backed DinnerStore.
type DynamoDinnerStore struct {
	Dynamo *DynamoService
}

func (s *DynamoDinnerStore) CreateDinnerRequest(ctx context.Context, request *models.DinnerRequest) error {
	return s.Dynamo.PutItem(ctx, models.DinnerRequestsTable, request)
}

func (s *DynamoDinnerStore) GetDinnerRequest(ctx context.Context, requestID string) (*models.DinnerRequest, error) {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.DinnerRequestsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var request models.DinnerRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dinner request: %w", err)
	}
	return &request, nil
}

func (s *DynamoDinnerStore) OpenDinnerRequestByPhone(ctx context.Context, phone string) (*models.DinnerRequest, error) {
	items, err := s.Dynamo.QueryIndex(ctx,
		models.DinnerRequestsTable,
		models.DinnerRequestPhoneIndex,
		"phone = :phone",
		"#s = :open",
		map[string]types.AttributeValue{
			":phone": &types.AttributeValueMemberS{Value: phone},
			":open":  &types.AttributeValueMemberS{Value: models.RequestStatusOpen},
		},
		map[string]string{"#s": "status"},
		false,
	)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var request models.DinnerRequest
	if err := attributevalue.UnmarshalMap(items[0], &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dinner request: %w", err)
	}
	return &request, nil
}

func (s *DynamoDinnerStore) OpenDinnerRequests(ctx context.Context, city string) ([]models.DinnerRequest, error) {
	items, err := s.Dynamo.QueryIndex(ctx,
		models.DinnerRequestsTable,
		models.DinnerRequestCityIndex,
		"city = :city",
		"#s = :open",
		map[string]types.AttributeValue{
			":city": &types.AttributeValueMemberS{Value: city},
			":open": &types.AttributeValueMemberS{Value: models.RequestStatusOpen},
		},
		map[string]string{"#s": "status"},
		true, // oldest first: first come, first served
	)
	if err != nil {
		return nil, err
	}

	var requests []models.DinnerRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dinner requests: %w", err)
	}
	return requests, nil
}

// CreateProposedDinner persists the dinner, its event, all member rows
// and the request status flips as one transaction. Every request is
// pinned to OPEN; if a concurrent matcher run already took any of them
// the whole group is abandoned with nothing written.
func (s *DynamoDinnerStore) CreateProposedDinner(ctx context.Context, dinner *models.ProposedDinner, event *models.Event, members []models.DinnerMember) (bool, error) {
	dinnerItem, err := attributevalue.MarshalMap(dinner)
	if err != nil {
		return false, fmt.Errorf("failed to marshal proposed dinner: %w", err)
	}
	eventItem, err := attributevalue.MarshalMap(event)
	if err != nil {
		return false, fmt.Errorf("failed to marshal event: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.ProposedDinnersTable),
				Item:                dinnerItem,
				ConditionExpression: aws.String("attribute_not_exists(dinnerId)"),
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.EventsTable),
				Item:                eventItem,
				ConditionExpression: aws.String("attribute_not_exists(eventId)"),
			},
		},
	}

	for i := range members {
		memberItem, err := attributevalue.MarshalMap(&members[i])
		if err != nil {
			return false, fmt.Errorf("failed to marshal dinner member: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(models.DinnerMembersTable),
				Item:                memberItem,
				ConditionExpression: aws.String("attribute_not_exists(memberId)"),
			},
		})
		items = append(items, dinnerRequestFlip(members[i].RequestID, models.RequestStatusOpen, models.RequestStatusMatched))
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *DynamoDinnerStore) GetProposedDinner(ctx context.Context, dinnerID string) (*models.ProposedDinner, error) {
	key := map[string]types.AttributeValue{
		"dinnerId": &types.AttributeValueMemberS{Value: dinnerID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.ProposedDinnersTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var dinner models.ProposedDinner
	if err := attributevalue.UnmarshalMap(item, &dinner); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proposed dinner: %w", err)
	}
	return &dinner, nil
}

// LatestPendingMemberForPhone walks this phone's memberships newest
// first and returns the first unconfirmed one whose dinner is still
// PENDING. Context lives in the store, not in-process: an inbound reply
// is resolved entirely from these rows.
func (s *DynamoDinnerStore) LatestPendingMemberForPhone(ctx context.Context, phone string) (*models.DinnerMember, error) {
	items, err := s.Dynamo.QueryIndex(ctx,
		models.DinnerMembersTable,
		models.DinnerMemberPhoneIndex,
		"phone = :phone",
		"confirmed = :false",
		map[string]types.AttributeValue{
			":phone": &types.AttributeValueMemberS{Value: phone},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
		nil,
		false, // newest first
	)
	if err != nil {
		return nil, err
	}

	var candidates []models.DinnerMember
	if err := attributevalue.UnmarshalListOfMaps(items, &candidates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dinner members: %w", err)
	}

	for i := range candidates {
		dinner, err := s.GetProposedDinner(ctx, candidates[i].DinnerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if dinner.Status == models.DinnerStatusPending {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// ConfirmMember flips one membership to confirmed, guarded on it being
// unconfirmed and its dinner still PENDING.
func (s *DynamoDinnerStore) ConfirmMember(ctx context.Context, member *models.DinnerMember, confirmedAt string) (bool, error) {
	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: aws.String(models.DinnerMembersTable),
				Key: map[string]types.AttributeValue{
					"memberId": &types.AttributeValueMemberS{Value: member.MemberID},
				},
				UpdateExpression:    aws.String("SET confirmed = :true, confirmedAt = :at"),
				ConditionExpression: aws.String("confirmed = :false"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":true":  &types.AttributeValueMemberBOOL{Value: true},
					":false": &types.AttributeValueMemberBOOL{Value: false},
					":at":    &types.AttributeValueMemberS{Value: confirmedAt},
				},
			},
		},
		{
			ConditionCheck: &types.ConditionCheck{
				TableName: aws.String(models.ProposedDinnersTable),
				Key: map[string]types.AttributeValue{
					"dinnerId": &types.AttributeValueMemberS{Value: member.DinnerID},
				},
				ConditionExpression: aws.String("#s = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#s": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pending": &types.AttributeValueMemberS{Value: models.DinnerStatusPending},
				},
			},
		},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *DynamoDinnerStore) MembersForDinner(ctx context.Context, dinnerID string) ([]models.DinnerMember, error) {
	items, err := s.Dynamo.QueryIndex(ctx,
		models.DinnerMembersTable,
		models.DinnerMemberDinnerIndex,
		"dinnerId = :dinnerId",
		"",
		map[string]types.AttributeValue{
			":dinnerId": &types.AttributeValueMemberS{Value: dinnerID},
		},
		nil,
		true,
	)
	if err != nil {
		return nil, err
	}

	var members []models.DinnerMember
	if err := attributevalue.UnmarshalListOfMaps(items, &members); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dinner members: %w", err)
	}
	return members, nil
}

// ConfirmProposedDinner flips the dinner to CONFIRMED once. The PENDING
// guard keeps a late repeated YES from re-firing the transition.
func (s *DynamoDinnerStore) ConfirmProposedDinner(ctx context.Context, dinnerID string) (bool, error) {
	_, err := s.Dynamo.UpdateItem(ctx,
		models.ProposedDinnersTable,
		"SET #s = :confirmed",
		"#s = :pending",
		map[string]types.AttributeValue{
			"dinnerId": &types.AttributeValueMemberS{Value: dinnerID},
		},
		map[string]types.AttributeValue{
			":confirmed": &types.AttributeValueMemberS{Value: models.DinnerStatusConfirmed},
			":pending":   &types.AttributeValueMemberS{Value: models.DinnerStatusPending},
		},
		map[string]string{"#s": "status"},
	)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveMember deletes the declining membership and reopens its request
// for backfill. The dinner row is left PENDING with the remaining
// members untouched.
func (s *DynamoDinnerStore) RemoveMember(ctx context.Context, member *models.DinnerMember) error {
	items := []types.TransactWriteItem{
		{
			Delete: &types.Delete{
				TableName: aws.String(models.DinnerMembersTable),
				Key: map[string]types.AttributeValue{
					"memberId": &types.AttributeValueMemberS{Value: member.MemberID},
				},
				ConditionExpression: aws.String("attribute_exists(memberId)"),
			},
		},
		dinnerRequestFlip(member.RequestID, models.RequestStatusMatched, models.RequestStatusOpen),
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		return err
	}
	return nil
}

// dinnerRequestFlip moves a dinner request between two statuses with
// the old status as the guard.
func dinnerRequestFlip(requestID, from, to string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(models.DinnerRequestsTable),
			Key: map[string]types.AttributeValue{
				"requestId": &types.AttributeValueMemberS{Value: requestID},
			},
			UpdateExpression:    aws.String("SET #s = :to"),
			ConditionExpression: aws.String("#s = :from"),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":to":   &types.AttributeValueMemberS{Value: to},
				":from": &types.AttributeValueMemberS{Value: from},
			},
		},
	}
}

func (s *DynamoDinnerStore) ListDinnerRequests(ctx context.Context, limit int) ([]models.DinnerRequest, error) {
	var requests []models.DinnerRequest
	if err := s.Dynamo.ScanWithFilter(ctx, models.DinnerRequestsTable, nil, &requests); err != nil {
		return nil, err
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt > requests[j].CreatedAt
	})
	if limit > 0 && len(requests) > limit {
		requests = requests[:limit]
	}
	return requests, nil
}

func (s *DynamoDinnerStore) ListProposedDinners(ctx context.Context, limit int) ([]models.ProposedDinner, error) {
	var dinners []models.ProposedDinner
	if err := s.Dynamo.ScanWithFilter(ctx, models.ProposedDinnersTable, nil, &dinners); err != nil {
		return nil, err
	}
	sort.Slice(dinners, func(i, j int) bool {
		return dinners[i].CreatedAt > dinners[j].CreatedAt
	})
	if limit > 0 && len(dinners) > limit {
		dinners = dinners[:limit]
	}
	return dinners, nil
}
