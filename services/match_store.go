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

// DynamoMatchStore is the DynamoDB-backed MatchStore.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func (s *DynamoMatchStore) CreateMatchRequest(ctx context.Context, request *models.MatchRequest) error {
	return s.Dynamo.PutItem(ctx, models.MatchRequestsTable, request)
}

func (s *DynamoMatchStore) GetMatchRequest(ctx context.Context, requestID string) (*models.MatchRequest, error) {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchRequestsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var request models.MatchRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match request: %w", err)
	}
	return &request, nil
}

func (s *DynamoMatchStore) OpenMatchRequestByPhone(ctx context.Context, phone string) (*models.MatchRequest, error) {
	items, err := s.Dynamo.QueryIndex(ctx,
		models.MatchRequestsTable,
		models.MatchRequestPhoneIndex,
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

	var request models.MatchRequest
	if err := attributevalue.UnmarshalMap(items[0], &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match request: %w", err)
	}
	return &request, nil
}

func (s *DynamoMatchStore) OpenMatchRequests(ctx context.Context, region string) ([]models.MatchRequest, error) {
	items, err := s.Dynamo.QueryIndex(ctx,
		models.MatchRequestsTable,
		models.MatchRequestRegionIndex,
		"#r = :region",
		"#s = :open",
		map[string]types.AttributeValue{
			":region": &types.AttributeValueMemberS{Value: region},
			":open":   &types.AttributeValueMemberS{Value: models.RequestStatusOpen},
		},
		map[string]string{"#r": "region", "#s": "status"},
		true, // oldest first: FIFO fairness
	)
	if err != nil {
		return nil, err
	}

	var requests []models.MatchRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match requests: %w", err)
	}
	return requests, nil
}

// CreatePairMatch writes the match row and flips both requests in one
// transaction. Condition expressions pin both requests to OPEN, so two
// concurrent matcher runs cannot claim the same candidate.
func (s *DynamoMatchStore) CreatePairMatch(ctx context.Context, match *models.PairMatch) (bool, error) {
	matchItem, err := attributevalue.MarshalMap(match)
	if err != nil {
		return false, fmt.Errorf("failed to marshal pair match: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.PairMatchesTable),
				Item:                matchItem,
				ConditionExpression: aws.String("attribute_not_exists(matchId)"),
			},
		},
		requestTransition(match.RequestAID, match.MatchID),
		requestTransition(match.RequestBID, match.MatchID),
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// requestTransition flips one match request from OPEN to matched and
// records its match reference.
func requestTransition(requestID, matchID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(models.MatchRequestsTable),
			Key: map[string]types.AttributeValue{
				"requestId": &types.AttributeValueMemberS{Value: requestID},
			},
			UpdateExpression:    aws.String("SET #s = :matched, matchId = :matchId"),
			ConditionExpression: aws.String("#s = :open"),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":matched": &types.AttributeValueMemberS{Value: models.RequestStatusMatched},
				":open":    &types.AttributeValueMemberS{Value: models.RequestStatusOpen},
				":matchId": &types.AttributeValueMemberS{Value: matchID},
			},
		},
	}
}

func (s *DynamoMatchStore) GetPairMatch(ctx context.Context, matchID string) (*models.PairMatch, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.PairMatchesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var match models.PairMatch
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pair match: %w", err)
	}
	return &match, nil
}

func (s *DynamoMatchStore) LatestPendingMatchForPhone(ctx context.Context, phone string) (*models.PairMatch, error) {
	var matches []models.PairMatch
	err := s.Dynamo.ScanWithFilter(ctx, models.PairMatchesTable, func(item map[string]types.AttributeValue) bool {
		if attrString(item, "status") != models.MatchStatusPending {
			return false
		}
		return attrString(item, "phoneA") == phone || attrString(item, "phoneB") == phone
	}, &matches)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt > matches[j].CreatedAt
	})
	return &matches[0], nil
}

func (s *DynamoMatchStore) SetPairConfirmation(ctx context.Context, matchID, phone, confirmedAt string) (bool, error) {
	match, err := s.GetPairMatch(ctx, matchID)
	if err != nil {
		return false, err
	}

	field := "confirmAAt"
	if match.PhoneB == phone {
		field = "confirmBAt"
	}

	_, err = s.Dynamo.UpdateItem(ctx,
		models.PairMatchesTable,
		fmt.Sprintf("SET %s = :at", field),
		fmt.Sprintf("#s = :pending AND attribute_not_exists(%s)", field),
		map[string]types.AttributeValue{
			"matchId": &types.AttributeValueMemberS{Value: matchID},
		},
		map[string]types.AttributeValue{
			":at":      &types.AttributeValueMemberS{Value: confirmedAt},
			":pending": &types.AttributeValueMemberS{Value: models.MatchStatusPending},
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

// ConfirmPairMatch transitions the match and both requests to
// CONFIRMED. The condition demands both timestamps and a still-pending
// status, so a repeated YES cannot re-fire the transition.
func (s *DynamoMatchStore) ConfirmPairMatch(ctx context.Context, match *models.PairMatch) (bool, error) {
	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: aws.String(models.PairMatchesTable),
				Key: map[string]types.AttributeValue{
					"matchId": &types.AttributeValueMemberS{Value: match.MatchID},
				},
				UpdateExpression:    aws.String("SET #s = :confirmed"),
				ConditionExpression: aws.String("#s = :pending AND attribute_exists(confirmAAt) AND attribute_exists(confirmBAt)"),
				ExpressionAttributeNames: map[string]string{
					"#s": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":confirmed": &types.AttributeValueMemberS{Value: models.MatchStatusConfirmed},
					":pending":   &types.AttributeValueMemberS{Value: models.MatchStatusPending},
				},
			},
		},
		requestStatusFlip(match.RequestAID, models.RequestStatusMatched, models.RequestStatusConfirmed),
		requestStatusFlip(match.RequestBID, models.RequestStatusMatched, models.RequestStatusConfirmed),
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CancelPairMatch cancels the match and releases both requests back to
// the pool with their match reference cleared.
func (s *DynamoMatchStore) CancelPairMatch(ctx context.Context, match *models.PairMatch, reason string) (bool, error) {
	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: aws.String(models.PairMatchesTable),
				Key: map[string]types.AttributeValue{
					"matchId": &types.AttributeValueMemberS{Value: match.MatchID},
				},
				UpdateExpression:    aws.String("SET #s = :canceled, canceledReason = :reason"),
				ConditionExpression: aws.String("#s = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#s": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":canceled": &types.AttributeValueMemberS{Value: models.MatchStatusCanceled},
					":pending":  &types.AttributeValueMemberS{Value: models.MatchStatusPending},
					":reason":   &types.AttributeValueMemberS{Value: reason},
				},
			},
		},
		requestRelease(match.RequestAID),
		requestRelease(match.RequestBID),
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if IsConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// requestStatusFlip moves a request between two statuses with the old
// status as the guard.
func requestStatusFlip(requestID, from, to string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(models.MatchRequestsTable),
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

// requestRelease reverts a matched request to OPEN and clears its match
// reference.
func requestRelease(requestID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(models.MatchRequestsTable),
			Key: map[string]types.AttributeValue{
				"requestId": &types.AttributeValueMemberS{Value: requestID},
			},
			UpdateExpression:    aws.String("SET #s = :open REMOVE matchId"),
			ConditionExpression: aws.String("#s = :matched"),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":open":    &types.AttributeValueMemberS{Value: models.RequestStatusOpen},
				":matched": &types.AttributeValueMemberS{Value: models.RequestStatusMatched},
			},
		},
	}
}

func (s *DynamoMatchStore) ListMatchRequests(ctx context.Context, limit int) ([]models.MatchRequest, error) {
	var requests []models.MatchRequest
	if err := s.Dynamo.ScanWithFilter(ctx, models.MatchRequestsTable, nil, &requests); err != nil {
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

func (s *DynamoMatchStore) ListPairMatches(ctx context.Context, limit int) ([]models.PairMatch, error) {
	var matches []models.PairMatch
	if err := s.Dynamo.ScanWithFilter(ctx, models.PairMatchesTable, nil, &matches); err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt > matches[j].CreatedAt
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// attrString safely extracts a string attribute from a raw item.
func attrString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}
