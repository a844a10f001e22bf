package services

import (
	"context"
	"errors"
	"time"

	"github.com/Subhom1/clickmate-backend/models"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SearchStore is the durable record of outstanding searches and committed
// pairings. TryLock must be a single conditional update so that two engines
// racing for the same request cannot both win.
type SearchStore interface {
	// PutSearch upserts a fresh unlocked SearchRequest for the user.
	PutSearch(ctx context.Context, userID, query string) error
	// DeleteSearch removes the user's SearchRequest if present.
	DeleteSearch(ctx context.Context, userID string) error
	// TryLock atomically flips isLocked false -> true. It returns false
	// when the request is already locked or gone.
	TryLock(ctx context.Context, userID string) (bool, error)
	// Unlock clears the lock flag. No-op if the request is gone.
	Unlock(ctx context.Context, userID string) error
	// ListCandidates returns every unlocked SearchRequest except the
	// caller's own.
	ListCandidates(ctx context.Context, excludeUserID string) ([]models.SearchRequest, error)
	// CreateMatchPair stores the terminal pairing record.
	CreateMatchPair(ctx context.Context, pair models.MatchPair) error
}

// DynamoSearchStore implements SearchStore on the UserSearches and
// MatchPairs tables
type DynamoSearchStore struct {
	Dynamo *DynamoService
}

func searchKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// PutSearch upserts the user's SearchRequest with a new createdAt and a
// cleared lock
func (ss *DynamoSearchStore) PutSearch(ctx context.Context, userID, query string) error {
	request := models.SearchRequest{
		UserID:    userID,
		Query:     query,
		IsLocked:  false,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	return ss.Dynamo.PutItem(ctx, models.UserSearchesTable, request)
}

// DeleteSearch removes the user's SearchRequest
func (ss *DynamoSearchStore) DeleteSearch(ctx context.Context, userID string) error {
	return ss.Dynamo.DeleteItem(ctx, models.UserSearchesTable, searchKey(userID))
}

// TryLock claims the request with a conditional update. Only one caller can
// ever observe true per unlocked request.
func (ss *DynamoSearchStore) TryLock(ctx context.Context, userID string) (bool, error) {
	err := ss.Dynamo.ConditionalUpdateItem(
		ctx,
		models.UserSearchesTable,
		"SET isLocked = :locked",
		"attribute_exists(userId) AND isLocked = :unlocked",
		searchKey(userID),
		map[string]types.AttributeValue{
			":locked":   &types.AttributeValueMemberBOOL{Value: true},
			":unlocked": &types.AttributeValueMemberBOOL{Value: false},
		},
	)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Unlock releases a held lock
func (ss *DynamoSearchStore) Unlock(ctx context.Context, userID string) error {
	err := ss.Dynamo.ConditionalUpdateItem(
		ctx,
		models.UserSearchesTable,
		"SET isLocked = :unlocked",
		"attribute_exists(userId)",
		searchKey(userID),
		map[string]types.AttributeValue{
			":unlocked": &types.AttributeValueMemberBOOL{Value: false},
		},
	)
	if errors.Is(err, ErrConditionFailed) {
		// Request already deleted; nothing left to release.
		return nil
	}
	return err
}

// ListCandidates scans for unlocked searches belonging to other users
func (ss *DynamoSearchStore) ListCandidates(ctx context.Context, excludeUserID string) ([]models.SearchRequest, error) {
	var candidates []models.SearchRequest
	err := ss.Dynamo.ScanItems(
		ctx,
		models.UserSearchesTable,
		"userId <> :self AND isLocked = :unlocked",
		map[string]types.AttributeValue{
			":self":     &types.AttributeValueMemberS{Value: excludeUserID},
			":unlocked": &types.AttributeValueMemberBOOL{Value: false},
		},
		nil,
		&candidates,
	)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// CreateMatchPair stores the committed pairing
func (ss *DynamoSearchStore) CreateMatchPair(ctx context.Context, pair models.MatchPair) error {
	return ss.Dynamo.PutItem(ctx, models.MatchPairsTable, pair)
}
