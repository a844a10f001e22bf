package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Subhom1/clickmate-backend/models"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ExploreService handles curated explore content and interest tags
type ExploreService struct {
	Dynamo *DynamoService
}

// CreateCategory creates an empty explore category
func (es *ExploreService) CreateCategory(ctx context.Context, category string) (*models.ExploreCategory, error) {
	if category == "" {
		return nil, errors.New("category is required")
	}

	record := models.ExploreCategory{
		CategoryID: uuid.NewString(),
		Category:   category,
		List:       []models.ExploreItem{},
	}
	if err := es.Dynamo.PutItem(ctx, models.ExploreCategoriesTable, record); err != nil {
		return nil, fmt.Errorf("failed to create explore category: %w", err)
	}
	return &record, nil
}

// AddItems appends items to an existing explore category and returns the
// updated record
func (es *ExploreService) AddItems(ctx context.Context, categoryID string, items []models.ExploreItem) (*models.ExploreCategory, error) {
	if len(items) == 0 {
		return nil, errors.New("no items provided")
	}

	itemValues := make([]types.AttributeValue, 0, len(items))
	for _, item := range items {
		value, err := attributevalue.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal explore item: %w", err)
		}
		itemValues = append(itemValues, value)
	}

	updated, err := es.Dynamo.UpdateItem(
		ctx,
		models.ExploreCategoriesTable,
		"SET #list = list_append(if_not_exists(#list, :empty), :items)",
		map[string]types.AttributeValue{
			"categoryId": &types.AttributeValueMemberS{Value: categoryID},
		},
		map[string]types.AttributeValue{
			":items": &types.AttributeValueMemberL{Value: itemValues},
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
		map[string]string{"#list": "list"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add items to category %s: %w", categoryID, err)
	}

	var category models.ExploreCategory
	if err := attributevalue.UnmarshalMap(updated, &category); err != nil {
		return nil, fmt.Errorf("failed to parse explore category: %w", err)
	}
	return &category, nil
}

// ListCategories returns every explore category
func (es *ExploreService) ListCategories(ctx context.Context) ([]models.ExploreCategory, error) {
	var categories []models.ExploreCategory
	if err := es.Dynamo.ScanItems(ctx, models.ExploreCategoriesTable, "", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListInterests returns every selectable interest tag
func (es *ExploreService) ListInterests(ctx context.Context) ([]models.Interest, error) {
	var interests []models.Interest
	if err := es.Dynamo.ScanItems(ctx, models.InterestsTable, "", nil, nil, &interests); err != nil {
		return nil, err
	}
	return interests, nil
}
