package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Subhom1/clickmate-backend/models"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrUserExists is returned when registering an email that is already taken
var ErrUserExists = errors.New("user already exists")

// UserProfileService handles user profile CRUD and friend lists
type UserProfileService struct {
	Dynamo *DynamoService
}

func profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// Register creates a new user profile. Fails with ErrUserExists when the
// email is already registered.
func (us *UserProfileService) Register(ctx context.Context, fullname, email string) (*models.UserProfile, error) {
	email = strings.ToLower(email)

	existing, err := us.GetProfileByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrItemNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	now := time.Now().UTC().Format(time.RFC3339)
	profile := models.UserProfile{
		UserID:    uuid.NewString(),
		FullName:  strings.ToLower(fullname),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := us.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &profile, nil
}

// GetProfileByID retrieves a user profile by its userId
func (us *UserProfileService) GetProfileByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := us.Dynamo.GetItem(ctx, models.UserProfilesTable, profileKey(userID))
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse user profile: %w", err)
	}
	return &profile, nil
}

// GetProfileByEmail retrieves a user profile by email
func (us *UserProfileService) GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var profiles []models.UserProfile
	err := us.Dynamo.ScanItems(
		ctx,
		models.UserProfilesTable,
		"email = :email",
		map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: strings.ToLower(email)},
		},
		nil,
		&profiles,
	)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrItemNotFound
	}
	return &profiles[0], nil
}

// UpdateProfile patches fullname, bio and interests. An empty bio is stored
// as "No Bio" to match the client's expectations.
func (us *UserProfileService) UpdateProfile(ctx context.Context, userID string, fullname, bio *string, interests []string) (*models.UserProfile, error) {
	updateParts := []string{"updatedAt = :updatedAt"}
	values := map[string]types.AttributeValue{
		":updatedAt": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}
	names := map[string]string{}

	if fullname != nil {
		updateParts = append(updateParts, "fullname = :fullname")
		values[":fullname"] = &types.AttributeValueMemberS{Value: *fullname}
	}
	if bio != nil {
		text := *bio
		if text == "" {
			text = "No Bio"
		}
		updateParts = append(updateParts, "bio = :bio")
		values[":bio"] = &types.AttributeValueMemberS{Value: text}
	}
	if interests != nil {
		interestValues := make([]types.AttributeValue, 0, len(interests))
		for _, interest := range interests {
			interestValues = append(interestValues, &types.AttributeValueMemberS{Value: interest})
		}
		updateParts = append(updateParts, "#interests = :interests")
		values[":interests"] = &types.AttributeValueMemberL{Value: interestValues}
		names["#interests"] = "interests"
	}

	if len(updateParts) == 1 {
		return nil, errors.New("no fields provided for update")
	}

	if len(names) == 0 {
		names = nil
	}
	updated, err := us.Dynamo.UpdateItem(ctx, models.UserProfilesTable, "SET "+strings.Join(updateParts, ", "), profileKey(userID), values, names)
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(updated, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse updated profile: %w", err)
	}
	return &profile, nil
}

// DeleteProfile removes a user profile
func (us *UserProfileService) DeleteProfile(ctx context.Context, userID string) error {
	return us.Dynamo.DeleteItem(ctx, models.UserProfilesTable, profileKey(userID))
}

// GetFriends returns the expanded profiles of the user's friends
func (us *UserProfileService) GetFriends(ctx context.Context, userID string) ([]models.UserProfile, error) {
	profile, err := us.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]models.UserProfile, 0, len(profile.Friends))
	for _, friendID := range profile.Friends {
		friend, err := us.GetProfileByID(ctx, friendID)
		if err != nil {
			continue // Skip dangling friend references
		}
		friends = append(friends, *friend)
	}
	return friends, nil
}

// AddFriend links friendID into the user's friends list if not already
// present
func (us *UserProfileService) AddFriend(ctx context.Context, userID, friendID string) error {
	profile, err := us.GetProfileByID(ctx, userID)
	if err != nil {
		return err
	}
	for _, existing := range profile.Friends {
		if existing == friendID {
			return nil
		}
	}

	friendValues := make([]types.AttributeValue, 0, len(profile.Friends)+1)
	for _, existing := range profile.Friends {
		friendValues = append(friendValues, &types.AttributeValueMemberS{Value: existing})
	}
	friendValues = append(friendValues, &types.AttributeValueMemberS{Value: friendID})

	_, err = us.Dynamo.UpdateItem(
		ctx,
		models.UserProfilesTable,
		"SET friends = :friends",
		profileKey(userID),
		map[string]types.AttributeValue{
			":friends": &types.AttributeValueMemberL{Value: friendValues},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to add friend for %s: %w", userID, err)
	}
	return nil
}
