package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Subhom1/clickmate-backend/models"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrChatNotFound is returned when no chat exists for the given participants
var ErrChatNotFound = errors.New("chat not found")

// ChatService handles chat threads between matched users
type ChatService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
}

func chatKey(chatID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
}

// CreateChat creates a chat thread for two users and links them as friends.
// Idempotent: if a thread already exists for the pair it is returned as-is.
func (cs *ChatService) CreateChat(ctx context.Context, user1ID, user2ID string) (*models.Chat, error) {
	if user1ID == "" || user2ID == "" {
		return nil, errors.New("user IDs are required")
	}

	existing, err := cs.GetChatByParticipants(ctx, user1ID, user2ID)
	if err != nil && !errors.Is(err, ErrChatNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	chat := models.Chat{
		ChatID:       uuid.NewString(),
		Participants: []string{user1ID, user2ID},
		Messages:     []models.ChatMessage{},
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := cs.Dynamo.PutItem(ctx, models.ChatsTable, chat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	// Matched users become friends of each other.
	if err := cs.Profiles.AddFriend(ctx, user1ID, user2ID); err != nil {
		return nil, err
	}
	if err := cs.Profiles.AddFriend(ctx, user2ID, user1ID); err != nil {
		return nil, err
	}

	return &chat, nil
}

// GetChatByParticipants finds the chat thread containing both users
func (cs *ChatService) GetChatByParticipants(ctx context.Context, user1ID, user2ID string) (*models.Chat, error) {
	var chats []models.Chat
	err := cs.Dynamo.ScanItems(
		ctx,
		models.ChatsTable,
		"contains(participants, :user1) AND contains(participants, :user2)",
		map[string]types.AttributeValue{
			":user1": &types.AttributeValueMemberS{Value: user1ID},
			":user2": &types.AttributeValueMemberS{Value: user2ID},
		},
		nil,
		&chats,
	)
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, ErrChatNotFound
	}
	return &chats[0], nil
}

// GetChatsForUser returns every chat the user participates in
func (cs *ChatService) GetChatsForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := cs.Dynamo.ScanItems(
		ctx,
		models.ChatsTable,
		"contains(participants, :user)",
		map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		},
		nil,
		&chats,
	)
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// AppendMessage stores a new message in the chat and returns it. The sender
// has implicitly read their own message.
func (cs *ChatService) AppendMessage(ctx context.Context, chatID, senderID, content string) (*models.ChatMessage, error) {
	if chatID == "" || senderID == "" || content == "" {
		return nil, errors.New("chatId, senderId and content are required")
	}

	message := models.ChatMessage{
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Content:   content,
		ReadBy:    []string{senderID},
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	messageValue, err := attributevalue.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = cs.Dynamo.UpdateItem(
		ctx,
		models.ChatsTable,
		"SET messages = list_append(messages, :message)",
		chatKey(chatID),
		map[string]types.AttributeValue{
			":message": &types.AttributeValueMemberL{Value: []types.AttributeValue{messageValue}},
		},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append message to chat %s: %w", chatID, err)
	}
	return &message, nil
}

// GetUnreadCounts reports, per chat partner, how many messages the user has
// not read yet
func (cs *ChatService) GetUnreadCounts(ctx context.Context, userID string) ([]models.UnreadCount, error) {
	chats, err := cs.GetChatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make([]models.UnreadCount, 0, len(chats))
	for _, chat := range chats {
		partnerID := ""
		for _, participant := range chat.Participants {
			if participant != userID {
				partnerID = participant
				break
			}
		}

		unread := 0
		for _, message := range chat.Messages {
			read := false
			for _, reader := range message.ReadBy {
				if reader == userID {
					read = true
					break
				}
			}
			if !read {
				unread++
			}
		}
		counts = append(counts, models.UnreadCount{UserID: partnerID, Count: unread})
	}
	return counts, nil
}

// MarkAsRead adds the user to every message's readBy list in the chat
func (cs *ChatService) MarkAsRead(ctx context.Context, chatID, userID string) error {
	chat, err := cs.getChat(ctx, chatID)
	if err != nil {
		return err
	}

	changed := false
	for i := range chat.Messages {
		read := false
		for _, reader := range chat.Messages[i].ReadBy {
			if reader == userID {
				read = true
				break
			}
		}
		if !read {
			chat.Messages[i].ReadBy = append(chat.Messages[i].ReadBy, userID)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return cs.replaceMessages(ctx, chatID, chat.Messages)
}

// ClearMessages empties the chat's message history
func (cs *ChatService) ClearMessages(ctx context.Context, chatID string) error {
	return cs.replaceMessages(ctx, chatID, []models.ChatMessage{})
}

func (cs *ChatService) getChat(ctx context.Context, chatID string) (*models.Chat, error) {
	item, err := cs.Dynamo.GetItem(ctx, models.ChatsTable, chatKey(chatID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	var chat models.Chat
	if err := attributevalue.UnmarshalMap(item, &chat); err != nil {
		return nil, fmt.Errorf("failed to parse chat: %w", err)
	}
	return &chat, nil
}

func (cs *ChatService) replaceMessages(ctx context.Context, chatID string, messages []models.ChatMessage) error {
	messageValues := make([]types.AttributeValue, 0, len(messages))
	for _, message := range messages {
		value, err := attributevalue.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		messageValues = append(messageValues, value)
	}

	_, err := cs.Dynamo.UpdateItem(
		ctx,
		models.ChatsTable,
		"SET messages = :messages",
		chatKey(chatID),
		map[string]types.AttributeValue{
			":messages": &types.AttributeValueMemberL{Value: messageValues},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to update messages for chat %s: %w", chatID, err)
	}
	return nil
}
