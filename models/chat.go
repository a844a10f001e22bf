package models

// ChatMessage is a single message inside a chat thread
type ChatMessage struct {
	MessageID string   `dynamodbav:"messageId" json:"messageId"`
	SenderID  string   `dynamodbav:"senderId" json:"senderId"`
	Content   string   `dynamodbav:"content" json:"content"`
	ReadBy    []string `dynamodbav:"readBy" json:"readBy"`
	CreatedAt string   `dynamodbav:"createdAt" json:"createdAt"`
}

// Chat is a thread between two matched users
type Chat struct {
	ChatID       string        `dynamodbav:"chatId" json:"chatId"`
	Participants []string      `dynamodbav:"participants" json:"participants"`
	Messages     []ChatMessage `dynamodbav:"messages" json:"messages"`
	CreatedAt    string        `dynamodbav:"createdAt" json:"createdAt"`
}

// UnreadCount reports unread messages from one chat partner
type UnreadCount struct {
	UserID string `json:"userId"`
	Count  int    `json:"count"`
}

// ChatsTable is the DynamoDB table name for chat threads
const ChatsTable = "Chats"
