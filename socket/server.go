package socket

import (
	"context"
	"errors"
	"log"

	"github.com/Subhom1/clickmate-backend/services"
	socketio "github.com/googollee/go-socket.io"
)

// SubmitSearchPayload starts an interest-query search for a user
type SubmitSearchPayload struct {
	UserID string `json:"userId"`
	Query  string `json:"query"`
}

// CancelSearchPayload stops a running search
type CancelSearchPayload struct {
	UserID string `json:"userId"`
}

// ChatRoomPayload joins or leaves a chat room
type ChatRoomPayload struct {
	ChatID string `json:"chatId"`
}

// SendMessagePayload posts a message into a chat room
type SendMessagePayload struct {
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

// MarkAsReadPayload marks every message in a chat as read by a user
type MarkAsReadPayload struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}

// NewSocketServer initializes the Socket.IO server and wires the search and
// chat events
func NewSocketServer(searchService *services.SearchService, chatService *services.ChatService) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "submit_keyword", func(c socketio.Conn, payload SubmitSearchPayload) {
		err := searchService.Submit(context.Background(), payload.UserID, payload.Query, c)
		if err == nil {
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.Emit(services.EventSearchError, map[string]interface{}{
				"message": "UserId and query are required.",
			})
			return
		}
		log.Printf("search submission failed for %s: %v", payload.UserID, err)
		c.Emit(services.EventSearchError, map[string]interface{}{
			"message": "An error occurred during the search.",
		})
	})

	server.OnEvent("/", "cancel_search", func(c socketio.Conn, payload CancelSearchPayload) {
		searchService.Cancel(payload.UserID)
	})

	server.OnEvent("/", "joinChat", func(c socketio.Conn, payload ChatRoomPayload) {
		if payload.ChatID == "" {
			return
		}
		c.Join(payload.ChatID)
	})

	server.OnEvent("/", "leaveChat", func(c socketio.Conn, payload ChatRoomPayload) {
		if payload.ChatID == "" {
			return
		}
		c.Leave(payload.ChatID)
	})

	server.OnEvent("/", "sendMessage", func(c socketio.Conn, payload SendMessagePayload) {
		message, err := chatService.AppendMessage(context.Background(), payload.ChatID, payload.SenderID, payload.Content)
		if err != nil {
			log.Printf("failed to send message in chat %s: %v", payload.ChatID, err)
			return
		}
		server.BroadcastToRoom("/", payload.ChatID, "receiveMessage", message)
		server.BroadcastToRoom("/", payload.ChatID, "updateUnreadCounts")
	})

	server.OnEvent("/", "markAsRead", func(c socketio.Conn, payload MarkAsReadPayload) {
		if err := chatService.MarkAsRead(context.Background(), payload.ChatID, payload.UserID); err != nil {
			log.Printf("failed to mark chat %s as read: %v", payload.ChatID, err)
			return
		}
		server.BroadcastToRoom("/", payload.ChatID, "updateUnreadCounts")
	})

	server.OnEvent("/", "clearMessages", func(c socketio.Conn, payload ChatRoomPayload) {
		if err := chatService.ClearMessages(context.Background(), payload.ChatID); err != nil {
			log.Printf("failed to clear chat %s: %v", payload.ChatID, err)
			return
		}
		server.BroadcastToRoom("/", payload.ChatID, "messagesCleared")
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("socket disconnected:", c.ID(), reason)
		// A dropped connection cancels every search it owned.
		searchService.Disconnect(c.ID())
	})

	return server
}
