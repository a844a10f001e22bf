package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Subhom1/clickmate-backend/services"
	"github.com/gorilla/mux"
)

// ChatController handles HTTP requests for chat threads
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController creates a new ChatController instance
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// CreateChat handles creating (or returning) the chat thread for a matched
// pair
func (cc *ChatController) CreateChat(w http.ResponseWriter, r *http.Request) {
	var request struct {
		User1ID string `json:"user1Id"`
		User2ID string `json:"user2Id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.User1ID == "" || request.User2ID == "" {
		http.Error(w, "User IDs are required", http.StatusBadRequest)
		return
	}

	chat, err := cc.ChatService.CreateChat(r.Context(), request.User1ID, request.User2ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(chat)
}

// GetChat handles fetching the chat between two users
func (cc *ChatController) GetChat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	chat, err := cc.ChatService.GetChatByParticipants(r.Context(), vars["user1Id"], vars["user2Id"])
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(chat)
}

// GetUnreadMessages handles fetching per-partner unread message counts
func (cc *ChatController) GetUnreadMessages(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	counts, err := cc.ChatService.GetUnreadCounts(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(counts)
}
