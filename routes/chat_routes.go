package routes

import (
	"github.com/Subhom1/clickmate-backend/controllers"
	"github.com/Subhom1/clickmate-backend/services"
	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat operations
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	r.HandleFunc("/create-chat", controller.CreateChat).Methods("POST")
	r.HandleFunc("/chat/{user1Id}/{user2Id}", controller.GetChat).Methods("GET")
	r.HandleFunc("/unread-messages/{userId}", controller.GetUnreadMessages).Methods("GET")
}
