package routes

import (
	"github.com/Subhom1/clickmate-backend/controllers"
	"github.com/Subhom1/clickmate-backend/services"
	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profile operations
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	r.HandleFunc("/register", controller.Register).Methods("POST")
	r.HandleFunc("/user/{email}", controller.GetUserByEmail).Methods("GET")
	r.HandleFunc("/user/{userId}", controller.UpdateUser).Methods("PATCH")
	r.HandleFunc("/user/{userId}", controller.DeleteUser).Methods("DELETE")
	r.HandleFunc("/users/{userId}/friends", controller.GetFriends).Methods("GET")
}
