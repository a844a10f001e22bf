package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Subhom1/clickmate-backend/services"
	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// Register handles new user registration
func (uc *UserProfileController) Register(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Name == "" || request.Email == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}

	profile, err := uc.UserProfileService.Register(r.Context(), request.Name, request.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			http.Error(w, "User already exists!", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"data":   profile,
	})
}

// GetUserByEmail handles fetching a user's profile by email
func (uc *UserProfileController) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	profile, err := uc.UserProfileService.GetProfileByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(profile)
}

// GetFriends handles fetching the expanded friend list of a user
func (uc *UserProfileController) GetFriends(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	friends, err := uc.UserProfileService.GetFriends(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(friends)
}

// UpdateUser handles patching profile fields
func (uc *UserProfileController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var request struct {
		FullName  *string  `json:"fullname"`
		Bio       *string  `json:"bio"`
		Interests []string `json:"interests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := uc.UserProfileService.UpdateProfile(r.Context(), userID, request.FullName, request.Bio, request.Interests)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(profile)
}

// DeleteUser handles deleting a user profile
func (uc *UserProfileController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := uc.UserProfileService.DeleteProfile(r.Context(), userID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"message": "User deleted successfully",
	})
}
