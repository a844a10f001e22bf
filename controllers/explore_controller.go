package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Subhom1/clickmate-backend/models"
	"github.com/Subhom1/clickmate-backend/services"
	"github.com/gorilla/mux"
)

// ExploreController handles HTTP requests for explore content and interests
type ExploreController struct {
	ExploreService *services.ExploreService
}

// NewExploreController creates a new ExploreController instance
func NewExploreController(exploreService *services.ExploreService) *ExploreController {
	return &ExploreController{ExploreService: exploreService}
}

// CreateCategory handles creating a new explore category
func (ec *ExploreController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Category == "" {
		http.Error(w, "Category is required.", http.StatusBadRequest)
		return
	}

	category, err := ec.ExploreService.CreateCategory(r.Context(), request.Category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
}

// AddItems handles appending items to an explore category
func (ec *ExploreController) AddItems(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["categoryId"]

	var request struct {
		Items []models.ExploreItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || len(request.Items) == 0 {
		http.Error(w, "No items provided.", http.StatusBadRequest)
		return
	}

	category, err := ec.ExploreService.AddItems(r.Context(), categoryID, request.Items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(category)
}

// ListCategories handles fetching all explore categories
func (ec *ExploreController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := ec.ExploreService.ListCategories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(categories)
}

// ListInterests handles fetching all interest tags
func (ec *ExploreController) ListInterests(w http.ResponseWriter, r *http.Request) {
	interests, err := ec.ExploreService.ListInterests(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(interests)
}
