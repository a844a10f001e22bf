package routes

import (
	"github.com/Subhom1/clickmate-backend/controllers"
	"github.com/Subhom1/clickmate-backend/services"
	"github.com/gorilla/mux"
)

// RegisterExploreRoutes sets up routes for explore content and interests
func RegisterExploreRoutes(r *mux.Router, exploreService *services.ExploreService) {
	controller := controllers.NewExploreController(exploreService)

	r.HandleFunc("/explore", controller.ListCategories).Methods("GET")
	r.HandleFunc("/add-explore-category", controller.CreateCategory).Methods("POST")
	r.HandleFunc("/add-items/{categoryId}", controller.AddItems).Methods("POST")
	r.HandleFunc("/interests", controller.ListInterests).Methods("GET")
}
