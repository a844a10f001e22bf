package routes

import (
	"github.com/Subhom1/clickmate-backend/controllers"
	"github.com/Subhom1/clickmate-backend/services"
	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for presigned image URLs
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service) {
	controller := controllers.NewS3Controller(s3Service)

	imageRouter := r.PathPrefix("/api/images").Subrouter()
	imageRouter.HandleFunc("/upload-url", controller.GetUploadURL).Methods("POST")
	imageRouter.HandleFunc("/read-url", controller.GetReadURL).Methods("GET")
}
