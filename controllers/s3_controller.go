package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Subhom1/clickmate-backend/services"
)

// S3Controller handles HTTP requests for presigned image URLs
type S3Controller struct {
	S3Service *services.S3Service
}

// NewS3Controller creates a new S3Controller instance
func NewS3Controller(s3Service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: s3Service}
}

// GetUploadURL handles issuing a presigned upload URL for an image
func (sc *S3Controller) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.FileName == "" || request.FileType == "" {
		http.Error(w, "fileName and fileType are required", http.StatusBadRequest)
		return
	}

	url, key, err := sc.S3Service.GenerateUploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedImageType) {
			http.Error(w, "Error: Images Only!", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

// GetReadURL handles issuing a presigned read URL for an uploaded image
func (sc *S3Controller) GetReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	url, err := sc.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"readUrl": url,
	})
}
