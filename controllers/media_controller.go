package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/won-N-only/egg-talk-server-sub000/services"
)

// MediaController exposes presigned-URL endpoints for contest photos.
type MediaController struct {
	Media *services.MediaService
}

func NewMediaController(media *services.MediaService) *MediaController {
	return &MediaController{Media: media}
}

// CreatePhotoUpload presigns an upload slot for a participant's contest photo.
func (mc *MediaController) CreatePhotoUpload(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Name      string `json:"name"`
		FileType  string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.SessionID == "" || payload.Name == "" || payload.FileType == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	url, key, err := mc.Media.CreatePhotoUpload(r.Context(), payload.SessionID, payload.Name, payload.FileType)
	if err != nil {
		log.Printf("Error creating photo upload: %v", err)
		http.Error(w, "Failed to create photo upload", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url, "key": key})
}

// GetPhotoReadURL presigns a read of a participant's stored contest photo.
func (mc *MediaController) GetPhotoReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Name      string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.SessionID == "" || payload.Name == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, err := mc.Media.PhotoReadURL(r.Context(), payload.SessionID, payload.Name)
	if err != nil {
		log.Printf("Error presigning photo read: %v", err)
		http.Error(w, "Photo not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
