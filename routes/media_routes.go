package routes

import (
	"github.com/gorilla/mux"

	"github.com/won-N-only/egg-talk-server-sub000/controllers"
	"github.com/won-N-only/egg-talk-server-sub000/services"
)

// RegisterMediaRoutes sets up routes for contest photo uploads
func RegisterMediaRoutes(r *mux.Router, media *services.MediaService) {
	controller := controllers.NewMediaController(media)
	r.HandleFunc("/generate-presigned-url", controller.CreatePhotoUpload).Methods("POST")
	r.HandleFunc("/get-presigned-read-url", controller.GetPhotoReadURL).Methods("POST")
}
