package routes

import (
	"github.com/gorilla/mux"

	"github.com/won-N-only/egg-talk-server-sub000/controllers"
	"github.com/won-N-only/egg-talk-server-sub000/services"
)

// RegisterMeetingRoutes sets up routes for meeting status under /api/meeting
func RegisterMeetingRoutes(r *mux.Router, queues *services.QueueService, sessions *services.SessionService) {
	controller := controllers.NewMeetingController(queues, sessions)

	meetingRouter := r.PathPrefix("/api/meeting").Subrouter()
	meetingRouter.HandleFunc("/status", controller.GetStatus).Methods("GET")
}
