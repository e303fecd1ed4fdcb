package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/won-N-only/egg-talk-server-sub000/services"
)

// MeetingController exposes read-only operational state over HTTP.
type MeetingController struct {
	Queues   *services.QueueService
	Sessions *services.SessionService
}

// NewMeetingController creates a new MeetingController instance
func NewMeetingController(queues *services.QueueService, sessions *services.SessionService) *MeetingController {
	return &MeetingController{Queues: queues, Sessions: sessions}
}

// GetStatus reports queue depths and the active session count
func (mc *MeetingController) GetStatus(w http.ResponseWriter, r *http.Request) {
	males, females, err := mc.Queues.Counts(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read queues: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"males":    males,
		"females":  females,
		"sessions": mc.Sessions.Count(),
	})
}
