package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/won-N-only/egg-talk-server-sub000/models"
)

// StartCallPayload is delivered to each member as soon as its provider
// token exists.
type StartCallPayload struct {
	SessionID       string `json:"sessionId"`
	Token           string `json:"token"`
	ParticipantName string `json:"participantName"`
}

type liveSession struct {
	session *models.Session
	conns   map[string]models.Connection // participant name -> connection
}

// SessionService owns every live session. All participant-list mutation
// goes through its mutex; everything else refers to sessions by id.
type SessionService struct {
	Video    VideoProvider
	Timers   *TimerService
	Meetings *MeetingService
	Drawings *DrawingService

	mu       sync.Mutex
	sessions map[string]*liveSession
}

// Create registers the session, then requests one provider session and a
// token per participant, emitting startCall to each connection. Provider
// failures are propagated; the session record stays registered without a
// usable call in that case.
func (ss *SessionService) Create(ctx context.Context, sessionID string, participants []models.Participant, conns map[string]models.Connection) (*models.Session, error) {
	session := &models.Session{
		ID:           sessionID,
		Stage:        models.StageCreated,
		Participants: participants,
		CreatedAt:    time.Now(),
	}

	ss.mu.Lock()
	if ss.sessions == nil {
		ss.sessions = make(map[string]*liveSession)
	}
	ss.sessions[sessionID] = &liveSession{session: session, conns: conns}
	ss.mu.Unlock()

	providerSession, err := ss.Video.CreateSession(ctx, sessionID)
	if err != nil {
		return session, err
	}
	session.ProviderSession = providerSession

	for _, p := range participants {
		token, err := ss.Video.IssueToken(ctx, providerSession, p.Name)
		if err != nil {
			return session, err
		}
		if conn, ok := conns[p.Name]; ok && conn != nil {
			conn.Send(models.EventStartCall, StartCallPayload{
				SessionID:       sessionID,
				Token:           token,
				ParticipantName: p.Name,
			})
		}
	}

	log.Printf("Session %s created with %d participants", sessionID, len(participants))
	return session, nil
}

// Destroy cancels the session's timer before dropping the record, so no
// stage can fire against a dead session, then clears the session-scoped
// choice, flag and contest state.
func (ss *SessionService) Destroy(ctx context.Context, sessionID string) {
	if ss.Timers != nil {
		ss.Timers.ClearSessionTimer(sessionID)
	}

	ss.mu.Lock()
	_, ok := ss.sessions[sessionID]
	delete(ss.sessions, sessionID)
	ss.mu.Unlock()

	if !ok {
		log.Printf("Destroy: session %s not found, ignoring", sessionID)
		return
	}
	if ss.Meetings != nil {
		ss.Meetings.Reset(ctx, sessionID)
	}
	if ss.Drawings != nil {
		ss.Drawings.Clear(ctx, sessionID)
	}
	log.Printf("Session %s destroyed", sessionID)
}

// ParticipantsOf returns the current member list, nil for unknown ids.
func (ss *SessionService) ParticipantsOf(sessionID string) []models.Participant {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	live, ok := ss.sessions[sessionID]
	if !ok {
		return nil
	}
	members := make([]models.Participant, len(live.session.Participants))
	copy(members, live.session.Participants)
	return members
}

// RemoveParticipant drops one member; the last departure destroys the
// session. Unknown sessions and unknown names are no-ops.
func (ss *SessionService) RemoveParticipant(ctx context.Context, sessionID, name string) {
	ss.mu.Lock()
	live, ok := ss.sessions[sessionID]
	if !ok {
		ss.mu.Unlock()
		log.Printf("RemoveParticipant: session %s not found, ignoring", sessionID)
		return
	}
	kept := live.session.Participants[:0]
	for _, p := range live.session.Participants {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	live.session.Participants = kept
	delete(live.conns, name)
	empty := len(kept) == 0
	ss.mu.Unlock()

	if empty {
		ss.Destroy(ctx, sessionID)
	}
}

// AdvanceStage records the stage the timer just fired.
func (ss *SessionService) AdvanceStage(sessionID, stage string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if live, ok := ss.sessions[sessionID]; ok {
		live.session.Stage = stage
	}
}

// Broadcast sends one event to every member's connection. The member set
// is re-read on each call so departures stop receiving mid-session.
func (ss *SessionService) Broadcast(sessionID, event string, payload interface{}) {
	ss.mu.Lock()
	live, ok := ss.sessions[sessionID]
	if !ok {
		ss.mu.Unlock()
		log.Printf("Broadcast: session %s not found, dropping %s", sessionID, event)
		return
	}
	conns := make([]models.Connection, 0, len(live.conns))
	for _, conn := range live.conns {
		if conn != nil {
			conns = append(conns, conn)
		}
	}
	ss.mu.Unlock()

	for _, conn := range conns {
		conn.Send(event, payload)
	}
}

// Count returns the number of live sessions.
func (ss *SessionService) Count() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}
