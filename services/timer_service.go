package services

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/won-N-only/egg-talk-server-sub000/models"
)

// SessionBroadcaster is the slice of the session registry the timer needs.
type SessionBroadcaster interface {
	ParticipantsOf(sessionID string) []models.Participant
	AdvanceStage(sessionID, stage string)
	Broadcast(sessionID, event string, payload interface{})
}

// StagePayload is the body of the plain stage events.
type StagePayload struct {
	Message string `json:"message"`
}

// KeywordPayload carries the shared conversation number and one randomly
// chosen member; identical for every receiver.
type KeywordPayload struct {
	Message              int    `json:"message"`
	GetRandomParticipant string `json:"getRandomParticipant"`
}

// DrawingContestPayload carries the shared prompt index in [0, 1234).
type DrawingContestPayload struct {
	Message       string `json:"message"`
	KeywordsIndex int    `json:"keywordsIndex"`
}

const drawingPromptCount = 1234

// DefaultTickInterval makes one tick half a schedule minute.
const DefaultTickInterval = 30 * time.Second

type sessionTimer struct {
	mu        sync.Mutex
	cancelled bool
	stop      chan struct{}
	stopOnce  sync.Once
}

// TimerService runs at most one staged schedule per session. Each timer
// advances a tick counter at a fixed interval and fires the next schedule
// entry when the counter reaches its offset; the schedule index only
// moves forward, so a stage can never repeat or regress. Cancellation and
// firing take the same per-timer lock: once ClearSessionTimer returns, no
// further stage fires.
type TimerService struct {
	Sessions     SessionBroadcaster
	TickInterval time.Duration

	mu     sync.Mutex
	timers map[string]*sessionTimer
}

// Start launches the session's schedule. A second Start for the same id
// is refused; one live timer per session.
func (ts *TimerService) Start(sessionID string) {
	interval := ts.TickInterval
	if interval == 0 {
		interval = DefaultTickInterval
	}

	timer := &sessionTimer{stop: make(chan struct{})}
	ts.mu.Lock()
	if ts.timers == nil {
		ts.timers = make(map[string]*sessionTimer)
	}
	if _, exists := ts.timers[sessionID]; exists {
		ts.mu.Unlock()
		log.Printf("Timer for session %s already running, ignoring", sessionID)
		return
	}
	ts.timers[sessionID] = timer
	ts.mu.Unlock()

	go ts.run(sessionID, timer, interval)
}

// ClearSessionTimer stops the session's timer. A stage already firing
// completes first; nothing fires after this returns. Unknown ids no-op.
func (ts *TimerService) ClearSessionTimer(sessionID string) {
	ts.mu.Lock()
	timer, ok := ts.timers[sessionID]
	delete(ts.timers, sessionID)
	ts.mu.Unlock()
	if !ok {
		return
	}

	timer.mu.Lock()
	timer.cancelled = true
	timer.mu.Unlock()
	timer.stopOnce.Do(func() { close(timer.stop) })
}

// Running reports whether the session currently has a live timer.
func (ts *TimerService) Running(sessionID string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_, ok := ts.timers[sessionID]
	return ok
}

func (ts *TimerService) run(sessionID string, timer *sessionTimer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ticks := 0
	next := 0
	for {
		select {
		case <-timer.stop:
			return
		case <-ticker.C:
			timer.mu.Lock()
			if timer.cancelled {
				timer.mu.Unlock()
				return
			}
			ticks++
			if next < len(models.StageSchedule) && ticks == models.StageSchedule[next].Tick {
				ts.fire(sessionID, models.StageSchedule[next])
				next++
			}
			finished := next >= len(models.StageSchedule)
			timer.mu.Unlock()

			if finished {
				ts.ClearSessionTimer(sessionID)
				return
			}
		}
	}
}

func (ts *TimerService) fire(sessionID string, entry models.ScheduleEntry) {
	ts.Sessions.AdvanceStage(sessionID, entry.Stage)
	ts.Sessions.Broadcast(sessionID, entry.Event, ts.payloadFor(sessionID, entry))
	log.Printf("Session %s fired stage %s", sessionID, entry.Event)
}

func (ts *TimerService) payloadFor(sessionID string, entry models.ScheduleEntry) interface{} {
	switch entry.Event {
	case models.EventIntroduce:
		names := participantNames(ts.Sessions.ParticipantsOf(sessionID))
		rand.Shuffle(len(names), func(i, j int) {
			names[i], names[j] = names[j], names[i]
		})
		return names
	case models.EventKeyword:
		names := participantNames(ts.Sessions.ParticipantsOf(sessionID))
		payload := KeywordPayload{Message: rand.Intn(20) + 1}
		if len(names) > 0 {
			payload.GetRandomParticipant = names[rand.Intn(len(names))]
		}
		return payload
	case models.EventDrawingContest:
		return DrawingContestPayload{
			Message:       models.EventDrawingContest,
			KeywordsIndex: rand.Intn(drawingPromptCount),
		}
	default:
		return StagePayload{Message: entry.Event}
	}
}

func participantNames(participants []models.Participant) []string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}
