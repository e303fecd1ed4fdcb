package services

import (
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/won-N-only/egg-talk-server-sub000/models"
)

type fakeBroadcaster struct {
	mu           sync.Mutex
	participants []models.Participant
	stages       []string
	events       []sentEvent
}

func (b *fakeBroadcaster) ParticipantsOf(string) []models.Participant {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.participants
}

func (b *fakeBroadcaster) AdvanceStage(_ string, stage string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stages = append(b.stages, stage)
}

func (b *fakeBroadcaster) Broadcast(_ string, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{Event: event, Payload: payload})
}

func (b *fakeBroadcaster) sent() []sentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := make([]sentEvent, len(b.events))
	copy(events, b.events)
	return events
}

func waitForEvents(t *testing.T, b *fakeBroadcaster, n int, timeout time.Duration) []sentEvent {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if events := b.sent(); len(events) >= n {
			return events
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %v", n, b.sent())
	return nil
}

func newTestBroadcaster(names ...string) *fakeBroadcaster {
	b := &fakeBroadcaster{}
	for _, name := range names {
		b.participants = append(b.participants, models.Participant{Name: name, Gender: models.GenderMale})
	}
	return b
}

func TestScheduleFiresInOrder(t *testing.T) {
	broadcaster := newTestBroadcaster("alice", "bob", "carol")
	ts := &TimerService{Sessions: broadcaster, TickInterval: 2 * time.Millisecond}

	ts.Start("s1")
	events := waitForEvents(t, broadcaster, len(models.StageSchedule), 2*time.Second)

	want := []string{
		models.EventIntroduce, models.EventKeyword, models.EventCupidTime,
		models.EventCam, models.EventDrawingContest, models.EventLastCupidTime,
		models.EventFinish,
	}
	var got []string
	for _, e := range events {
		got = append(got, e.Event)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("stage order = %v, want %v", got, want)
	}

	// The terminal stage releases the timer.
	deadline := time.Now().Add(time.Second)
	for ts.Running("s1") && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if ts.Running("s1") {
		t.Error("timer should stop after finish")
	}
	if extra := broadcaster.sent(); len(extra) != len(models.StageSchedule) {
		t.Errorf("events after finish: %v", extra[len(models.StageSchedule):])
	}
}

func TestStagePayloads(t *testing.T) {
	broadcaster := newTestBroadcaster("alice", "bob", "carol")
	ts := &TimerService{Sessions: broadcaster, TickInterval: 2 * time.Millisecond}

	ts.Start("s1")
	events := waitForEvents(t, broadcaster, len(models.StageSchedule), 2*time.Second)
	ts.ClearSessionTimer("s1")

	for _, e := range events {
		switch e.Event {
		case models.EventIntroduce:
			order, ok := e.Payload.([]string)
			if !ok {
				t.Fatalf("introduce payload = %T, want []string", e.Payload)
			}
			sorted := append([]string(nil), order...)
			sort.Strings(sorted)
			if !reflect.DeepEqual(sorted, []string{"alice", "bob", "carol"}) {
				t.Errorf("introduce order %v is not a permutation of the members", order)
			}
		case models.EventKeyword:
			payload := e.Payload.(KeywordPayload)
			if payload.Message < 1 || payload.Message > 20 {
				t.Errorf("keyword message = %d, want 1..20", payload.Message)
			}
			if payload.GetRandomParticipant == "" {
				t.Error("keyword payload missing participant")
			}
		case models.EventDrawingContest:
			payload := e.Payload.(DrawingContestPayload)
			if payload.Message != models.EventDrawingContest {
				t.Errorf("drawingContest message = %q", payload.Message)
			}
			if payload.KeywordsIndex < 0 || payload.KeywordsIndex >= drawingPromptCount {
				t.Errorf("keywordsIndex = %d, want [0,%d)", payload.KeywordsIndex, drawingPromptCount)
			}
		default:
			payload := e.Payload.(StagePayload)
			if payload.Message != e.Event {
				t.Errorf("%s payload message = %q", e.Event, payload.Message)
			}
		}
	}
}

func TestCancelStopsFutureStages(t *testing.T) {
	broadcaster := newTestBroadcaster("alice", "bob")
	ts := &TimerService{Sessions: broadcaster, TickInterval: 2 * time.Millisecond}

	ts.Start("s1")
	waitForEvents(t, broadcaster, 3, 2*time.Second) // through cupidTime
	ts.ClearSessionTimer("s1")

	// Nothing fires after cancellation returns, even across many ticks.
	fired := len(broadcaster.sent())
	time.Sleep(50 * time.Millisecond)
	if got := len(broadcaster.sent()); got != fired {
		t.Errorf("stages fired after cancel: %v", broadcaster.sent()[fired:])
	}
	if ts.Running("s1") {
		t.Error("cancelled timer still registered")
	}
}

func TestStartIsExclusivePerSession(t *testing.T) {
	broadcaster := newTestBroadcaster("alice")
	ts := &TimerService{Sessions: broadcaster, TickInterval: time.Hour}

	ts.Start("s1")
	ts.Start("s1") // refused, first timer keeps running
	if !ts.Running("s1") {
		t.Fatal("timer should be running")
	}
	ts.ClearSessionTimer("s1")
	if ts.Running("s1") {
		t.Error("timer should be gone after clear")
	}

	// Clearing an unknown session is a no-op.
	ts.ClearSessionTimer("unknown")
}
