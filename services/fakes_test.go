package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

type sentEvent struct {
	Event   string
	Payload interface{}
}

type fakeConnection struct {
	mu     sync.Mutex
	id     string
	events []sentEvent
}

func (c *fakeConnection) ID() string {
	return c.id
}

func (c *fakeConnection) Send(event string, payload interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, sentEvent{Event: event, Payload: payload})
}

func (c *fakeConnection) sent() []sentEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]sentEvent, len(c.events))
	copy(events, c.events)
	return events
}

type fakeFriendDirectory struct {
	mu      sync.Mutex
	friends map[string][]string
	fail    bool
	calls   int
}

func (d *fakeFriendDirectory) AcquaintancesOf(_ context.Context, name string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.fail {
		return nil, errors.New("directory unavailable")
	}
	return d.friends[name], nil
}

func (d *fakeFriendDirectory) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeVideoProvider struct {
	failSession bool
	failToken   bool
}

func (v *fakeVideoProvider) CreateSession(_ context.Context, sessionID string) (string, error) {
	if v.failSession {
		return "", errors.New("provider unavailable")
	}
	return "prov-" + sessionID, nil
}

func (v *fakeVideoProvider) IssueToken(_ context.Context, providerSession, participantName string) (string, error) {
	if v.failToken {
		return "", errors.New("token refused")
	}
	return "token-" + participantName, nil
}

// newTestStack wires the full service graph over an in-memory store. The
// tick interval is effectively infinite so queue tests never race a timer.
func newTestStack(video *fakeVideoProvider) (*QueueService, *SessionService, *TimerService, *fakeFriendDirectory) {
	store := NewMemoryStore()
	directory := &fakeFriendDirectory{friends: map[string][]string{}}
	sessions := &SessionService{
		Video:    video,
		Meetings: &MeetingService{Store: store},
		Drawings: &DrawingService{Store: store},
	}
	timers := &TimerService{Sessions: sessions, TickInterval: time.Hour}
	sessions.Timers = timers
	queues := &QueueService{
		Store:    store,
		Friends:  &FriendService{Directory: directory, Store: store},
		Matcher:  &GroupMatcher{},
		Sessions: sessions,
		Timers:   timers,
	}
	return queues, sessions, timers, directory
}
