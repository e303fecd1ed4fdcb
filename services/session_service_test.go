package services

import (
	"context"
	"testing"

	"github.com/won-N-only/egg-talk-server-sub000/models"
)

func createTestSession(t *testing.T, sessions *SessionService, id string, names ...string) map[string]*fakeConnection {
	t.Helper()
	conns := make(map[string]*fakeConnection, len(names))
	participants := make([]models.Participant, 0, len(names))
	connArg := make(map[string]models.Connection, len(names))
	for _, name := range names {
		conn := &fakeConnection{id: "conn-" + name}
		conns[name] = conn
		connArg[name] = conn
		participants = append(participants, models.Participant{Name: name, Gender: models.GenderMale})
	}
	if _, err := sessions.Create(context.Background(), id, participants, connArg); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return conns
}

func TestCreateIssuesTokensAndStartCall(t *testing.T) {
	_, sessions, _, _ := newTestStack(&fakeVideoProvider{})
	conns := createTestSession(t, sessions, "s1", "alice", "bob")

	for name, conn := range conns {
		events := conn.sent()
		if len(events) != 1 || events[0].Event != models.EventStartCall {
			t.Fatalf("%s events = %v, want one startCall", name, events)
		}
		payload := events[0].Payload.(StartCallPayload)
		if payload.Token != "token-"+name {
			t.Errorf("%s token = %q, want token-%s", name, payload.Token, name)
		}
	}
}

func TestRemoveLastParticipantDestroysSession(t *testing.T) {
	_, sessions, timers, _ := newTestStack(&fakeVideoProvider{})
	createTestSession(t, sessions, "s1", "alice", "bob")
	timers.Start("s1")
	ctx := context.Background()

	meetings := sessions.Meetings
	if err := meetings.RecordChoice(ctx, "s1", "alice", "bob"); err != nil {
		t.Fatalf("RecordChoice failed: %v", err)
	}

	sessions.RemoveParticipant(ctx, "s1", "alice")
	if sessions.Count() != 1 {
		t.Fatalf("session destroyed too early")
	}
	sessions.RemoveParticipant(ctx, "s1", "bob")

	if sessions.Count() != 0 {
		t.Error("session should be destroyed once empty")
	}
	if timers.Running("s1") {
		t.Error("destroy must clear the session timer")
	}
	pairs, err := meetings.MutualMatches(ctx, "s1")
	if err != nil {
		t.Fatalf("MutualMatches failed: %v", err)
	}
	if len(pairs) != 0 {
		t.Error("destroy must clear recorded choices")
	}
	choices, _ := meetings.Store.HashGetAll(ctx, chooseKey("s1"))
	if len(choices) != 0 {
		t.Errorf("choices = %v, want cleared", choices)
	}
}

func TestRemoveParticipantUnknownSessionIsNoop(t *testing.T) {
	_, sessions, _, _ := newTestStack(&fakeVideoProvider{})
	sessions.RemoveParticipant(context.Background(), "missing", "alice")
	sessions.Destroy(context.Background(), "missing")
}

func TestBroadcastSkipsDepartedMembers(t *testing.T) {
	_, sessions, _, _ := newTestStack(&fakeVideoProvider{})
	conns := createTestSession(t, sessions, "s1", "alice", "bob")

	sessions.RemoveParticipant(context.Background(), "s1", "alice")
	sessions.Broadcast("s1", models.EventCam, StagePayload{Message: models.EventCam})

	for _, e := range conns["alice"].sent() {
		if e.Event == models.EventCam {
			t.Error("departed member received a stage event")
		}
	}
	got := conns["bob"].sent()
	if got[len(got)-1].Event != models.EventCam {
		t.Errorf("remaining member missed the stage event: %v", got)
	}
}

func TestTokenFailureLeavesPartialSession(t *testing.T) {
	_, sessions, _, _ := newTestStack(&fakeVideoProvider{failToken: true})

	conn := &fakeConnection{id: "c"}
	participants := []models.Participant{{Name: "alice", Gender: models.GenderFemale}}
	_, err := sessions.Create(context.Background(), "s1", participants, map[string]models.Connection{"alice": conn})
	if err == nil {
		t.Fatal("expected token failure to propagate")
	}
	if sessions.Count() != 1 {
		t.Error("partially formed session should remain registered")
	}
	if len(conn.sent()) != 0 {
		t.Error("no startCall should be sent without a token")
	}
}
