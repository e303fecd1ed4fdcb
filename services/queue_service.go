package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/won-N-only/egg-talk-server-sub000/models"
)

const (
	maleQueueKey   = "queue:" + models.GenderMale
	femaleQueueKey = "queue:" + models.GenderFemale
)

func queueKey(gender string) string {
	if gender == models.GenderFemale {
		return femaleQueueKey
	}
	return maleQueueKey
}

// QueueService owns the two gender-partitioned waiting queues. Queue order
// lives in the store's atomic lists; admissions, evictions and match
// attempts are additionally serialized behind one mutex, since the
// deployment runs a single matching authority. Live connections are
// process-local and kept in an in-memory registry keyed by name.
type QueueService struct {
	Store    KeyValueStore
	Friends  *FriendService
	Matcher  *GroupMatcher
	Sessions *SessionService
	Timers   *TimerService

	mu    sync.Mutex
	conns map[string]models.Connection
}

// Admit queues the participant and immediately attempts a match. Any stale
// entry under the same name is removed first, so re-joining is idempotent
// and a name never appears twice. Returns the formed session when the
// admission completed a group, nil while still waiting.
func (qs *QueueService) Admit(ctx context.Context, name string, conn models.Connection, gender string) (*models.Session, error) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	// A name is unique across both queues: any stale entry leaves them
	// first, so a re-join can never leave the participant queued twice.
	for _, key := range []string{maleQueueKey, femaleQueueKey} {
		if err := qs.Store.RemoveFromList(ctx, key, name); err != nil {
			return nil, fmt.Errorf("failed to clear stale queue entry for '%s': %w", name, err)
		}
	}
	if err := qs.Store.PushToList(ctx, queueKey(gender), name); err != nil {
		return nil, fmt.Errorf("failed to enqueue '%s': %w", name, err)
	}
	if qs.conns == nil {
		qs.conns = make(map[string]models.Connection)
	}
	qs.conns[name] = conn
	log.Printf("Participant %s admitted to %s queue", name, gender)

	return qs.attemptMatch(ctx)
}

// Evict removes the participant from its queue; absent names no-op.
func (qs *QueueService) Evict(ctx context.Context, name, gender string) error {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	if err := qs.Store.RemoveFromList(ctx, queueKey(gender), name); err != nil {
		return fmt.Errorf("failed to evict '%s': %w", name, err)
	}
	delete(qs.conns, name)
	return nil
}

// Counts reports current queue depths.
func (qs *QueueService) Counts(ctx context.Context) (int, int, error) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	males, err := qs.Store.ListRange(ctx, maleQueueKey)
	if err != nil {
		return 0, 0, err
	}
	females, err := qs.Store.ListRange(ctx, femaleQueueKey)
	if err != nil {
		return 0, 0, err
	}
	return len(males), len(females), nil
}

// attemptMatch snapshots both queues, builds the compatibility graph from
// cached acquaintance sets and searches for a group. Callers hold the
// mutex, so the snapshot cannot race a concurrent admission. A failed
// search is a normal "keep waiting" outcome, never an error.
func (qs *QueueService) attemptMatch(ctx context.Context) (*models.Session, error) {
	k := qs.Matcher.groupSize()

	males, err := qs.snapshot(ctx, models.GenderMale)
	if err != nil {
		return nil, err
	}
	females, err := qs.snapshot(ctx, models.GenderFemale)
	if err != nil {
		return nil, err
	}
	if len(males) < k || len(females) < k {
		return nil, nil
	}

	friends := make(map[string][]string, len(males)+len(females))
	for _, p := range append(append([]models.Participant{}, males...), females...) {
		friends[p.Name] = qs.Friends.AcquaintancesOf(ctx, p.Name)
	}

	graph := BuildCompatibilityGraph(males, females, friends)
	group := qs.Matcher.FindGroup(graph, males, females)
	if group == nil {
		return nil, nil
	}

	// Matched entries leave both queues before the session exists;
	// already-evicted names are tolerated (RemoveFromList no-ops).
	conns := make(map[string]models.Connection, 2*k)
	participants := make([]models.Participant, 0, 2*k)
	for _, p := range append(append([]models.Participant{}, group.Males...), group.Females...) {
		if err := qs.Store.RemoveFromList(ctx, queueKey(p.Gender), p.Name); err != nil {
			log.Printf("Failed to dequeue matched participant %s: %v", p.Name, err)
		}
		conns[p.Name] = qs.conns[p.Name]
		delete(qs.conns, p.Name)
		participants = append(participants, p)
	}

	sessionID := uuid.New().String()
	session, err := qs.Sessions.Create(ctx, sessionID, participants, conns)
	if err != nil {
		return session, fmt.Errorf("failed to create session for matched group: %w", err)
	}
	qs.Timers.Start(sessionID)
	log.Printf("Matched group of %d formed session %s", len(participants), sessionID)
	return session, nil
}

func (qs *QueueService) snapshot(ctx context.Context, gender string) ([]models.Participant, error) {
	names, err := qs.Store.ListRange(ctx, queueKey(gender))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s queue: %w", gender, err)
	}
	participants := make([]models.Participant, 0, len(names))
	for _, name := range names {
		p := models.Participant{Name: name, Gender: gender}
		if conn := qs.conns[name]; conn != nil {
			p.ConnectionID = conn.ID()
		}
		participants = append(participants, p)
	}
	return participants, nil
}
