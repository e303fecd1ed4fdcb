package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/won-N-only/egg-talk-server-sub000/models"
)

// MeetingService keeps the session-scoped ephemeral state the stage logic
// consults: 1:1 choices, their mutual resolution, and presence-only flags
// (cupid, lastCupid, accept). It carries no stage logic of its own.
type MeetingService struct {
	Store KeyValueStore
}

// Flag kinds used by the stage-handling socket events.
const (
	FlagCupid     = "cupid"
	FlagLastCupid = "lastCupid"
	FlagAccept    = "accept"
)

func chooseKey(sessionID string) string {
	return "choose:" + sessionID
}

func flagsKey(sessionID string) string {
	return "flags:" + sessionID
}

func flagField(kind string, names []string) string {
	if len(names) == 0 {
		return kind
	}
	return kind + ":" + strings.Join(names, ":")
}

// RecordChoice stores sender -> receiver, overwriting any earlier choice
// from the same sender.
func (ms *MeetingService) RecordChoice(ctx context.Context, sessionID, sender, receiver string) error {
	if err := ms.Store.HashSet(ctx, chooseKey(sessionID), sender, receiver); err != nil {
		return fmt.Errorf("failed to record choice in session '%s': %w", sessionID, err)
	}
	return nil
}

// MutualMatches returns every unordered pair whose latest choices point at
// each other. One-sided choices simply do not appear.
func (ms *MeetingService) MutualMatches(ctx context.Context, sessionID string) ([]models.MatchPair, error) {
	choices, err := ms.Store.HashGetAll(ctx, chooseKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read choices for session '%s': %w", sessionID, err)
	}

	senders := make([]string, 0, len(choices))
	for sender := range choices {
		senders = append(senders, sender)
	}
	sort.Strings(senders)

	var pairs []models.MatchPair
	for _, sender := range senders {
		receiver := choices[sender]
		if sender < receiver && choices[receiver] == sender {
			pairs = append(pairs, models.MatchPair{A: sender, B: receiver})
		}
	}
	return pairs, nil
}

// SetFlag marks a presence flag scoped to the session, optionally narrowed
// to participant names (e.g. an accept flag for one pair).
func (ms *MeetingService) SetFlag(ctx context.Context, sessionID, kind string, names ...string) error {
	if err := ms.Store.HashSet(ctx, flagsKey(sessionID), flagField(kind, names), "1"); err != nil {
		return fmt.Errorf("failed to set %s flag in session '%s': %w", kind, sessionID, err)
	}
	return nil
}

// HasFlag reports whether the flag is currently set.
func (ms *MeetingService) HasFlag(ctx context.Context, sessionID, kind string, names ...string) (bool, error) {
	flags, err := ms.Store.HashGetAll(ctx, flagsKey(sessionID))
	if err != nil {
		return false, fmt.Errorf("failed to read flags for session '%s': %w", sessionID, err)
	}
	_, ok := flags[flagField(kind, names)]
	return ok, nil
}

// ClearFlag unsets one flag; absent flags no-op.
func (ms *MeetingService) ClearFlag(ctx context.Context, sessionID, kind string, names ...string) error {
	if err := ms.Store.HashDelete(ctx, flagsKey(sessionID), flagField(kind, names)); err != nil {
		return fmt.Errorf("failed to clear %s flag in session '%s': %w", kind, sessionID, err)
	}
	return nil
}

// Reset clears every choice and flag recorded for the session.
func (ms *MeetingService) Reset(ctx context.Context, sessionID string) {
	_ = ms.Store.Delete(ctx, chooseKey(sessionID))
	_ = ms.Store.Delete(ctx, flagsKey(sessionID))
}
