package services

import (
	"context"
	"fmt"
	"sort"
)

// DrawingService stores the drawing-contest state of a session: one
// drawing, one photo key and one vote per participant name, later writes
// overwriting earlier ones.
type DrawingService struct {
	Store KeyValueStore
}

func drawingKey(sessionID string) string {
	return "drawing:" + sessionID
}

func photoKey(sessionID string) string {
	return "photo:" + sessionID
}

func voteKey(sessionID string) string {
	return "vote:" + sessionID
}

func (ds *DrawingService) SaveDrawing(ctx context.Context, sessionID, name, drawing string) error {
	if err := ds.Store.HashSet(ctx, drawingKey(sessionID), name, drawing); err != nil {
		return fmt.Errorf("failed to save drawing for '%s': %w", name, err)
	}
	return nil
}

func (ds *DrawingService) SavePhoto(ctx context.Context, sessionID, name, photo string) error {
	if err := ds.Store.HashSet(ctx, photoKey(sessionID), name, photo); err != nil {
		return fmt.Errorf("failed to save photo for '%s': %w", name, err)
	}
	return nil
}

func (ds *DrawingService) CastVote(ctx context.Context, sessionID, voter, votedFor string) error {
	if err := ds.Store.HashSet(ctx, voteKey(sessionID), voter, votedFor); err != nil {
		return fmt.Errorf("failed to cast vote for '%s': %w", voter, err)
	}
	return nil
}

// Photos returns the stored photo key per participant name.
func (ds *DrawingService) Photos(ctx context.Context, sessionID string) (map[string]string, error) {
	photos, err := ds.Store.HashGetAll(ctx, photoKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read photos for session '%s': %w", sessionID, err)
	}
	return photos, nil
}

// Tally counts votes per voted-for name and returns the plurality winner
// plus every other participant as a loser. Votes are counted in sorted
// voter-name order; a tie on the top count goes to the candidate counted
// first under that order, which makes the tie-break deterministic. An
// empty vote set means no result yet: empty winner, no losers.
func (ds *DrawingService) Tally(ctx context.Context, sessionID string, participants []string) (string, []string, error) {
	votes, err := ds.Store.HashGetAll(ctx, voteKey(sessionID))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read votes for session '%s': %w", sessionID, err)
	}
	if len(votes) == 0 {
		return "", nil, nil
	}

	voters := make([]string, 0, len(votes))
	for voter := range votes {
		voters = append(voters, voter)
	}
	sort.Strings(voters)

	counts := make(map[string]int, len(votes))
	var seen []string
	for _, voter := range voters {
		votedFor := votes[voter]
		if counts[votedFor] == 0 {
			seen = append(seen, votedFor)
		}
		counts[votedFor]++
	}

	winner := ""
	best := 0
	for _, candidate := range seen {
		if counts[candidate] > best {
			best = counts[candidate]
			winner = candidate
		}
	}

	var losers []string
	for _, name := range participants {
		if name != winner {
			losers = append(losers, name)
		}
	}
	return winner, losers, nil
}

// Clear drops all contest state for the session.
func (ds *DrawingService) Clear(ctx context.Context, sessionID string) {
	_ = ds.Store.Delete(ctx, drawingKey(sessionID))
	_ = ds.Store.Delete(ctx, photoKey(sessionID))
	_ = ds.Store.Delete(ctx, voteKey(sessionID))
}
