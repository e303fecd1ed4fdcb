package socket

import (
	"context"
	"log"

	socketio "github.com/googollee/go-socket.io"

	"github.com/won-N-only/egg-talk-server-sub000/models"
	"github.com/won-N-only/egg-talk-server-sub000/services"
)

// clientConnection adapts a socket.io connection to the Connection
// capability the matching core holds.
type clientConnection struct {
	conn socketio.Conn
}

func (c *clientConnection) ID() string {
	return c.conn.ID()
}

func (c *clientConnection) Send(event string, payload interface{}) {
	c.conn.Emit(event, payload)
}

// NewSocketServer wires the live-client events into the queue, session and
// meeting services.
func NewSocketServer(queues *services.QueueService, sessions *services.SessionService, meetings *services.MeetingService, drawings *services.DrawingService) *socketio.Server {
	server := socketio.NewServer(nil)
	ctx := context.Background()

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "joinQueue", func(c socketio.Conn, data map[string]string) {
		name, gender := data["name"], data["gender"]
		if name == "" || (gender != models.GenderMale && gender != models.GenderFemale) {
			log.Println("Invalid joinQueue request from", c.ID())
			return
		}
		if _, err := queues.Admit(ctx, name, &clientConnection{conn: c}, gender); err != nil {
			log.Printf("Admission failed for %s: %v", name, err)
		}
	})

	server.OnEvent("/", "leaveQueue", func(c socketio.Conn, data map[string]string) {
		if err := queues.Evict(ctx, data["name"], data["gender"]); err != nil {
			log.Printf("Eviction failed for %s: %v", data["name"], err)
		}
	})

	server.OnEvent("/", "leaveSession", func(c socketio.Conn, data map[string]string) {
		sessions.RemoveParticipant(ctx, data["sessionId"], data["name"])
	})

	server.OnEvent("/", "choose", func(c socketio.Conn, data map[string]string) {
		sessionID, sender, receiver := data["sessionId"], data["sender"], data["receiver"]
		if err := meetings.RecordChoice(ctx, sessionID, sender, receiver); err != nil {
			log.Printf("Failed to record choice in %s: %v", sessionID, err)
			return
		}
		pairs, err := meetings.MutualMatches(ctx, sessionID)
		if err != nil {
			log.Printf("Failed to resolve matches in %s: %v", sessionID, err)
			return
		}
		for _, pair := range pairs {
			if pair.A == sender || pair.B == sender {
				sessions.Broadcast(sessionID, "chooseResult", pair)
			}
		}
	})

	server.OnEvent("/", "cupid", func(c socketio.Conn, data map[string]string) {
		if err := meetings.SetFlag(ctx, data["sessionId"], services.FlagCupid, data["name"]); err != nil {
			log.Printf("Failed to set cupid flag: %v", err)
		}
	})

	server.OnEvent("/", "lastCupid", func(c socketio.Conn, data map[string]string) {
		if err := meetings.SetFlag(ctx, data["sessionId"], services.FlagLastCupid, data["name"]); err != nil {
			log.Printf("Failed to set lastCupid flag: %v", err)
		}
	})

	// A 1:1 sub-call starts only once both directions accepted.
	server.OnEvent("/", "accept", func(c socketio.Conn, data map[string]string) {
		sessionID, from, to := data["sessionId"], data["from"], data["to"]
		if err := meetings.SetFlag(ctx, sessionID, services.FlagAccept, from, to); err != nil {
			log.Printf("Failed to set accept flag: %v", err)
			return
		}
		reciprocal, err := meetings.HasFlag(ctx, sessionID, services.FlagAccept, to, from)
		if err != nil {
			log.Printf("Failed to check accept flag: %v", err)
			return
		}
		if reciprocal {
			sessions.Broadcast(sessionID, "acceptComplete", models.MatchPair{A: from, B: to})
		}
	})

	server.OnEvent("/", "drawing", func(c socketio.Conn, data map[string]string) {
		if err := drawings.SaveDrawing(ctx, data["sessionId"], data["name"], data["drawing"]); err != nil {
			log.Printf("Failed to save drawing: %v", err)
		}
	})

	server.OnEvent("/", "photo", func(c socketio.Conn, data map[string]string) {
		if err := drawings.SavePhoto(ctx, data["sessionId"], data["name"], data["photo"]); err != nil {
			log.Printf("Failed to save photo: %v", err)
		}
	})

	server.OnEvent("/", "vote", func(c socketio.Conn, data map[string]string) {
		if err := drawings.CastVote(ctx, data["sessionId"], data["voter"], data["votedFor"]); err != nil {
			log.Printf("Failed to cast vote: %v", err)
		}
	})

	server.OnEvent("/", "drawingResult", func(c socketio.Conn, data map[string]string) {
		sessionID := data["sessionId"]
		var names []string
		for _, p := range sessions.ParticipantsOf(sessionID) {
			names = append(names, p.Name)
		}
		winner, losers, err := drawings.Tally(ctx, sessionID, names)
		if err != nil {
			log.Printf("Failed to tally votes in %s: %v", sessionID, err)
			return
		}
		if winner == "" {
			log.Printf("No votes cast yet in %s, skipping result", sessionID)
			return
		}
		sessions.Broadcast(sessionID, "drawingResult", map[string]interface{}{
			"winner": winner,
			"losers": losers,
		})
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return server
}
