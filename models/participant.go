package models

// Gender values carried by queue entries
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Participant is one waiting or matched user. Name is the human-facing
// handle and is unique across both queues; ConnectionID ties the entry
// back to its live transport connection.
type Participant struct {
	Name         string `json:"name"`
	ConnectionID string `json:"connectionId"`
	Gender       string `json:"gender"`
}

// Connection is the capability the core holds on a live client. Send is
// fire-and-forget; delivery failures are the transport's problem.
type Connection interface {
	ID() string
	Send(event string, payload interface{})
}
