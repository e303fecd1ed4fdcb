package models

import "time"

// Session stages, in the order the timer advances through them.
const (
	StageCreated        = "created"
	StageIntroduce      = "introduce"
	StageKeyword        = "keyword"
	StageCupidTime      = "cupidTime"
	StageCam            = "cam"
	StageDrawingContest = "drawingContest"
	StageLastCupidTime  = "lastCupidTime"
	StageFinished       = "finished"
)

// Event names delivered to participant connections.
const (
	EventStartCall      = "startCall"
	EventIntroduce      = "introduce"
	EventKeyword        = "keyword"
	EventCupidTime      = "cupidTime"
	EventCam            = "cam"
	EventDrawingContest = "drawingContest"
	EventLastCupidTime  = "lastCupidTime"
	EventFinish         = "finish"
)

// ScheduleEntry fires Event at Tick elapsed ticks and moves the session
// to Stage. One tick is half a schedule minute (see services.TimerService).
type ScheduleEntry struct {
	Tick  int
	Stage string
	Event string
}

// StageSchedule is the fixed per-session schedule: introduce at 0.5 min,
// keyword at 2.5, cupidTime at 4, cam at 6, drawingContest at 6.5,
// lastCupidTime at 8.5 and finish at 9.
var StageSchedule = []ScheduleEntry{
	{Tick: 1, Stage: StageIntroduce, Event: EventIntroduce},
	{Tick: 5, Stage: StageKeyword, Event: EventKeyword},
	{Tick: 8, Stage: StageCupidTime, Event: EventCupidTime},
	{Tick: 12, Stage: StageCam, Event: EventCam},
	{Tick: 13, Stage: StageDrawingContest, Event: EventDrawingContest},
	{Tick: 17, Stage: StageLastCupidTime, Event: EventLastCupidTime},
	{Tick: 18, Stage: StageFinished, Event: EventFinish},
}

// Session is the shared runtime context of one matched group.
type Session struct {
	ID              string        `json:"sessionId"`
	Stage           string        `json:"stage"`
	Participants    []Participant `json:"participants"`
	ProviderSession string        `json:"-"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// MatchPair is one mutual 1:1 choice inside a session.
type MatchPair struct {
	A string `json:"a"`
	B string `json:"b"`
}
