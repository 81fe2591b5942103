package model

// EventKind names the registry operation a feed event requests.
type EventKind string

// Feed event kinds.
const (
	EventRegisterTeam    EventKind = "register_team"
	EventUnregisterTeam  EventKind = "unregister_team"
	EventRegisterMatch   EventKind = "register_match"
	EventStartMatch      EventKind = "start_match"
	EventUpdateScore     EventKind = "update_score"
	EventFinishMatch     EventKind = "finish_match"
	EventUnregisterMatch EventKind = "unregister_match"
)

// Event is one entry of a match feed. Match events address the match by
// MatchID when it is non-zero, otherwise by the Home/Away team names.
type Event struct {
	ID        string    `yaml:"id,omitempty"`
	Kind      EventKind `yaml:"kind"`
	Team      string    `yaml:"team,omitempty"`
	Home      string    `yaml:"home,omitempty"`
	Away      string    `yaml:"away,omitempty"`
	MatchID   int       `yaml:"match_id,omitempty"`
	HomeScore int       `yaml:"home_score,omitempty"`
	AwayScore int       `yaml:"away_score,omitempty"`
}
