package match

import (
	"fmt"

	"github.com/okian/scoreboard/internal/domain/team"
)

// Selector addresses a match either by its id or by its ordered
// (home, away) team pair.
type Selector struct {
	id      int
	home    team.Key
	away    team.Key
	byTeams bool
}

// ByID addresses a match by id.
func ByID(id int) Selector { return Selector{id: id} }

// ByTeams addresses a match by its home and away teams.
func ByTeams(home, away team.Key) Selector {
	return Selector{home: home, away: away, byTeams: true}
}

// ByTeamIDs addresses a match by its home and away team ids.
func ByTeamIDs(homeID, awayID int) Selector {
	return ByTeams(team.ByID(homeID), team.ByID(awayID))
}

// ByTeamNames addresses a match by its home and away team names.
func ByTeamNames(home, away string) Selector {
	return ByTeams(team.ByName(home), team.ByName(away))
}

func (s Selector) String() string {
	if s.byTeams {
		return fmt.Sprintf("match %s vs %s", s.home, s.away)
	}
	return fmt.Sprintf("match ID '%d'", s.id)
}
