package scoreboard

import (
	"cmp"

	"github.com/okian/scoreboard/internal/domain/model"
)

// Compare orders matches for the summary: higher total score first, then the
// most recently started, then the higher match id. It returns a negative
// number when a ranks above b.
func Compare(a, b model.Match) int {
	if c := cmp.Compare(b.TotalScore(), a.TotalScore()); c != 0 {
		return c
	}
	if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}
