package model

import (
	"slices"
	"strconv"
	"strings"
)

// ScoreboardEntry is one ranked row of the scoreboard.
type ScoreboardEntry struct {
	MatchID   int
	Rank      int
	Home      Team
	HomeScore int
	Away      Team
	AwayScore int
}

// String formats the entry as "<rank>. <home> <homeScore> - <away> <awayScore>".
func (e ScoreboardEntry) String() string {
	var b strings.Builder
	e.writeTo(&b)
	return b.String()
}

func (e ScoreboardEntry) writeTo(b *strings.Builder) {
	b.WriteString(strconv.Itoa(e.Rank))
	b.WriteString(". ")
	b.WriteString(e.Home.Name)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(e.HomeScore))
	b.WriteString(" - ")
	b.WriteString(e.Away.Name)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(e.AwayScore))
}

// Summary is the ranked scoreboard, rank ascending. A published Summary is
// shared by every reader and must not be modified; use Clone for a copy
// that may be.
type Summary struct {
	Entries []ScoreboardEntry
}

// Clone returns a copy that shares no memory with s. Clone of nil is an
// empty summary.
func (s *Summary) Clone() *Summary {
	if s.Len() == 0 {
		return &Summary{}
	}
	return &Summary{Entries: slices.Clone(s.Entries)}
}

// Len returns the number of ranked matches.
func (s *Summary) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// String joins the formatted entries with newlines, without a trailing newline.
func (s *Summary) String() string {
	if s.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range s.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		e.writeTo(&b)
	}
	return b.String()
}
