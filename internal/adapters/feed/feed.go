// Package feed decodes match feed files into scoreboard events.
//
// A feed is a YAML document with a single events list:
//
//	events:
//	  - {kind: register_team, team: Mexico}
//	  - {kind: register_team, team: Canada}
//	  - {kind: register_match, home: Mexico, away: Canada}
//	  - {kind: start_match, home: Mexico, away: Canada}
//	  - {id: goal-1, kind: update_score, match_id: 1, home_score: 0, away_score: 1}
//
// Matches are addressed by match_id when it is set, otherwise by home and away.
package feed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/scoreboard/internal/domain/model"
	"gopkg.in/yaml.v3"
)

type document struct {
	Events []model.Event `yaml:"events"`
}

// Decode reads a feed document and validates every event.
func Decode(r io.Reader) ([]model.Event, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	for i, e := range doc.Events {
		if err := Validate(e); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return doc.Events, nil
}

// DecodeFile decodes the feed stored at path.
func DecodeFile(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes events as a feed document.
func Encode(w io.Writer, events []model.Event) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Events: events}); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// Validate checks that e carries the fields its kind needs.
func Validate(e model.Event) error { //nolint:gocritic // hugeParam: value semantics
	switch e.Kind {
	case model.EventRegisterTeam, model.EventUnregisterTeam:
		if e.Team == "" {
			return fmt.Errorf("%s: team: %w", e.Kind, ErrMissingData)
		}
	case model.EventRegisterMatch:
		if e.Home == "" || e.Away == "" {
			return fmt.Errorf("%s: home and away: %w", e.Kind, ErrMissingData)
		}
	case model.EventStartMatch, model.EventUpdateScore, model.EventFinishMatch, model.EventUnregisterMatch:
		if e.MatchID == 0 && (e.Home == "" || e.Away == "") {
			return fmt.Errorf("%s: match_id or home and away: %w", e.Kind, ErrMissingData)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	return nil
}
