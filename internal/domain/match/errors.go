package match

import "errors"

// Sentinel kinds for match registry errors. They are returned wrapped with
// the match id or team names; match them with errors.Is.
var (
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
	ErrSameTeam          = errors.New("home and away must be different teams")
	ErrInvalidScore      = errors.New("score must not be negative")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)
