package team

import "errors"

// Sentinel kinds for team registry errors. They are always returned wrapped
// with the offending name or id, so match them with errors.Is.
var (
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
	ErrNameInvalid       = errors.New("is invalid")
)
