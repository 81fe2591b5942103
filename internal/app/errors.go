package service

import "errors"

// ErrNotStarted is returned by feed submission before Start or after Stop.
var ErrNotStarted = errors.New("service not started")
