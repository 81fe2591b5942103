package config

import "errors"

// Returned wrapped; match with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid scoreboard config")
	ErrLoadConfig    = errors.New("cannot load scoreboard config")
)
