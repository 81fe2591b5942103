package worker

import "errors"

// ErrStopped is returned by Shutdown when the worker was already shut down.
var ErrStopped = errors.New("worker stopped")
