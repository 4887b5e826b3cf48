package app

import "errors"

// Sentinel error kinds for the application service.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrUnknownPeriod = errors.New("unknown period")
	ErrUnknownTopic  = errors.New("unknown topic")
)
