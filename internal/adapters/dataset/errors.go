package dataset

import "errors"

// Sentinel kinds for dataset fetch errors. These allow errors.Is from callers.
var (
	// ErrNoData means no export exists for the requested period and topic.
	ErrNoData = errors.New("no data for selection")

	// ErrUnavailable means the data tree could not be reached or answered
	// with an unexpected status.
	ErrUnavailable = errors.New("dataset unavailable")

	// ErrDecode means the resource existed but was not valid JSON of the
	// expected shape.
	ErrDecode = errors.New("dataset decode failed")
)
