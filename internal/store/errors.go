package store

import "errors"

// Sentinel errors callers branch on with errors.Is. A missing profile aborts
// a recommendation request; it is never papered over with defaults.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrCapacityFull    = errors.New("job has no remaining capacity")
)
