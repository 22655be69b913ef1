package leads

import "errors"

var (
	// ErrMissingSession is returned when a capture has no session id.
	ErrMissingSession = errors.New("leads: session id is required")

	// ErrMissingDealer is returned when a capture has no dealer id.
	ErrMissingDealer = errors.New("leads: dealer id is required")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("leads: lead not found")
)
