// Package common defines shared constants and sentinel errors used across
// the PenaltyBox client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Form-level errors, raised before any request is sent.
	ErrValidation = errors.New("validation error")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionLoading   = errors.New("session is loading")
	ErrSessionDisposed  = errors.New("session disposed")
)
