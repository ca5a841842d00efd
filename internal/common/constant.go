// Package common contains shared constants and sentinel errors used across
// PenaltyBox client components.
package common

// Keys under which the durable client state is stored. These mirror the two
// browser local-storage entries of the web client.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// AuthorizationHeader and BearerPrefix build the header attached to every
// outbound API request when a token is present.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-ID"
)
