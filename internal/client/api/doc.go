// Package api is the PenaltyBox REST client.
//
// # Overview
//
// HTTPClient is the single configured request object of the application:
//  1. the base URL is fixed at construction,
//  2. the bearer token is read from a TokenSource on every request (the
//     persisted session, not an in-memory copy),
//  3. every request carries an X-Request-ID for log correlation.
//
// There is no retry, queueing or timeout override beyond WithTimeout.
// Every method takes a context.Context; cancelling it aborts the request.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError carrying the status code and
// the backend's {"detail": ...} message. Use errors.Is with ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrBadRequest or ErrServer to classify them;
// transport failures match ErrUnavailable. DetailOr picks the message to show.
//
// A 401 on any call except login and registration fires the hooks
// registered with OnUnauthorized, which the session uses to invalidate itself.
package api
