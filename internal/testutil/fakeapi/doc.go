// Package fakeapi is an in-memory PenaltyBox backend for tests.
//
// It serves the same routes as the real API on an httptest server, keeps
// every request for assertions and can be told to fail a route with a
// given status and detail.
package fakeapi
