// Package services contains the mutating workflows behind the client's
// forms and dialogs.
//
// Every operation validates its input locally first and returns a
// *ValidationError without touching the network when that fails. Otherwise
// it issues exactly one API call. Backend failures come back as
// *ActionError whose Message is ready to show: a per-feature text for some
// status codes, else the backend's detail, else a generic fallback.
package services
