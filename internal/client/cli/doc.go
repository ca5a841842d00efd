// Package cli provides the interactive PenaltyBox command-line client.
//
// App wires the session, the API client, the services and the router into a
// read-eval-print loop. Read-only commands navigate to a page; mutating
// commands prompt for their fields, run through views.Modal and reload the
// page that is currently shown.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx is cancelled.
package cli
