// Package models defines the client-side copies of backend-owned PenaltyBox
// entities and the derived views (filters, totals, counts) computed from
// fetched slices.
//
// Nothing here is cached between views: every page re-fetches on mount and
// recomputes derived values from the latest response.
package models
