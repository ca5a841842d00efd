// Package views implements the client's pages.
//
// A page fetches everything it shows in Load, running independent reads
// concurrently. A read that fails is logged, reported with an error toast
// and leaves its part of the page empty; it never aborts the page. Counts,
// totals and filtered lists are derived while rendering from the fetched
// slices. Reload is the single refresh entry point and simply runs Load
// again; mutating actions go through Modal, which calls it on success.
package views
