// Package relay runs the fetch-and-relay cycle: for each configured account,
// read the cursor, fetch tweets newer than it, render and dispatch them
// oldest first, then advance the cursor and persist the mapping.
//
// The ordering is what makes delivery at-least-once across crashes: the
// cursor moves to the newest fetched id only after the whole page has been
// dispatched, so a crash mid-account re-fetches (and re-posts) rather than
// skips. Accounts are isolated from each other; a failing account keeps its
// cursor and is retried next cycle.
package relay
