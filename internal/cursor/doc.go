// Package cursor persists, per account, the id of the most recently relayed
// tweet so a restart neither re-posts the whole timeline nor skips posts.
//
// Backends:
//   - File: a YAML map of case-folded handle -> tweet id, replaced atomically
//   - SQLite: a single cursors table, replaced wholesale in one transaction
//
// A store that was never written loads as an empty mapping, not an error.
// A single relay process owns the store for its lifetime; there is no
// concurrent-writer handling.
package cursor
