// Package repositories implements SQLite persistence for saved characters.
//
// [CharacterRepository] handles row-level CRUD with atomic sequence generation for stable ordering.
// Unfavoriting soft-deletes a row via its deleted_at timestamp; soft-deleted rows are invisible to every read
// and are revived in place when the character is saved again, so the table holds at most one row per id.
//
// Every committed write is announced on a [ChangeFeed]. Subscribers watch either one id or the whole table
// and receive coalesced signals: a pending signal means "re-read the latest state", not "one signal per write".
//
// Sequence numbers provide stable, human-readable ordering independent of ids and creation timestamps.
// [NextSequence] increments the per-table counter inside the caller's transaction.
package repositories
