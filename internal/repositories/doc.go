// Package repositories implements persistence for track requests.
//
// Key Implementations:
//   - [JSONRequestRepository] : the default store, one pretty-printed JSON array file.
//     A mutex spans each load-modify-save cycle; saves are temp-file + rename.
//   - [SQLiteRequestRepository] : the track_requests table, migrated by [shared.RunMigrations].
//     Dedup comes from the unique uri column and transitions run in transactions.
//
// Both return errors wrapping the shared sentinels: [shared.ErrConflict] on a duplicate insert,
// [shared.ErrNotFound] for a missing uri, [shared.ErrStorage] when the backing data cannot be
// read or written, and [shared.ErrInvalidInput] when a transition would break an invariant.
//
// Use [Open] to pick a backend from configuration.
package repositories
