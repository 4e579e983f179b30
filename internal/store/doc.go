// Package store provides persistence for inkpost entities.
//
// # Entities
//
// The store owns three entity families:
//
//   - Users: login identity with a bcrypt password hash and a role
//     (USER or ADMIN). Usernames are unique, enforced by the storage
//     layer itself via a UNIQUE index.
//
//   - Posts: blog posts with title, Markdown content, an author
//     reference, a published flag, and an optional image URL.
//
//   - Comments: per-post comments with an author reference.
//
// # Contracts
//
// Lookups for absent rows return ErrNotFound rather than a generic
// error, and writes targeting absent rows do the same, so callers can
// distinguish "no such row" from a persistence failure and map it to
// 404 at the HTTP layer.
//
// There is deliberately no cascading delete: removing a user or post
// leaves dependent rows dangling, and read paths resolve missing
// authors to a placeholder name.
//
// # Implementation
//
// SQLiteStore is the only implementation, backed by modernc.org/sqlite
// with WAL mode and the schema created at open. TogglePublished flips
// the published flag inside a single UPDATE statement, so concurrent
// toggles on the same post never act on a stale read.
package store
