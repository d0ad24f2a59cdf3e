// Package store provides the persistent local key-value store used by the
// recipe book.
//
// The store keeps one row per key in a single `kv` table. Values are opaque
// strings that are always overwritten as a whole; there are no partial
// writes and no value versioning.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version and applied on Open.
//
// Memory offers the same KV contract without a database file.
package store
