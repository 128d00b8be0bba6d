// Package store provides the SQLite-backed run journal.
//
// The journal is append-only:
//   - runs: one row per script run (run id, script path and hash,
//     format/engine versions, random seed, final status and error)
//   - transcript: console events of each run (out, in, prompt)
//
// # Ordering
//
// Transcript rows are ordered by seq, a logical clock value assigned by the
// runner, never by wall-clock time. Runs are ordered by id; run ids are
// UUIDv7 and therefore sort by creation time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Script hashes are computed by value.ScriptHash (NFC-normalized SHA-256
// with domain separation).
package store
