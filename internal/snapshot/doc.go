// Package snapshot implements dotkeep's backup retention and mirroring engine.
//
// The engine has four parts:
//
//   - Store manages the timestamped generations of each tracked item under
//     the backup root. Generations are immutable once created and are only
//     ever deleted whole.
//   - SelectEvictions is the pure retention policy: keep the N newest
//     generations, evict the rest.
//   - Publisher maintains the single "latest" copy of each item under
//     <backupRoot>/for-git, replacing it wholesale on every successful
//     backup. The mirror is a convenience projection; generation history is
//     the source of truth, so a publish failure never invalidates the
//     generation it follows.
//   - Runner drives a batch: one shared timestamp, then per item
//     create-generation, publish-mirror, apply-retention. A single item's
//     failure never aborts the batch.
//
// Everything is sequential and synchronous. Concurrent runs against the same
// backup tree are unsupported.
package snapshot
