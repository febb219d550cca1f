// Package tasks implements the subscription sync pipeline.
//
// A run moves through four stages, each its own unit:
//   - [ParseTargets] reads the artists file into targets
//   - [CachedResolver] maps each target name to a channel, consulting the
//     SQLite cache before the remote service
//   - [BuildPlan] classifies every target against a subscription snapshot
//     into subscribe, already-subscribed, or unresolved actions
//   - [Executor] carries the plan out, rate-limited, dry-run by default
//
// [SyncEngine] wires the stages together. Long-running operations emit
// [ProgressUpdate] values on a channel for non-blocking status reporting to
// the CLI and TUI layers.
//
// Failure handling is deliberately two-tier: a single target failing to
// resolve or subscribe never aborts the run (it becomes an unresolved action
// or a failed outcome), while cache storage errors and context cancellation
// abort immediately.
package tasks
