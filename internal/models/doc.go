// Package models defines domain entities for the subscription sync engine.
//
// The package contains two categories of types:
//
// 1. Run-scoped values produced and consumed during a single sync:
//   - [ArtistTarget] : A requested subscription target parsed from the artists file
//   - [ResolvedArtist] : A target matched to a concrete YouTube channel
//   - [SubscriptionSet] : Snapshot of currently subscribed channel IDs
//   - [SyncAction] / [SyncResult] : The planned actions and their outcomes
//
// 2. Persistent entities backed by the local SQLite database:
//   - [CacheEntry] : A cached artist resolution keyed by normalized search name
//   - [SyncRun] : A historical record of one sync run and its counts
package models
