// Package repositories provides the SQLite persistence layer.
//
// [ArtistCacheRepository] stores resolved artists keyed by normalized search
// name, with an atomic full-row upsert so a refresh can never leave a row
// half-written. [SyncRunRepository] records one row per completed sync run
// for the history command, with sequence generation for human-readable
// ordering.
//
// Storage failures wrap [shared.ErrCacheUnavailable] and are fatal for a run;
// only an absent row reads as [shared.ErrCacheMiss].
package repositories
