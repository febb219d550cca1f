// Package services talks to the YouTube Data API v3.
//
// # Interfaces
//
// Three narrow interfaces cover everything the sync engine needs:
//   - [ArtistLookup] resolves a search name to a channel
//   - [SubscriptionReader] snapshots the account's current subscriptions
//   - [SubscriptionWriter] creates new subscriptions
//
// [YouTubeService] implements all three. The engine and the cache-backed
// resolver depend on the interfaces, so tests substitute in-memory fakes
// without any HTTP traffic.
//
// # Authentication
//
// Two strategies, selected at construction:
//   - [AuthAPIKey] appends the key as a query parameter. Sufficient for
//     search, which is the only call the resolve command needs.
//   - [AuthOAuth] relies on an [oauth2]-wrapped HTTP client that injects and
//     refreshes the bearer token. Required for listing the user's own
//     subscriptions and for subscribing.
//
// Calling a mine-scoped or mutating endpoint under [AuthAPIKey] fails fast
// with [shared.ErrNotAuthenticated] before any request is sent.
//
// # Error Handling
//
// Remote failures wrap sentinels from the shared package:
//   - [shared.ErrAuthFailed] : 401 responses
//   - [shared.ErrQuotaExceeded] : 403 quota errors
//   - [shared.ErrAPIRequest] : any other non-2xx response
//
// A search that completes but matches nothing returns (nil, nil): not found
// is a terminal outcome for a target, not an error.
package services
