// Package server provides the localhost HTTP plumbing for the OAuth login flow.
//
// # Router Infrastructure
//
// [BasicRouter] serves the callback routes over an [http.ServeMux] and rejects
// non-GET requests.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow
// against Google's endpoints.
//
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `ytsync auth login`, a temporary HTTP server starts on
// the configured redirect port, the browser completes Google's consent
// screen, and the server shuts down after receiving the token. [TokenStore]
// persists the token to disk so later invocations skip the browser entirely.
package server
