// Package client is the console's transport to the Cre8tlyStudio admin API.
//
// # Overview
//
// The package provides:
//  1. The Client interface the admin services are written against.
//  2. HTTPClient, a JSON-over-HTTP implementation that attaches the bearer
//     token held by the session manager, tags every request with an
//     X-Request-ID, and recovers from an expired access token by refreshing
//     once and resending the original request.
//  3. Local persistence bootstrap (InitStateStore, RunMigrations) wiring the
//     SQLite state database and its embedded goose migrations.
//
// # Error Handling
//
// Transport failures and timeouts are reported as ErrUnavailable. Non-2xx
// answers come back as *APIError, which matches ErrUnauthorized (401/403)
// and ErrRateLimited (429) under errors.Is. A request whose credential could
// not be refreshed fails with *SessionExpiredError, matching
// ErrSessionExpired.
//
// # Concurrency
//
// HTTPClient is safe for concurrent use. Concurrent requests that hit an
// expired token share a single refresh; see package session.
package client
