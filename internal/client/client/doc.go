// Package client contains client-side building blocks for snapdiary.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the diary backend: Register/Login, Ping, entry CRUD, and the
//     group-scoped insert used by sharing fan-out.
//  2. A concrete HTTP implementation (see HTTPClient) that manages the
//     access/refresh token pair, transparently refreshes expired tokens,
//     and maps response statuses to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound. The sync
// layer does not distinguish why a remote call failed, only that it failed.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
