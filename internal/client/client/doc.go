// Package client contains the client-side transport for the resume analysis
// service and the local database bootstrap.
//
// # Overview
//
// The package provides:
//  1. Small API contracts consumed by the state machines: Authenticator
//     (Login, Signup) for the session layer and Analyzer (SubmitApplication)
//     for the analysis workflow. Client combines them with Ping and Close.
//  2. HTTPClient, the concrete implementation over net/http: JSON bodies
//     for the auth endpoints, a bearer-authorized multipart upload for
//     submissions, and a health probe.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite database and applies embedded goose migrations.
//
// # Error Handling
//
// Failures are reported with sentinels matched by errors.Is:
// ErrUnavailable (the service could not be reached), ErrUnauthorized
// (401/403) and ErrMalformedResponse (the body could not be decoded or
// lacks required fields). Any other non-2xx answer is a *ServerError
// carrying the status and the server-supplied message, if one was sent.
//
// All operations accept a context.Context and honor cancellation.
package client
