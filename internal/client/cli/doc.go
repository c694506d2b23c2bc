// Package cli provides the interactive resumefit command-line client.
//
// It wires configuration, the local credential store, the HTTP API client,
// the session manager and the analysis workflow behind a small REPL. App is
// both the notifier and the navigator of the two state machines: toasts are
// printed as "[kind] Title: message" lines, and the current screen (sign-in
// or dashboard) gates which commands make sense.
//
// Key features:
//   - Register / Login / Logout, with the session restored on start-up
//   - Analyze a PDF resume against a job title and description or a job URL,
//     with progress narration while the service works
//   - Reset the current analysis, show Status
//   - Background health checks switching the prompt between online/offline
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
