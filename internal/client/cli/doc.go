// Package cli provides the interactive snapdiary command-line client.
//
// It wires configuration, local storage, the API client, the sync
// coordinator and an interactive REPL that supports online/offline
// operation. Typical flow: prompt for credentials, start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Login / Logout (online with offline fallback)
//   - Add / Edit / Delete diary entries, immediately durable offline
//   - List / Show entries, newest first
//   - Refresh from the server; pending-queue status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, connectivity.Watcher, and runREPL for details.
package cli
