// Package cli implements the adminctl console.
//
// App wires configuration, the persisted session, the API gateway and the
// domain services. Every action is a command that can be run once from the
// command tree (NewRootCmd) or interactively from the shell, which also
// keeps a background connectivity watcher that tracks online, offline and
// maintenance modes.
//
// When a token refresh fails the session manager calls App.ToLogin, which
// tells the admin to log in again; the next successful login clears that
// state.
package cli
