// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the interactive mod picker over SSH using the
// Wish library.
//
// Each SSH session gets its own copy of the catalog and its own selection
// engine, so concurrent users never share selection state. The lifecycle
// follows an explicit state machine: Created, Starting, Running, Stopping,
// Stopped, Failed.
package sshserver
