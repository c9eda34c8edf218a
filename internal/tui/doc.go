// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive mod picker built on Charm libraries.
//
// The picker is a Bubble Tea model over a catalog and its selection engine:
// moving the cursor and toggling checkboxes drives the same propagation rules
// as the CLI commands, so every keypress leaves the selection consistent.
// The model is embeddable, which lets the SSH picker server reuse it per
// session.
package tui
