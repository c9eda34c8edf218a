// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on.
//
// It defines error types carrying remediation steps alongside a registry of
// Markdown-formatted guidance pages for the failure modes the CLI can hit,
// rendered with glamour at display time.
package issue
