// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidHostAddress is the sentinel error wrapped by InvalidHostAddressError.
	ErrInvalidHostAddress = errors.New("invalid host address")
	// ErrInvalidCatalogSource is the sentinel error wrapped by InvalidCatalogSourceError.
	ErrInvalidCatalogSource = errors.New("invalid catalog source")
	// ErrInvalidServerConfig is the sentinel error wrapped by InvalidServerConfigError.
	ErrInvalidServerConfig = errors.New("invalid picker server config")
)

type (
	// HostAddress represents a network host address (IP or hostname) for server binding.
	// A valid address must be non-empty and not whitespace-only.
	HostAddress string

	// CatalogSource represents the filesystem path of the catalog served to
	// SSH sessions. A valid source must be non-empty and not whitespace-only.
	CatalogSource string

	// InvalidHostAddressError is returned when a HostAddress value is
	// empty or whitespace-only.
	InvalidHostAddressError struct {
		Value HostAddress
	}

	// InvalidCatalogSourceError is returned when a CatalogSource value is
	// empty or whitespace-only.
	InvalidCatalogSourceError struct {
		Value CatalogSource
	}

	// InvalidServerConfigError is returned when a server Config has invalid fields.
	// It wraps ErrInvalidServerConfig for errors.Is() compatibility and collects
	// field-level validation errors from Host and CatalogPath.
	InvalidServerConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the HostAddress.
func (h HostAddress) String() string { return string(h) }

// Validate returns nil if the HostAddress is valid (non-empty and not whitespace-only),
// or an error wrapping ErrInvalidHostAddress if it is not.
func (h HostAddress) Validate() error {
	if strings.TrimSpace(string(h)) == "" {
		return &InvalidHostAddressError{Value: h}
	}
	return nil
}

// String returns the string representation of the CatalogSource.
func (c CatalogSource) String() string { return string(c) }

// Validate returns nil if the CatalogSource is valid (non-empty and not whitespace-only),
// or an error wrapping ErrInvalidCatalogSource if it is not.
func (c CatalogSource) Validate() error {
	if strings.TrimSpace(string(c)) == "" {
		return &InvalidCatalogSourceError{Value: c}
	}
	return nil
}

// Error implements the error interface for InvalidHostAddressError.
func (e *InvalidHostAddressError) Error() string {
	return fmt.Sprintf("invalid host address %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidHostAddress for errors.Is() compatibility.
func (e *InvalidHostAddressError) Unwrap() error { return ErrInvalidHostAddress }

// Error implements the error interface for InvalidCatalogSourceError.
func (e *InvalidCatalogSourceError) Error() string {
	return fmt.Sprintf("invalid catalog source %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidCatalogSource for errors.Is() compatibility.
func (e *InvalidCatalogSourceError) Unwrap() error { return ErrInvalidCatalogSource }

// Error implements the error interface for InvalidServerConfigError.
func (e *InvalidServerConfigError) Error() string {
	return fmt.Sprintf("invalid picker server config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServerConfig for errors.Is() compatibility.
func (e *InvalidServerConfigError) Unwrap() error { return ErrInvalidServerConfig }
