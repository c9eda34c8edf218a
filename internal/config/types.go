// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ThemeAuto detects the terminal color scheme automatically.
	ThemeAuto Theme = "auto"
	// ThemeDark forces the dark color scheme.
	ThemeDark Theme = "dark"
	// ThemeLight forces the light color scheme.
	ThemeLight Theme = "light"
)

var (
	// ErrInvalidTheme is returned when a Theme value is not recognized.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidCatalogPath is returned when a CatalogPath value is whitespace-only.
	ErrInvalidCatalogPath = errors.New("invalid catalog path")
	// ErrInvalidListenPort is returned when a ListenPort value is out of range.
	ErrInvalidListenPort = errors.New("invalid listen port")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidServeConfig is the sentinel error wrapped by InvalidServeConfigError.
	ErrInvalidServeConfig = errors.New("invalid serve config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Theme specifies the terminal color scheme preference.
	Theme string

	// InvalidThemeError is returned when a Theme value is not recognized.
	// It wraps ErrInvalidTheme for errors.Is() compatibility.
	InvalidThemeError struct {
		Value Theme
	}

	// CatalogPath represents a filesystem path to a catalog file.
	// The zero value ("") is valid and means "no default catalog".
	// Non-zero values must not be whitespace-only.
	CatalogPath string

	// InvalidCatalogPathError is returned when a CatalogPath value is
	// non-empty but whitespace-only.
	InvalidCatalogPathError struct {
		Value CatalogPath
	}

	// ListenPort represents a TCP port for the picker server.
	ListenPort int

	// InvalidListenPortError is returned when a ListenPort value is outside
	// the valid TCP range. It wraps ErrInvalidListenPort for errors.Is().
	InvalidListenPortError struct {
		Value ListenPort
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidServeConfigError is returned when a ServeConfig has invalid fields.
	// It wraps ErrInvalidServeConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidServeConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Catalog configures where the default catalog lives.
		Catalog CatalogConfig `json:"catalog" toml:"catalog" mapstructure:"catalog"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" toml:"ui" mapstructure:"ui"`
		// Serve configures the SSH picker server.
		Serve ServeConfig `json:"serve" toml:"serve" mapstructure:"serve"`
	}

	// CatalogConfig configures catalog discovery.
	CatalogConfig struct {
		// Path is the default catalog file loaded when --catalog is not given.
		Path CatalogPath `json:"path" toml:"path" mapstructure:"path"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Theme sets the color scheme.
		Theme Theme `json:"theme" toml:"theme" mapstructure:"theme"`
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" toml:"verbose" mapstructure:"verbose"`
	}

	// ServeConfig configures the SSH picker server.
	ServeConfig struct {
		// Host is the address the picker server binds to.
		Host string `json:"host" toml:"host" mapstructure:"host"`
		// Port is the TCP port the picker server listens on.
		Port ListenPort `json:"port" toml:"port" mapstructure:"port"`
	}
)

// IsValid returns whether the UIConfig has valid fields.
// It delegates to Theme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Theme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the ServeConfig has valid fields.
// It delegates to Port.IsValid(); Host accepts any value (the zero value
// binds to all interfaces).
func (c ServeConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Port.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidServeConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServeConfigError.
func (e *InvalidServeConfigError) Error() string {
	return fmt.Sprintf("invalid serve config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServeConfig for errors.Is() compatibility.
func (e *InvalidServeConfigError) Unwrap() error { return ErrInvalidServeConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Catalog.Path.IsValid(), UI.IsValid(), and Serve.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Catalog.Path.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Serve.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the CatalogPath.
func (p CatalogPath) String() string { return string(p) }

// IsValid returns whether the CatalogPath is valid.
// The zero value ("") is valid (means "no default catalog").
// Non-zero values must not be whitespace-only.
func (p CatalogPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCatalogPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCatalogPathError.
func (e *InvalidCatalogPathError) Error() string {
	return fmt.Sprintf("invalid catalog path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidCatalogPath for errors.Is() compatibility.
func (e *InvalidCatalogPathError) Unwrap() error { return ErrInvalidCatalogPath }

// Error implements the error interface for InvalidListenPortError.
func (e *InvalidListenPortError) Error() string {
	return fmt.Sprintf("invalid listen port %d (valid: 1-65535)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidListenPortError) Unwrap() error {
	return ErrInvalidListenPort
}

// IsValid returns whether the ListenPort is within the valid TCP range,
// and a list of validation errors if it is not.
func (p ListenPort) IsValid() (bool, []error) {
	if p < 1 || p > 65535 {
		return false, []error{&InvalidListenPortError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidThemeError.
func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidThemeError) Unwrap() error {
	return ErrInvalidTheme
}

// String returns the string representation of the Theme.
func (th Theme) String() string { return string(th) }

// IsValid returns whether the Theme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (th Theme) IsValid() (bool, []error) {
	switch th {
	case ThemeAuto, ThemeDark, ThemeLight:
		return true, nil
	default:
		return false, []error{&InvalidThemeError{Value: th}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: "", // Falls back to catalog.toml in the current directory
		},
		UI: UIConfig{
			Theme:   ThemeAuto,
			Verbose: false,
		},
		Serve: ServeConfig{
			Host: "localhost",
			Port: 23234,
		},
	}
}
