// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as the file format.
//
// Configuration is loaded from ~/.config/modsmith/config.toml (or XDG equivalent on Linux,
// ~/Library/Application Support/modsmith/config.toml on macOS, %APPDATA%\modsmith\config.toml
// on Windows). The package provides type-safe configuration access covering the default
// catalog path, UI settings, and the picker server's listen address.
package config
