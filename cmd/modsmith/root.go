// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"modsmith-cli/internal/catalog"
	"modsmith-cli/internal/config"
	"modsmith-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// catalogFile allows specifying a custom catalog file
	catalogFile string

	// loadedConfig is the configuration resolved by initRootConfig.
	loadedConfig *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "modsmith",
		Short: "A consistency-keeping mod installation manager",
		Long: TitleStyle.Render("modsmith") + SubtitleStyle.Render(" - A consistency-keeping mod installation manager") + `

modsmith manages game-mod installations from a catalog of components
and options. Selecting an entry pulls in its dependencies and pushes
out anything it conflicts with, so the set you install is always
consistent with the declared graph, even when the graph has cycles.

Catalogs are defined in TOML and describe components, their options,
install tiers, and categories.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Write a catalog.toml describing your mod build
  2. Pick entries interactively with: modsmith pick
  3. Or drive selection directly: modsmith select <id>

` + SubtitleStyle.Render("Examples:") + `
  modsmith list                 Show the catalog and selection state
  modsmith select base-pack     Select an entry and its dependencies
  modsmith pick                 Interactive checkbox picker
  modsmith validate             Lint the catalog and report cycles
  modsmith serve                Serve the picker over SSH`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/modsmith/config.toml)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog file (default is ./catalog.toml)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(deselectCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	loadedConfig = cfg

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// resolveCatalogPath picks the catalog file for this invocation: the --catalog
// flag wins, then the configured default, then ./catalog.toml.
func resolveCatalogPath() string {
	if catalogFile != "" {
		return catalogFile
	}
	if loadedConfig != nil && loadedConfig.Catalog.Path != "" {
		return loadedConfig.Catalog.Path.String()
	}
	return "catalog.toml"
}

// loadCatalog loads the resolved catalog file, wrapping failures with
// actionable guidance.
func loadCatalog() (*catalog.Catalog, error) {
	path := resolveCatalogPath()
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load catalog").
			WithResource(path).
			WithSuggestions(
				fmt.Sprintf("Check that '%s' exists and is readable", path),
				"Point at a different file with --catalog <path>",
				"Set a default with 'modsmith config set catalog.path <path>'",
			).
			Wrap(err).
			BuildError()
	}
	return cat, nil
}

// newCommandLogger builds the slog logger shared by engine-driving commands.
// Verbose mode surfaces the engine's debug records (unknown references and
// skipped nodes); otherwise only warnings reach the terminal.
func newCommandLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
