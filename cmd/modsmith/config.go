// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"modsmith-cli/internal/config"
	"modsmith-cli/internal/issue"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage modsmith configuration",
	Long: `Manage modsmith configuration.

Configuration is stored in:
  - Linux: ~/.config/modsmith/config.toml
  - macOS: ~/Library/Application Support/modsmith/config.toml
  - Windows: %APPDATA%\modsmith\config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				return err
			}

			tomlContent, err := config.GenerateTOML(cfg)
			if err != nil {
				return err
			}
			fmt.Print(tomlContent)
			return nil
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render(themeStylePath())
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	keyStyle := IDStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil {
		cfgPath := filepath.Join(cfgDir, "config.toml")
		if fileExistsCheck(cfgPath) {
			fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
		} else {
			fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
		}
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("catalog"))
	if cfg.Catalog.Path == "" {
		fmt.Printf("  path: %s\n", SubtitleStyle.Render("(not configured, using ./catalog.toml)"))
	} else {
		fmt.Printf("  path: %s\n", valueStyle.Render(cfg.Catalog.Path.String()))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  theme: %s\n", valueStyle.Render(cfg.UI.Theme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("serve"))
	fmt.Printf("  host: %s\n", valueStyle.Render(cfg.Serve.Host))
	fmt.Printf("  port: %s\n", valueStyle.Render(strconv.Itoa(int(cfg.Serve.Port))))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"), filepath.Join(cfgDir, "config.toml"))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, "config.toml"))
	return nil
}

func setConfigValue(ctx context.Context, key, value string) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}

	switch key {
	case "catalog.path":
		cfg.Catalog.Path = config.CatalogPath(value)

	case "ui.theme":
		theme := config.Theme(value)
		if ok, errs := theme.IsValid(); !ok {
			return errs[0]
		}
		cfg.UI.Theme = theme

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "serve.host":
		cfg.Serve.Host = value

	case "serve.port":
		port, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("invalid serve.port: %w", convErr)
		}
		listenPort := config.ListenPort(port)
		if ok, errs := listenPort.IsValid(); !ok {
			return errs[0]
		}
		cfg.Serve.Port = listenPort

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: catalog.path, ui.theme, ui.verbose, serve.host, serve.port", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
