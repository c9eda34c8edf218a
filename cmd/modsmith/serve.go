// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"modsmith-cli/internal/issue"
	"modsmith-cli/internal/sshserver"

	"github.com/spf13/cobra"
)

var (
	serveHost    string
	servePort    int
	serveHostKey string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive picker over SSH",
		Long: `Serve the interactive picker over SSH.

Starts an SSH server that presents the same checkbox picker as
'modsmith pick' to remote terminals. Each session works on its own
copy of the catalog, so concurrent sessions never see each other's
selections.

Host, port, and catalog default to the configured values.`,
		Example: `  modsmith serve
  modsmith serve --host 0.0.0.0 --port 23234
  ssh -p 23234 localhost`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "address to listen on (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveHostKey, "host-key", "", "path to the SSH host key (generated if absent)")
}

func runServe(cmd *cobra.Command) error {
	cfg := sshserver.DefaultConfig()
	cfg.CatalogPath = sshserver.CatalogSource(resolveCatalogPath())

	if loadedConfig != nil {
		cfg.Host = sshserver.HostAddress(loadedConfig.Serve.Host)
		cfg.Port = int(loadedConfig.Serve.Port)
	}
	if serveHost != "" {
		cfg.Host = sshserver.HostAddress(serveHost)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveHostKey != "" {
		cfg.HostKeyPath = serveHostKey
	}

	srv, err := sshserver.New(cfg)
	if err != nil {
		return err
	}

	if err := srv.Start(cmd.Context()); err != nil {
		if rendered, rerr := issue.Get(issue.TuiServerStartFailedId).Render(themeStylePath()); rerr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
		return err
	}

	fmt.Printf("%s Picker server listening on %s\n", SuccessStyle.Render("✓"), IDStyle.Render(srv.Address()))
	fmt.Println(SubtitleStyle.Render(fmt.Sprintf("  connect with: ssh -p %d %s", srv.Port(), cfg.Host)))
	fmt.Println(SubtitleStyle.Render("  press ctrl+c to stop"))

	// fang forwards the interrupt through the command context; Stop via the
	// context so the server drains sessions before exit.
	go func() {
		<-cmd.Context().Done()
		_ = srv.Stop()
	}()

	return srv.Wait()
}
