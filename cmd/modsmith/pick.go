// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"modsmith-cli/internal/tui"

	"github.com/spf13/cobra"
)

var (
	pickWrite bool

	pickCmd = &cobra.Command{
		Use:   "pick",
		Short: "Pick entries interactively",
		Long: `Pick entries interactively.

Opens a full-screen checkbox picker over the catalog. Every toggle
cascades through the dependency and restriction graph immediately, so
the displayed selection is always consistent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			ids, err := tui.RunPicker(tui.PickerOptions{
				Catalog: cat,
				Logger:  newCommandLogger(),
			})
			if err != nil {
				return err
			}
			if ids == nil {
				fmt.Println(SubtitleStyle.Render("Aborted, selection unchanged"))
				return nil
			}

			fmt.Printf("%s %d entries selected\n", SuccessStyle.Render("✓"), len(ids))
			for _, id := range ids {
				fmt.Printf("  %s\n", IDStyle.Render(id))
			}

			if pickWrite {
				return writeCatalog(cat)
			}
			return nil
		},
	}
)

func init() {
	pickCmd.Flags().BoolVar(&pickWrite, "write", false, "write the resulting selection back to the catalog file")
}
