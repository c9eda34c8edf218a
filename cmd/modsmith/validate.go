// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"modsmith-cli/internal/catalog"
	"modsmith-cli/internal/graphcheck"
	"modsmith-cli/internal/issue"

	"github.com/spf13/cobra"
)

var (
	validateStrict bool

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog for structural and graph problems",
		Long: `Check the catalog for structural and graph problems.

Structural errors (duplicate ids, missing names, undeclared tiers)
fail the load outright. Dangling references and dependency cycles are
reported as warnings: the selection engine tolerates both at runtime.
With --strict, warnings fail the command too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
)

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
}

func runValidate() error {
	path := resolveCatalogPath()
	cat, err := catalog.Load(path)
	if err != nil {
		printCatalogLoadIssue(err)
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Printf("%s Catalog %s loaded: %d components, %d entries\n",
		SuccessStyle.Render("✓"), IDStyle.Render(path), cat.ComponentCount(), cat.NodeCount())

	warnings := 0

	findings := cat.Lint()
	for _, f := range findings {
		fmt.Printf("%s %s\n", WarningStyle.Render("warning:"), f)
	}
	warnings += len(findings)

	if _, err := graphcheck.FromCatalog(cat).InstallOrder(); err != nil {
		var cycleErr *graphcheck.CycleError
		if errors.As(err, &cycleErr) {
			fmt.Printf("%s dependency cycle: %s\n",
				WarningStyle.Render("warning:"), IDStyle.Render(strings.Join(cycleErr.Cycle, " -> ")))
			fmt.Println(SubtitleStyle.Render("  cycles are tolerated at runtime but prevent a total install order"))
			warnings++
		} else {
			return err
		}
	}

	if warnings == 0 {
		fmt.Println(SuccessStyle.Render("✓") + " No problems found")
		return nil
	}

	fmt.Println()
	fmt.Printf("%s\n", WarningStyle.Render(fmt.Sprintf("%d warning(s)", warnings)))
	if validateStrict {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d validation warning(s)", warnings)}
	}
	return nil
}

// printCatalogLoadIssue renders the guidance page matching the load failure.
func printCatalogLoadIssue(err error) {
	id := issue.CatalogParseErrorId
	switch {
	case errors.Is(err, os.ErrNotExist):
		id = issue.CatalogNotFoundId
	case errors.Is(err, catalog.ErrDuplicateID):
		id = issue.DuplicateEntryId
	}
	if rendered, rerr := issue.Get(id).Render(themeStylePath()); rerr == nil {
		fmt.Fprint(os.Stderr, rendered)
	}
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
}
