// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"modsmith-cli/internal/catalog"
	"modsmith-cli/internal/issue"
	"modsmith-cli/internal/selection"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	selectAll        bool
	selectTier       string
	selectCategories []string
	selectWrite      bool

	deselectAll   bool
	deselectWrite bool

	selectCmd = &cobra.Command{
		Use:   "select [id...]",
		Short: "Select catalog entries and cascade their dependencies",
		Long: `Select catalog entries and cascade their dependencies.

Selecting an entry also selects everything it depends on and deselects
everything it conflicts with. The final selection is always consistent
with the catalog's dependency and restriction graph.`,
		Example: `  modsmith select base-pack
  modsmith select hd-textures lighting-overhaul
  modsmith select --all
  modsmith select --tier essential
  modsmith select --category visuals --category audio`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(args, true, selectWrite)
		},
	}

	deselectCmd = &cobra.Command{
		Use:   "deselect [id...]",
		Short: "Deselect catalog entries and everything that requires them",
		Long: `Deselect catalog entries and everything that requires them.

Deselecting an entry also deselects every selected entry that depends
on it, directly or transitively.`,
		Example: `  modsmith deselect base-pack
  modsmith deselect --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(args, false, deselectWrite)
		},
	}
)

func init() {
	selectCmd.Flags().BoolVar(&selectAll, "all", false, "select every eligible component")
	selectCmd.Flags().StringVar(&selectTier, "tier", "", "select every component at this tier's priority or better")
	selectCmd.Flags().StringArrayVar(&selectCategories, "category", nil, "select every component in this category (repeatable)")
	selectCmd.Flags().BoolVar(&selectWrite, "write", false, "write the resulting selection back to the catalog file")

	deselectCmd.Flags().BoolVar(&deselectAll, "all", false, "deselect everything")
	deselectCmd.Flags().BoolVar(&deselectWrite, "write", false, "write the resulting selection back to the catalog file")
}

// changeRecorder accumulates the nodes an engine operation touched, in
// notification order, deduplicated to the final state.
type changeRecorder struct {
	order []string
	seen  map[string]struct{}
}

func newChangeRecorder() *changeRecorder {
	return &changeRecorder{seen: make(map[string]struct{})}
}

func (r *changeRecorder) record(n catalog.Node) {
	if _, ok := r.seen[n.NodeID()]; ok {
		return
	}
	r.seen[n.NodeID()] = struct{}{}
	r.order = append(r.order, n.NodeID())
}

func runToggle(ids []string, desired, write bool) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	rec := newChangeRecorder()
	eng, err := selection.New(selection.Config{
		Catalog:       cat,
		Logger:        newCommandLogger(),
		OnNodeChanged: rec.record,
	})
	if err != nil {
		return err
	}

	switch {
	case desired && selectAll:
		eng.SelectAll()
	case desired && selectTier != "":
		if err := eng.SelectTier(selectTier); err != nil {
			return err
		}
	case desired && len(selectCategories) > 0:
		eng.SelectCategories(selectCategories...)
	case !desired && deselectAll:
		eng.DeselectAll()
	case len(ids) == 0:
		return fmt.Errorf("nothing to do: pass entry ids or a bulk flag")
	default:
		for _, id := range ids {
			if err := toggleOne(eng, cat, id, desired); err != nil {
				return err
			}
		}
	}

	printChangeSummary(cat, rec)

	if write {
		return writeCatalog(cat)
	}
	return nil
}

// toggleOne dispatches a single toggle to the right engine entry point for
// the node's kind, wrapping failures with the entry id and next steps.
func toggleOne(eng *selection.Engine, cat *catalog.Catalog, id string, desired bool) error {
	var err error
	node, ok := cat.Resolve(id)
	switch {
	case !ok:
		// Let the engine produce its canonical unknown-id error.
		err = eng.ToggleComponent(id, desired)
	default:
		if _, isOpt := node.(*catalog.Option); isOpt {
			err = eng.ToggleOption(id, desired)
		} else {
			err = eng.ToggleComponent(id, desired)
		}
	}
	if err == nil {
		return nil
	}
	return issue.NewErrorContext().
		WithOperation("toggle entry").
		WithEntry(id).
		WithSuggestion("Run 'modsmith list' to see the valid entry ids").
		Wrap(err).
		BuildError()
}

func printChangeSummary(cat *catalog.Catalog, rec *changeRecorder) {
	if len(rec.order) == 0 {
		fmt.Println(SubtitleStyle.Render("No changes: the selection was already consistent"))
		return
	}

	for _, id := range rec.order {
		node, ok := cat.Resolve(id)
		if !ok {
			continue
		}
		if node.IsSelected() {
			fmt.Printf("%s %s %s\n", SuccessStyle.Render("+"), node.NodeName(), IDStyle.Render(id))
		} else {
			fmt.Printf("%s %s %s\n", ErrorStyle.Render("-"), node.NodeName(), IDStyle.Render(id))
		}
	}
	fmt.Println()
	fmt.Println(SubtitleStyle.Render(fmt.Sprintf("%d entries changed, %d now selected", len(rec.order), countSelected(cat))))
}

// writeCatalog persists the catalog, including selection state, back to the
// resolved catalog path.
func writeCatalog(cat *catalog.Catalog) error {
	path := resolveCatalogPath()
	data, err := toml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	fmt.Printf("%s Wrote selection to %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
