// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"modsmith-cli/internal/catalog"
	"modsmith-cli/internal/graphcheck"

	"github.com/spf13/cobra"
)

var (
	listSelectedOnly bool
	listOrder        bool

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Show the catalog and current selection state",
		Long: `Show the catalog and current selection state.

Components are listed in catalog order with their options indented
beneath them. Selected entries are marked, entries unavailable on this
platform are struck through.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			if listOrder {
				return printInstallOrder(cat)
			}
			printCatalog(cat, listSelectedOnly)
			return nil
		},
	}
)

func init() {
	listCmd.Flags().BoolVar(&listSelectedOnly, "selected", false, "show only selected entries")
	listCmd.Flags().BoolVar(&listOrder, "order", false, "print an install-safe topological order")
}

func printCatalog(cat *catalog.Catalog, selectedOnly bool) {
	title := cat.Name
	if title == "" {
		title = "Catalog"
	}
	fmt.Println(TitleStyle.Render(title))
	if cat.Game != "" {
		fmt.Println(SubtitleStyle.Render("for " + cat.Game))
	}
	fmt.Println()

	shown := 0
	for _, comp := range cat.Components {
		if selectedOnly && !componentHasSelection(comp) {
			continue
		}
		shown++
		fmt.Println(renderComponentLine(cat, comp))
		for _, opt := range comp.Options {
			if selectedOnly && !opt.Selected {
				continue
			}
			fmt.Println(renderOptionLine(opt))
		}
	}

	if shown == 0 {
		if selectedOnly {
			fmt.Println(SubtitleStyle.Render("  (nothing selected)"))
		} else {
			fmt.Println(SubtitleStyle.Render("  (catalog is empty)"))
		}
		return
	}

	fmt.Println()
	fmt.Printf("%s\n", SubtitleStyle.Render(
		fmt.Sprintf("%d of %d entries selected", countSelected(cat), cat.NodeCount())))
}

func renderComponentLine(cat *catalog.Catalog, comp *catalog.Component) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(marker(comp.Selected, false))
	b.WriteString(" ")
	if comp.Disabled {
		b.WriteString(DisabledStyle.Render(comp.Name))
	} else {
		b.WriteString(comp.Name)
	}
	b.WriteString(" ")
	b.WriteString(IDStyle.Render(comp.ID))

	var tags []string
	if comp.Tier != "" {
		tags = append(tags, "tier: "+comp.Tier)
	}
	if len(comp.Categories) > 0 {
		tags = append(tags, strings.Join(comp.Categories, ", "))
	}
	if len(tags) > 0 {
		b.WriteString("  ")
		b.WriteString(SubtitleStyle.Render("[" + strings.Join(tags, "; ") + "]"))
	}
	return b.String()
}

func renderOptionLine(opt *catalog.Option) string {
	var b strings.Builder
	b.WriteString("    ")
	b.WriteString(marker(opt.Selected, true))
	b.WriteString(" ")
	if opt.Disabled {
		b.WriteString(DisabledStyle.Render(opt.Name))
	} else {
		b.WriteString(opt.Name)
	}
	b.WriteString(" ")
	b.WriteString(IDStyle.Render(opt.ID))
	return b.String()
}

// marker renders the selection checkbox. Options use round markers since at
// most one per component can be active.
func marker(selected, isOption bool) string {
	switch {
	case selected && isOption:
		return SuccessStyle.Render("(•)")
	case isOption:
		return "( )"
	case selected:
		return SuccessStyle.Render("[x]")
	default:
		return "[ ]"
	}
}

func componentHasSelection(comp *catalog.Component) bool {
	if comp.Selected {
		return true
	}
	for _, opt := range comp.Options {
		if opt.Selected {
			return true
		}
	}
	return false
}

func countSelected(cat *catalog.Catalog) int {
	n := 0
	for _, node := range cat.Nodes() {
		if node.IsSelected() {
			n++
		}
	}
	return n
}

// printInstallOrder prints a dependency-respecting install order. With an
// active selection only the selected subgraph is ordered; otherwise the whole
// catalog is. Cycles are reported but do not fail the command, matching the
// lenient runtime policy.
func printInstallOrder(cat *catalog.Catalog) error {
	g := graphcheck.FromCatalog(cat)
	scope := "catalog"
	if countSelected(cat) > 0 {
		g = graphcheck.FromSelection(cat)
		scope = "selection"
	}

	order, err := g.InstallOrder()
	if err != nil {
		var cycleErr *graphcheck.CycleError
		if errors.As(err, &cycleErr) {
			fmt.Println(WarningStyle.Render("No install order exists: the graph has a cycle"))
			fmt.Printf("  cycle members: %s\n", IDStyle.Render(strings.Join(cycleErr.Cycle, ", ")))
			fmt.Println(SubtitleStyle.Render("  break the cycle or install these entries together"))
			return nil
		}
		return err
	}

	fmt.Println(TitleStyle.Render("Install order") + SubtitleStyle.Render(" ("+scope+")"))
	for i, id := range order {
		name := id
		if node, ok := cat.Resolve(id); ok {
			name = fmt.Sprintf("%s %s", node.NodeName(), IDStyle.Render(id))
		}
		fmt.Printf("  %2d. %s\n", i+1, name)
	}
	return nil
}
