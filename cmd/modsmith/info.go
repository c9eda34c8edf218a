// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"modsmith-cli/internal/catalog"
	"modsmith-cli/internal/issue"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show an entry's notes and graph edges",
	Long: `Show an entry's notes and graph edges.

Renders the entry's Markdown install notes plus its dependency and
restriction lists, so you can see what selecting it will pull in or
push out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		node, ok := cat.Resolve(args[0])
		if !ok {
			rendered, rerr := issue.Get(issue.NodeNotFoundId).Render(themeStylePath())
			if rerr == nil {
				fmt.Print(rendered)
			}
			return fmt.Errorf("entry %q not found in catalog", args[0])
		}

		out, err := glamour.Render(nodeInfoMarkdown(cat, node), themeStylePath())
		if err != nil {
			return fmt.Errorf("failed to render notes: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

// themeStylePath maps the configured UI theme onto a glamour style name.
func themeStylePath() string {
	if loadedConfig == nil {
		return "auto"
	}
	return loadedConfig.UI.Theme.String()
}

// nodeInfoMarkdown assembles the info page for a node as Markdown.
func nodeInfoMarkdown(cat *catalog.Catalog, node catalog.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n`%s`", node.NodeName(), node.NodeID())

	switch n := node.(type) {
	case *catalog.Component:
		if n.Tier != "" {
			fmt.Fprintf(&b, " · tier **%s**", n.Tier)
		}
		if len(n.Categories) > 0 {
			fmt.Fprintf(&b, " · %s", strings.Join(n.Categories, ", "))
		}
		b.WriteString("\n")
		if n.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", n.Description)
		}
		if len(n.Options) > 0 {
			b.WriteString("\n## Options\n\n")
			for _, opt := range n.Options {
				fmt.Fprintf(&b, "- **%s** (`%s`)\n", opt.Name, opt.ID)
			}
		}
	case *catalog.Option:
		fmt.Fprintf(&b, " · option of **%s**\n", n.Parent().Name)
		if n.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", n.Description)
		}
	}

	writeEdgeList(&b, cat, "Requires", node.DependencyIDs())
	writeEdgeList(&b, cat, "Conflicts with", node.RestrictionIDs())

	if node.IsDisabled() {
		b.WriteString("\n> Not available on this platform.\n")
	}
	return b.String()
}

func writeEdgeList(b *strings.Builder, cat *catalog.Catalog, heading string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", heading)
	for _, id := range ids {
		if ref, ok := cat.Resolve(id); ok {
			fmt.Fprintf(b, "- %s (`%s`)\n", ref.NodeName(), id)
		} else {
			fmt.Fprintf(b, "- `%s` *(unknown)*\n", id)
		}
	}
}
