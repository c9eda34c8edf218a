// SPDX-License-Identifier: MPL-2.0

// Package catalog defines the mod catalog data model: components, their
// sub-options, tiers, and categories, plus the combined identifier namespace
// used to resolve dependency and restriction references.
//
// The catalog is externally owned and mutable. The selection engine
// (internal/selection) only flips selected flags on nodes; it never creates
// or destroys them. After structural mutation (adding or removing components
// or options), callers must invoke Reindex before further engine calls.
package catalog

import "fmt"

type (
	// Node is the common surface of the two addressable kinds in the
	// selection graph, Component and Option. Propagation logic is written
	// once against this interface instead of being duplicated per kind.
	Node interface {
		// NodeID returns the unique identifier of the node. Identifiers are
		// unique across the combined namespace of components and options: a
		// dependency or restriction id may name either kind.
		NodeID() string
		// NodeName returns the human-readable display name.
		NodeName() string
		// IsSelected reports whether the node is currently selected.
		IsSelected() bool
		// SetSelected flips the selected flag. Only the selection engine and
		// the catalog loader should call this.
		SetSelected(selected bool)
		// DependencyIDs returns the ids this node requires selected, in
		// declaration order.
		DependencyIDs() []string
		// RestrictionIDs returns the ids this node is mutually exclusive
		// with, in declaration order.
		RestrictionIDs() []string
		// IsDisabled reports whether the node is force-excluded from
		// selection independent of the graph (platform eligibility).
		IsDisabled() bool
	}

	// Tier is a named install priority band. Lower priority values are more
	// essential; "select tier N" selects every component at priority <= N's.
	Tier struct {
		// Name is the tier identifier referenced by components.
		Name string `toml:"name"`
		// Priority orders tiers; lower is more essential.
		Priority int `toml:"priority"`
		// Summary is an optional one-line description for UI display.
		Summary string `toml:"summary,omitempty"`
	}

	// Component is an installable mod component. A component may own an
	// ordered list of options; options never outlive their parent.
	Component struct {
		// ID is the unique identifier within the combined namespace.
		ID string `toml:"id"`
		// Name is the display name shown in UIs.
		Name string `toml:"name"`
		// Description holds Markdown install notes (optional).
		Description string `toml:"description,omitempty"`
		// Tier names the install tier this component belongs to (optional).
		Tier string `toml:"tier,omitempty"`
		// Categories lists the categories this component belongs to.
		Categories []string `toml:"categories,omitempty"`
		// Dependencies lists ids that must be selected alongside this one.
		Dependencies []string `toml:"dependencies,omitempty"`
		// Restrictions lists ids that may not be selected alongside this one.
		Restrictions []string `toml:"restrictions,omitempty"`
		// Platforms restricts the component to the named platforms
		// ("linux", "macos", "windows"). Empty means all platforms.
		Platforms []string `toml:"platforms,omitempty"`
		// Options are the component's sub-options, in declaration order.
		Options []*Option `toml:"options,omitempty"`
		// Selected is the current selection state.
		Selected bool `toml:"selected,omitempty"`
		// Disabled force-excludes the component from selection. The loader
		// derives it from Platforms against the running OS.
		Disabled bool `toml:"-"`
	}

	// Option is a sub-choice of exactly one Component. It shares the
	// component identifier namespace and may declare its own dependency and
	// restriction edges against components and options alike.
	Option struct {
		// ID is the unique identifier within the combined namespace.
		ID string `toml:"id"`
		// Name is the display name shown in UIs.
		Name string `toml:"name"`
		// Description holds Markdown notes (optional).
		Description string `toml:"description,omitempty"`
		// Dependencies lists ids that must be selected alongside this one.
		Dependencies []string `toml:"dependencies,omitempty"`
		// Restrictions lists ids that may not be selected alongside this one.
		Restrictions []string `toml:"restrictions,omitempty"`
		// Platforms restricts the option to the named platforms.
		Platforms []string `toml:"platforms,omitempty"`
		// Selected is the current selection state.
		Selected bool `toml:"selected,omitempty"`
		// Disabled force-excludes the option from selection.
		Disabled bool `toml:"-"`

		// parent is the owning component, wired by Reindex (and the loader).
		parent *Component
	}

	// Catalog is the ordered collection of components for one session, plus
	// tier metadata. It is the single source of truth the engine reads graph
	// structure from and mutates selected flags within.
	Catalog struct {
		// Name identifies the mod build this catalog describes.
		Name string `toml:"name"`
		// Game names the target game (free-form, optional).
		Game string `toml:"game,omitempty"`
		// Tiers lists install tiers in declaration order.
		Tiers []Tier `toml:"tiers,omitempty"`
		// Components lists all components in install order.
		Components []*Component `toml:"components"`

		// index maps every id in the combined namespace to its node.
		index map[string]Node
		// nodes caches all nodes in catalog order (components interleaved
		// with their options) for deterministic reverse scans.
		nodes []Node
		// tierPriority maps tier name to priority for O(1) lookups.
		tierPriority map[string]int
	}
)

// --- Component methods ---

// NodeID implements Node.
func (c *Component) NodeID() string { return c.ID }

// NodeName implements Node.
func (c *Component) NodeName() string { return c.Name }

// IsSelected implements Node.
func (c *Component) IsSelected() bool { return c.Selected }

// SetSelected implements Node.
func (c *Component) SetSelected(selected bool) { c.Selected = selected }

// DependencyIDs implements Node.
func (c *Component) DependencyIDs() []string { return c.Dependencies }

// RestrictionIDs implements Node.
func (c *Component) RestrictionIDs() []string { return c.Restrictions }

// IsDisabled implements Node.
func (c *Component) IsDisabled() bool { return c.Disabled }

// HasOptions reports whether the component owns at least one option.
func (c *Component) HasOptions() bool { return len(c.Options) > 0 }

// SelectedOption returns the first selected option, or nil if none is.
func (c *Component) SelectedOption() *Option {
	for _, opt := range c.Options {
		if opt.Selected {
			return opt
		}
	}
	return nil
}

// HasSelectableOption reports whether at least one option is not
// force-disabled. A component whose options are all disabled can never
// satisfy the "selected component has a selected option" invariant.
func (c *Component) HasSelectableOption() bool {
	for _, opt := range c.Options {
		if !opt.Disabled {
			return true
		}
	}
	return false
}

// InCategory reports whether the component belongs to any of the given
// categories.
func (c *Component) InCategory(categories ...string) bool {
	for _, want := range categories {
		for _, have := range c.Categories {
			if have == want {
				return true
			}
		}
	}
	return false
}

// --- Option methods ---

// NodeID implements Node.
func (o *Option) NodeID() string { return o.ID }

// NodeName implements Node.
func (o *Option) NodeName() string { return o.Name }

// IsSelected implements Node.
func (o *Option) IsSelected() bool { return o.Selected }

// SetSelected implements Node.
func (o *Option) SetSelected(selected bool) { o.Selected = selected }

// DependencyIDs implements Node.
func (o *Option) DependencyIDs() []string { return o.Dependencies }

// RestrictionIDs implements Node.
func (o *Option) RestrictionIDs() []string { return o.Restrictions }

// IsDisabled implements Node.
func (o *Option) IsDisabled() bool { return o.Disabled }

// Parent returns the owning component. It is nil only before the first
// Reindex of the containing catalog.
func (o *Option) Parent() *Component { return o.parent }

// --- Catalog methods ---

// ComponentCount returns the number of components in the catalog.
func (c *Catalog) ComponentCount() int { return len(c.Components) }

// NodeCount returns the number of nodes (components plus options).
func (c *Catalog) NodeCount() int {
	if c.nodes == nil {
		c.Reindex()
	}
	return len(c.nodes)
}

// Component returns the component with the given id, or nil if the id is
// unknown or names an option.
func (c *Catalog) Component(id string) *Component {
	node, ok := c.Resolve(id)
	if !ok {
		return nil
	}
	comp, _ := node.(*Component)
	return comp
}

// String returns a short human-readable summary of the catalog.
func (c *Catalog) String() string {
	return fmt.Sprintf("%s (%d components, %d nodes)", c.Name, len(c.Components), c.NodeCount())
}
