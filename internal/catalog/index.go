// SPDX-License-Identifier: MPL-2.0

package catalog

// Reindex rebuilds the combined identifier namespace and rewires option
// parent pointers. Call it once after loading or after any structural
// mutation of the component list. Selection flags are untouched.
//
// Duplicate ids keep the first occurrence, matching the lenient resolution
// rules for graph references: a later duplicate is unreachable rather than
// fatal. The loader rejects duplicates up front; hand-built catalogs get the
// lenient behavior.
func (c *Catalog) Reindex() {
	c.index = make(map[string]Node, len(c.Components)*2)
	c.nodes = c.nodes[:0]
	c.tierPriority = make(map[string]int, len(c.Tiers))

	for _, tier := range c.Tiers {
		if _, exists := c.tierPriority[tier.Name]; !exists {
			c.tierPriority[tier.Name] = tier.Priority
		}
	}

	for _, comp := range c.Components {
		c.addNode(comp)
		for _, opt := range comp.Options {
			opt.parent = comp
			c.addNode(opt)
		}
	}
}

func (c *Catalog) addNode(n Node) {
	c.nodes = append(c.nodes, n)
	if _, exists := c.index[n.NodeID()]; !exists {
		c.index[n.NodeID()] = n
	}
}

// Resolve looks up a node by id in the combined namespace of components and
// options. An unknown id is not an error: dependency and restriction
// references to nonexistent nodes are treated as already satisfied by the
// engine, so Resolve reports a plain miss.
func (c *Catalog) Resolve(id string) (Node, bool) {
	if c.index == nil {
		c.Reindex()
	}
	node, ok := c.index[id]
	return node, ok
}

// Nodes returns every node in catalog order: each component followed by its
// options. The engine's reverse dependency/restriction scans iterate this
// slice, so the order is part of the deterministic cascade ordering.
// The returned slice is owned by the catalog; callers must not modify it.
func (c *Catalog) Nodes() []Node {
	if c.nodes == nil {
		c.Reindex()
	}
	return c.nodes
}

// TierPriority returns the priority of the named tier. The second return
// value reports whether the tier exists.
func (c *Catalog) TierPriority(name string) (int, bool) {
	if c.tierPriority == nil {
		c.Reindex()
	}
	priority, ok := c.tierPriority[name]
	return priority, ok
}
