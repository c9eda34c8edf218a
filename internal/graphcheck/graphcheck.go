// SPDX-License-Identifier: MPL-2.0

// Package graphcheck analyzes a catalog's dependency graph. It computes a
// topological installation order for the selected components and surfaces the
// dependency cycles that make such an order impossible. Cycles are legal in a
// catalog (selection propagation tolerates them), so callers treat a
// CycleError as advisory, not fatal.
package graphcheck

import (
	"fmt"
	"strings"

	"modsmith-cli/internal/catalog"
)

type (
	// CycleError indicates that the dependency graph contains at least one
	// cycle, preventing a total installation order.
	CycleError struct {
		// Cycle contains the nodes involved in cyclic dependencies (not
		// necessarily a single minimal cycle, but enough to identify the
		// problem).
		Cycle []string
	}

	// Graph is a directed dependency graph over catalog node ids. An edge
	// from A to B means A must be installed before B.
	Graph struct {
		// adjacency maps each node to the nodes that depend on it.
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// FromCatalog builds the dependency graph of every component and option in
// the catalog. Dependency ids that resolve to nothing are skipped; the
// catalog linter reports those separately.
func FromCatalog(cat *catalog.Catalog) *Graph {
	g := New()
	for _, node := range cat.Nodes() {
		g.AddNode(node.NodeID())
		for _, dep := range node.DependencyIDs() {
			if _, ok := cat.Resolve(dep); !ok {
				continue
			}
			g.AddEdge(dep, node.NodeID())
		}
	}
	return g
}

// FromSelection builds the dependency graph restricted to the currently
// selected nodes. Edges into unselected dependencies are dropped.
func FromSelection(cat *catalog.Catalog) *Graph {
	g := New()
	for _, node := range cat.Nodes() {
		if !node.IsSelected() {
			continue
		}
		g.AddNode(node.NodeID())
		for _, dep := range node.DependencyIDs() {
			target, ok := cat.Resolve(dep)
			if !ok || !target.IsSelected() {
				continue
			}
			g.AddEdge(dep, node.NodeID())
		}
	}
	return g
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(id string) {
	if g.nodeSet[id] {
		return
	}
	g.nodeSet[id] = true
	g.nodes = append(g.nodes, id)
}

// AddEdge adds a directed edge from -> to, meaning "from" installs before "to".
// Both nodes are implicitly added if they don't exist.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// InstallOrder returns a valid installation order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph) InstallOrder() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	// Compute in-degrees.
	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	// Seed the queue with nodes that have no incoming edges, in insertion order.
	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		// Remaining nodes with non-zero in-degree form the cycle(s).
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}

// HasCycles reports whether the graph contains any dependency cycle.
func (g *Graph) HasCycles() bool {
	_, err := g.InstallOrder()
	return err != nil
}
