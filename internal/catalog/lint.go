// SPDX-License-Identifier: MPL-2.0

package catalog

import "fmt"

// FindingKind classifies a lint finding.
type FindingKind string

const (
	// FindingDanglingDependency marks a dependency id that resolves to no node.
	FindingDanglingDependency FindingKind = "dangling-dependency"
	// FindingDanglingRestriction marks a restriction id that resolves to no node.
	FindingDanglingRestriction FindingKind = "dangling-restriction"
	// FindingSelfReference marks a node that depends on or restricts itself.
	FindingSelfReference FindingKind = "self-reference"
)

// Finding is one non-fatal inconsistency detected by Lint. Findings never
// prevent the engine from running; the propagation rules treat all of them
// leniently (dangling references are vacuously satisfied).
type Finding struct {
	// Kind classifies the finding.
	Kind FindingKind
	// NodeID is the node declaring the problematic reference.
	NodeID string
	// RefID is the referenced identifier.
	RefID string
}

// String renders the finding for diagnostics output.
func (f Finding) String() string {
	switch f.Kind {
	case FindingSelfReference:
		return fmt.Sprintf("%s: %q references itself", f.Kind, f.NodeID)
	default:
		return fmt.Sprintf("%s: %q references unknown id %q", f.Kind, f.NodeID, f.RefID)
	}
}

// Lint scans every dependency and restriction reference in the catalog and
// reports the ones that cannot resolve, plus self-references. The result
// order follows catalog order, then declaration order within a node.
func (c *Catalog) Lint() []Finding {
	var findings []Finding
	for _, node := range c.Nodes() {
		for _, dep := range node.DependencyIDs() {
			if dep == node.NodeID() {
				findings = append(findings, Finding{Kind: FindingSelfReference, NodeID: node.NodeID(), RefID: dep})
				continue
			}
			if _, ok := c.Resolve(dep); !ok {
				findings = append(findings, Finding{Kind: FindingDanglingDependency, NodeID: node.NodeID(), RefID: dep})
			}
		}
		for _, restr := range node.RestrictionIDs() {
			if restr == node.NodeID() {
				findings = append(findings, Finding{Kind: FindingSelfReference, NodeID: node.NodeID(), RefID: restr})
				continue
			}
			if _, ok := c.Resolve(restr); !ok {
				findings = append(findings, Finding{Kind: FindingDanglingRestriction, NodeID: node.NodeID(), RefID: restr})
			}
		}
	}
	return findings
}
