// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"log/slog"

	"modsmith-cli/internal/catalog"
)

// Verdict partitions the nodes referenced by one node's dependency and
// restriction sets into the state changes propagation must apply.
type Verdict struct {
	// MustSelect holds resolved dependency targets that are not yet
	// selected, in declaration order.
	MustSelect []catalog.Node
	// MustDeselect holds resolved restriction targets that are currently
	// selected, in declaration order.
	MustDeselect []catalog.Node
}

// Classify resolves dependency and restriction ids against the catalog's
// combined namespace and partitions them by the state change they demand.
// It is a pure read: no selection flag is mutated.
//
// Unresolved ids are vacuously satisfied: a dependency on a node that does
// not exist demands nothing, and a restriction against one conflicts with
// nothing. They are logged at debug level only.
func Classify(dependencyIDs, restrictionIDs []string, cat *catalog.Catalog, logger *slog.Logger) Verdict {
	var v Verdict

	for _, id := range dependencyIDs {
		node, ok := cat.Resolve(id)
		if !ok {
			logger.Debug("dependency references unknown id; treating as satisfied", "id", id)
			continue
		}
		if !node.IsSelected() {
			v.MustSelect = append(v.MustSelect, node)
		}
	}

	for _, id := range restrictionIDs {
		node, ok := cat.Resolve(id)
		if !ok {
			logger.Debug("restriction references unknown id; treating as satisfied", "id", id)
			continue
		}
		if node.IsSelected() {
			v.MustDeselect = append(v.MustDeselect, node)
		}
	}

	return v
}
