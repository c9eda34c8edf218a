// SPDX-License-Identifier: MPL-2.0

package selection

import "fmt"

// SelectAll selects every component in catalog order. The whole batch shares
// one visited set: a component already pulled in by an earlier component's
// dependency cascade is skipped instead of re-propagated. The skip is
// checked here, before entering the engine, so batch dedup never logs a
// spurious cycle warning.
func (e *Engine) SelectAll() {
	p := newPass()
	for _, comp := range e.cat.Components {
		if _, seen := p.visited[comp.ID]; seen {
			continue
		}
		e.selectNode(comp, p)
	}
	e.settle(p)
}

// DeselectAll clears every selection flag directly, without cascading. Every
// node ends in the same terminal state, so there is no dependency math to
// run; this is an absolute reset. Nodes whose flag actually changed are
// reported through the repaint callback after all flags are cleared.
func (e *Engine) DeselectAll() {
	p := newPass()
	for _, node := range e.cat.Nodes() {
		if node.IsSelected() {
			e.setSelected(node, false, p)
		}
	}
	e.settle(p)
}

// SelectTier selects every component whose tier priority is at or above the
// named tier's (numerically <=, lower priority values being more essential).
// Components without a tier are left alone. Batch semantics are identical to
// SelectAll. An unknown tier name is a contract violation.
func (e *Engine) SelectTier(tier string) error {
	limit, ok := e.cat.TierPriority(tier)
	if !ok {
		return fmt.Errorf("selection: unknown tier %q", tier)
	}

	p := newPass()
	for _, comp := range e.cat.Components {
		if comp.Tier == "" {
			continue
		}
		priority, known := e.cat.TierPriority(comp.Tier)
		if !known || priority > limit {
			continue
		}
		if _, seen := p.visited[comp.ID]; seen {
			continue
		}
		e.selectNode(comp, p)
	}
	e.settle(p)
	return nil
}

// SelectCategories selects every component belonging to at least one of the
// given categories, with SelectAll batch semantics. Unknown category names
// simply match nothing.
func (e *Engine) SelectCategories(categories ...string) {
	if len(categories) == 0 {
		return
	}
	p := newPass()
	for _, comp := range e.cat.Components {
		if !comp.InCategory(categories...) {
			continue
		}
		if _, seen := p.visited[comp.ID]; seen {
			continue
		}
		e.selectNode(comp, p)
	}
	e.settle(p)
}
