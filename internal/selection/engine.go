// SPDX-License-Identifier: MPL-2.0

// Package selection implements the selection-consistency engine: the state
// machine that keeps checkbox choices over a mod catalog consistent with the
// declared dependency/restriction graph, including graphs containing cycles.
//
// Every externally triggered operation (one toggle, one bulk command) runs
// synchronously on the caller's goroutine and threads a fresh visited set
// through the recursive cascade, so each node is processed at most once per
// operation. Cycles are therefore a survivable runtime condition: a revisit
// is logged and that branch stops, with the node's state left as last set.
// Nothing about graph content ever escapes as an error; only contract
// violations (nil catalog, empty or unknown ids handed to an entry point) do.
package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"modsmith-cli/internal/catalog"
)

var (
	// ErrNilCatalog is returned by New when no catalog is provided.
	ErrNilCatalog = errors.New("selection: catalog must not be nil")
	// ErrEmptyID is the sentinel for blank ids handed to an entry point.
	ErrEmptyID = errors.New("selection: id must not be empty")
	// ErrUnknownNode is the sentinel wrapped by UnknownNodeError.
	ErrUnknownNode = errors.New("selection: unknown node")
	// ErrWrongKind is the sentinel wrapped by WrongKindError.
	ErrWrongKind = errors.New("selection: wrong node kind")
)

type (
	// UnknownNodeError is returned when an entry point receives an id that
	// does not resolve in the catalog. Unlike dangling references inside the
	// graph (which are lenient no-ops), an unknown id at an entry point is a
	// caller contract violation: the UI only holds ids it got from the
	// catalog.
	UnknownNodeError struct {
		ID string
	}

	// WrongKindError is returned when ToggleComponent receives an option id
	// or ToggleOption receives a component id.
	WrongKindError struct {
		ID   string
		Want string
	}

	// NotifyFunc receives a node whose selected flag changed over one
	// operation. The engine calls it once per changed node, after the whole
	// operation has settled, never before; a node that flips and flips back
	// within the operation is not reported. Delivery is synchronous and
	// fire-and-forget; callers that render on another goroutine marshal it
	// themselves.
	NotifyFunc func(catalog.Node)

	// Config configures an Engine.
	Config struct {
		// Catalog is the externally owned component list (required). The
		// engine never copies it and only mutates selected flags within it.
		Catalog *catalog.Catalog
		// Logger is the diagnostic sink for unresolved cycles (warn) and
		// unknown identifier references (debug). Defaults to slog.Default().
		Logger *slog.Logger
		// OnNodeChanged is the optional repaint callback (see NotifyFunc).
		OnNodeChanged NotifyFunc
	}

	// Engine applies selection and deselection transitions to catalog nodes
	// and cascades their consequences through the graph. It has no internal
	// locking: all operations are synchronous and non-preemptive, and the
	// per-operation visited set prevents reentrancy by construction.
	Engine struct {
		cat    *catalog.Catalog
		logger *slog.Logger
		notify NotifyFunc
	}

	// visitSet tracks a set of node ids.
	visitSet map[string]struct{}

	// pass is the per-operation context threaded through one externally
	// triggered operation. visited guarantees each node is processed at most
	// once, which is what makes cyclic graphs safe to traverse; inflight
	// tracks the select frames that have passed the visited check but not
	// yet settled their node's flag, so nested deselects can tell an
	// in-progress sibling from one that already finished. initial and order
	// record, per node, its flag before the engine first touched it and the
	// touch sequence, so settle can report exactly the net changes.
	pass struct {
		visited  visitSet
		inflight visitSet
		initial  map[string]bool
		order    []catalog.Node
	}
)

func newPass() *pass {
	return &pass{
		visited:  make(visitSet),
		inflight: make(visitSet),
		initial:  make(map[string]bool),
	}
}

// Error implements the error interface.
func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.ID)
}

// Unwrap returns ErrUnknownNode for errors.Is chains.
func (e *UnknownNodeError) Unwrap() error { return ErrUnknownNode }

// Error implements the error interface.
func (e *WrongKindError) Error() string {
	return fmt.Sprintf("node %q is not a %s", e.ID, e.Want)
}

// Unwrap returns ErrWrongKind for errors.Is chains.
func (e *WrongKindError) Unwrap() error { return ErrWrongKind }

// New creates an Engine over the given catalog.
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, ErrNilCatalog
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cat:    cfg.Catalog,
		logger: logger,
		notify: cfg.OnNodeChanged,
	}, nil
}

// ToggleComponent applies one user toggle to a component and propagates the
// consequences with a fresh visited set. Graph content never makes it fail;
// the returned error is reserved for contract violations.
func (e *Engine) ToggleComponent(id string, desired bool) error {
	comp, err := e.resolveComponent(id)
	if err != nil {
		return err
	}
	p := newPass()
	if desired {
		e.selectNode(comp, p)
	} else {
		e.deselectNode(comp, p)
	}
	e.settle(p)
	return nil
}

// ToggleOption applies one user toggle to an option. Selecting an option
// selects its parent component first; deselecting the last selected option
// of a component deselects the component.
func (e *Engine) ToggleOption(id string, desired bool) error {
	opt, err := e.resolveOption(id)
	if err != nil {
		return err
	}
	p := newPass()
	if desired {
		e.selectNode(opt, p)
	} else {
		e.deselectNode(opt, p)
	}
	e.settle(p)
	return nil
}

// selectNode transitions one node to selected and cascades: dependencies are
// pulled in first, then restriction conflicts are pushed out, then other
// selected nodes restricting this one are pushed out. The node's own flag is
// settled by its own frame after cascading, which is what lets a dependency
// cycle complete its first pass before the revisit is detected.
func (e *Engine) selectNode(n catalog.Node, p *pass) {
	if _, seen := p.visited[n.NodeID()]; seen {
		// Unresolved cycle: the branch stops here with the node's state as
		// last set. Not fatal; the overall operation completes.
		e.logger.Warn("selection cycle detected; node cannot be resolved further in this operation",
			"node", n.NodeID())
		return
	}
	p.visited[n.NodeID()] = struct{}{}

	if n.IsDisabled() {
		// A cascade caller pre-sets the flag before recursing; eligibility
		// always wins over the graph, so undo that here.
		e.setSelected(n, false, p)
		e.logger.Debug("node is not eligible on this platform; selection skipped", "node", n.NodeID())
		return
	}

	p.inflight[n.NodeID()] = struct{}{}
	defer delete(p.inflight, n.NodeID())

	// An option cannot be selected independent of its parent.
	if opt, ok := n.(*catalog.Option); ok {
		if parent := opt.Parent(); parent != nil && !parent.IsSelected() {
			e.selectNode(parent, p)
			if !parent.IsSelected() {
				// The parent refused selection (ineligible, or stuck in a
				// cycle); the option must not outrun it.
				e.logger.Debug("option parent could not be selected; option selection skipped",
					"option", opt.ID, "parent", parent.ID)
				return
			}
		}
	}

	verdict := Classify(n.DependencyIDs(), n.RestrictionIDs(), e.cat, e.logger)

	// Dependency cascades always run before restriction cascades, so a node
	// newly pulled in can trigger its own dependency cascades before any
	// restriction-driven deselection occurs.
	for _, dep := range verdict.MustSelect {
		if !dep.IsSelected() {
			e.setSelected(dep, true, p)
			e.selectNode(dep, p)
		}
	}
	for _, conflict := range verdict.MustDeselect {
		if conflict.IsSelected() {
			e.setSelected(conflict, false, p)
			e.deselectNode(conflict, p)
		}
	}

	// Mutual exclusion is symmetric: any selected node declaring a
	// restriction against this one loses.
	for _, other := range e.cat.Nodes() {
		if other.NodeID() == n.NodeID() || !other.IsSelected() {
			continue
		}
		if slices.Contains(other.RestrictionIDs(), n.NodeID()) {
			e.setSelected(other, false, p)
			e.deselectNode(other, p)
		}
	}

	e.setSelected(n, true, p)
	if comp, ok := n.(*catalog.Component); ok {
		e.enforceOptionInvariant(comp, p)
	}
}

// deselectNode transitions one node to deselected and cascades to every
// selected node whose dependency set names it: they lose their prerequisite
// and must be deselected too. Removing a restriction conflict never forces
// further changes, so there is no restriction cascade on this path.
func (e *Engine) deselectNode(n catalog.Node, p *pass) {
	if _, seen := p.visited[n.NodeID()]; seen {
		e.logger.Warn("selection cycle detected; node cannot be resolved further in this operation",
			"node", n.NodeID())
		return
	}
	p.visited[n.NodeID()] = struct{}{}

	for _, other := range e.cat.Nodes() {
		if other.NodeID() == n.NodeID() || !other.IsSelected() {
			continue
		}
		if slices.Contains(other.DependencyIDs(), n.NodeID()) {
			e.setSelected(other, false, p)
			e.deselectNode(other, p)
		}
	}

	e.setSelected(n, false, p)

	switch node := n.(type) {
	case *catalog.Component:
		// An option cannot outlive its parent's selection.
		for _, opt := range node.Options {
			if opt.IsSelected() {
				e.setSelected(opt, false, p)
				e.deselectNode(opt, p)
			}
		}
	case *catalog.Option:
		// Deselecting the last selected option takes the parent down with
		// it, unless a sibling is mid-selection in this same operation
		// (this option was evicted BY that sibling): the sibling's frame
		// will settle and keep the parent alive.
		if parent := node.Parent(); parent != nil && parent.IsSelected() && parent.SelectedOption() == nil {
			if !siblingInFlight(parent, node, p) {
				e.setSelected(parent, false, p)
				e.deselectNode(parent, p)
			}
		}
	}
}

// enforceOptionInvariant runs after a component's selection settles. An
// option is never auto-selected on the user's behalf: picking one is either
// pre-existing state or a deliberate user action, so a component with
// selectable but unselected options stays selected awaiting that choice.
// Only a component whose options are all force-disabled can never satisfy
// the invariant; it reverts to deselected here, without recursing, since no
// dependents can have formed on a component still being selected.
func (e *Engine) enforceOptionInvariant(comp *catalog.Component, p *pass) {
	if !comp.HasOptions() || comp.SelectedOption() != nil {
		return
	}
	if comp.HasSelectableOption() {
		return
	}
	e.setSelected(comp, false, p)
	e.logger.Warn("component has no selectable option to satisfy its option invariant; reverting selection",
		"component", comp.ID)
}

// siblingInFlight reports whether another option of parent has an active
// select frame in this operation (passed the visited check, flag not yet
// settled).
func siblingInFlight(parent *catalog.Component, except *catalog.Option, p *pass) bool {
	for _, opt := range parent.Options {
		if opt == except {
			continue
		}
		if _, active := p.inflight[opt.ID]; active {
			return true
		}
	}
	return false
}

// setSelected is the single place the engine flips a node's flag. The first
// flip of a node in an operation records its state at that moment, so settle
// can tell a net change from a flip that was later undone.
func (e *Engine) setSelected(n catalog.Node, desired bool, p *pass) {
	if n.IsSelected() == desired {
		return
	}
	if _, touched := p.initial[n.NodeID()]; !touched {
		p.initial[n.NodeID()] = n.IsSelected()
		p.order = append(p.order, n)
	}
	n.SetSelected(desired)
}

// settle fires the repaint callback for every node whose flag ended the
// operation different from where it started, in first-touch order (inner
// cascade frames before the node that triggered them).
func (e *Engine) settle(p *pass) {
	if e.notify == nil {
		return
	}
	for _, n := range p.order {
		if n.IsSelected() != p.initial[n.NodeID()] {
			e.notify(n)
		}
	}
}

// resolveComponent resolves an entry-point component id. Blank and unknown
// ids are caller errors: the UI only holds ids it got from the catalog.
func (e *Engine) resolveComponent(id string) (*catalog.Component, error) {
	node, err := e.resolveNode(id)
	if err != nil {
		return nil, err
	}
	comp, ok := node.(*catalog.Component)
	if !ok {
		return nil, &WrongKindError{ID: id, Want: "component"}
	}
	return comp, nil
}

func (e *Engine) resolveOption(id string) (*catalog.Option, error) {
	node, err := e.resolveNode(id)
	if err != nil {
		return nil, err
	}
	opt, ok := node.(*catalog.Option)
	if !ok {
		return nil, &WrongKindError{ID: id, Want: "option"}
	}
	return opt, nil
}

func (e *Engine) resolveNode(id string) (catalog.Node, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	node, ok := e.cat.Resolve(id)
	if !ok {
		return nil, &UnknownNodeError{ID: id}
	}
	return node, nil
}
