// SPDX-License-Identifier: MPL-2.0

package graphcheck

import (
	"errors"
	"slices"
	"testing"

	"modsmith-cli/internal/catalog"
)

func TestInstallOrder_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New()
	order, err := g.InstallOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestInstallOrder_LinearChain(t *testing.T) {
	t.Parallel()
	g := New()
	// base -> patch -> addon (base installs first)
	g.AddEdge("base", "patch")
	g.AddEdge("patch", "addon")

	order, err := g.InstallOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"base", "patch", "addon"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestInstallOrder_Diamond(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("base", "textures")
	g.AddEdge("base", "audio")
	g.AddEdge("textures", "compat")
	g.AddEdge("audio", "compat")

	order, err := g.InstallOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order[0] != "base" {
		t.Errorf("expected base first, got %v", order)
	}
	if order[len(order)-1] != "compat" {
		t.Errorf("expected compat last, got %v", order)
	}
	if len(order) != 4 {
		t.Errorf("expected 4 nodes, got %d: %v", len(order), order)
	}
}

func TestInstallOrder_SimpleCycle(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	_, err := g.InstallOrder()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cycleErr.Cycle) == 0 {
		t.Error("CycleError carries no cycle nodes")
	}
}

func TestInstallOrder_CycleWithTail(t *testing.T) {
	t.Parallel()
	g := New()
	// entry installs cleanly; a and b deadlock.
	g.AddEdge("entry", "a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	_, err := g.InstallOrder()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if slices.Contains(cycleErr.Cycle, "entry") {
		t.Errorf("acyclic node reported in cycle: %v", cycleErr.Cycle)
	}
}

func TestFromCatalog(t *testing.T) {
	t.Parallel()
	cat := &catalog.Catalog{Components: []*catalog.Component{
		{ID: "base", Name: "base"},
		{ID: "patch", Name: "patch", Dependencies: []string{"base", "missing"}},
	}}
	cat.Reindex()

	order, err := FromCatalog(cat).InstallOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The dangling "missing" dependency contributes no node or edge.
	if !slices.Equal(order, []string{"base", "patch"}) {
		t.Errorf("expected [base patch], got %v", order)
	}
}

func TestFromSelection_IgnoresUnselected(t *testing.T) {
	t.Parallel()
	base := &catalog.Component{ID: "base", Name: "base", Selected: true}
	patch := &catalog.Component{ID: "patch", Name: "patch", Selected: true, Dependencies: []string{"base"}}
	extra := &catalog.Component{ID: "extra", Name: "extra", Dependencies: []string{"patch"}}
	cat := &catalog.Catalog{Components: []*catalog.Component{base, patch, extra}}
	cat.Reindex()

	order, err := FromSelection(cat).InstallOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"base", "patch"}) {
		t.Errorf("expected [base patch], got %v", order)
	}
}

func TestHasCycles(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("a", "b")
	if g.HasCycles() {
		t.Error("acyclic graph reported cycles")
	}
	g.AddEdge("b", "a")
	if !g.HasCycles() {
		t.Error("cyclic graph reported no cycles")
	}
}
