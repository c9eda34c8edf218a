// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"modsmith-cli/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := &catalog.Catalog{
		Name: "test-build",
		Components: []*catalog.Component{
			{ID: "base", Name: "Base Pack"},
			{
				ID:   "textures",
				Name: "Texture Overhaul",
				Tier: "recommended",
				Options: []*catalog.Option{
					{ID: "textures-2k", Name: "2K"},
					{ID: "textures-4k", Name: "4K"},
				},
			},
			{ID: "patch", Name: "Compat Patch", Dependencies: []string{"base"}},
		},
	}
	cat.Reindex()
	return cat
}

func newTestPicker(t *testing.T) *Picker {
	t.Helper()
	p, err := NewPicker(PickerOptions{
		Catalog: testCatalog(t),
		Logger:  slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewPicker: %v", err)
	}
	return p
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBuildRows_OptionsFollowParent(t *testing.T) {
	t.Parallel()
	rows := buildRows(testCatalog(t))

	wantIDs := []string{"base", "textures", "textures-2k", "textures-4k", "patch"}
	if len(rows) != len(wantIDs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantIDs))
	}
	for i, id := range wantIDs {
		if rows[i].id != id {
			t.Errorf("row %d id = %s, want %s", i, rows[i].id, id)
		}
	}
	if rows[2].isOption != true || rows[4].isOption != false {
		t.Error("option flags wrong")
	}
}

func TestPicker_DefaultTitleIsCatalogName(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)
	if p.title != "test-build" {
		t.Errorf("title = %q, want catalog name", p.title)
	}
}

func TestPicker_CursorMovement(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)

	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 0 {
		t.Error("cursor moved above the first row")
	}

	for range 10 {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if p.cursor != len(p.rows)-1 {
		t.Errorf("cursor = %d, want last row %d", p.cursor, len(p.rows)-1)
	}
}

func TestPicker_ToggleCascades(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)

	// Move to "patch", which depends on "base".
	for p.rows[p.cursor].id != "patch" {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	p.Update(tea.KeyMsg{Type: tea.KeySpace})

	ids := p.SelectedIDs()
	if len(ids) != 2 {
		t.Fatalf("selected %v, want [base patch]", ids)
	}
	if !strings.Contains(p.status, "2 entries changed") {
		t.Errorf("status = %q, want propagation count", p.status)
	}
}

func TestPicker_ToggleOffAgain(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)

	p.Update(tea.KeyMsg{Type: tea.KeySpace})
	if p.SelectedCount() != 1 {
		t.Fatal("first toggle should select the row")
	}
	p.Update(tea.KeyMsg{Type: tea.KeySpace})
	if p.SelectedCount() != 0 {
		t.Error("second toggle should deselect the row")
	}
}

func TestPicker_DisabledRowRefuses(t *testing.T) {
	t.Parallel()
	cat := testCatalog(t)
	cat.Components[0].Disabled = true
	cat.Reindex()

	p, err := NewPicker(PickerOptions{Catalog: cat, Logger: slog.New(slog.DiscardHandler)})
	if err != nil {
		t.Fatal(err)
	}

	p.Update(tea.KeyMsg{Type: tea.KeySpace})
	if p.SelectedCount() != 0 {
		t.Error("disabled row must not be selected")
	}
	if !strings.Contains(p.status, "not available") {
		t.Errorf("status = %q, want availability notice", p.status)
	}
}

func TestPicker_SelectAllAndClear(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)

	p.Update(keyRune('a'))
	if p.SelectedCount() != 3 {
		t.Errorf("SelectAll selected %d components, want 3", p.SelectedCount())
	}

	p.Update(keyRune('x'))
	if p.SelectedCount() != 0 {
		t.Error("clear left nodes selected")
	}
}

func TestPicker_EnterOpensConfirm(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !p.confirming {
		t.Fatal("enter should open the confirm prompt")
	}
	if p.Done() {
		t.Error("confirm prompt must not end the session by itself")
	}
}

func TestPicker_CtrlCAborts(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)

	p.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !p.Done() || !p.Cancelled() {
		t.Error("ctrl+c should abort the session")
	}
}

func TestPicker_ViewShowsRowsAndHelp(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)
	p.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := p.View()
	for _, want := range []string{"test-build", "Base Pack", "2K", "space toggle"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPicker_ScrollFollowsCursor(t *testing.T) {
	t.Parallel()
	p := newTestPicker(t)
	p.Update(tea.WindowSizeMsg{Width: 80, Height: chromeHeight + 2})

	for range len(p.rows) {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if p.offset == 0 {
		t.Error("viewport did not scroll with the cursor")
	}
	if p.cursor < p.offset || p.cursor >= p.offset+p.viewportHeight() {
		t.Errorf("cursor %d outside window [%d, %d)", p.cursor, p.offset, p.offset+p.viewportHeight())
	}
}

func TestCheckbox(t *testing.T) {
	t.Parallel()
	tests := []struct {
		selected, isOption bool
		want               string
	}{
		{false, false, "[ ]"},
		{true, false, "[x]"},
		{false, true, "( )"},
		{true, true, "(•)"},
	}
	for _, tt := range tests {
		if got := checkbox(tt.selected, tt.isOption); got != tt.want {
			t.Errorf("checkbox(%v, %v) = %q, want %q", tt.selected, tt.isOption, got, tt.want)
		}
	}
}
