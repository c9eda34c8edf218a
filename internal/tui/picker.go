// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"modsmith-cli/internal/catalog"
	"modsmith-cli/internal/selection"
)

const (
	// chromeHeight is the number of lines taken by the title, status,
	// and help lines around the row viewport.
	chromeHeight = 4
	// defaultViewportHeight is used before the first WindowSizeMsg arrives.
	defaultViewportHeight = 20
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Strikethrough(true)

	tierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

type (
	// PickerOptions configures the interactive mod picker.
	PickerOptions struct {
		// Catalog is the catalog to pick from. The picker owns its
		// selection state for the lifetime of the session.
		Catalog *catalog.Catalog
		// Logger receives propagation diagnostics (cycle warnings and the
		// like). Defaults to slog.Default() when nil.
		Logger *slog.Logger
		// Title is shown above the list. Defaults to the catalog name.
		Title string
	}

	// row is one line in the picker list. Options appear indented under
	// their parent component.
	row struct {
		id       string
		name     string
		tier     string
		isOption bool
		disabled bool
	}

	// Picker is a Bubble Tea model for interactive catalog selection.
	Picker struct {
		cat   *catalog.Catalog
		eng   *selection.Engine
		rows  []row
		title string

		cursor int
		offset int
		width  int
		height int

		// changed counts nodes touched by the last toggle, reported
		// through the engine's repaint callback.
		changed int
		status  string

		confirming bool
		confirm    *huh.Form
		apply      bool

		done      bool
		cancelled bool
	}
)

// NewPicker builds a picker over the given catalog.
func NewPicker(opts PickerOptions) (*Picker, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Picker{
		cat:    opts.Catalog,
		title:  opts.Title,
		height: defaultViewportHeight,
	}
	if p.title == "" && opts.Catalog != nil {
		p.title = opts.Catalog.Name
	}

	eng, err := selection.New(selection.Config{
		Catalog:       opts.Catalog,
		Logger:        logger,
		OnNodeChanged: func(catalog.Node) { p.changed++ },
	})
	if err != nil {
		return nil, err
	}
	p.eng = eng
	p.rows = buildRows(opts.Catalog)

	return p, nil
}

// buildRows flattens the catalog into display order: each component followed
// by its options.
func buildRows(cat *catalog.Catalog) []row {
	var rows []row
	for _, comp := range cat.Components {
		rows = append(rows, row{
			id:       comp.ID,
			name:     comp.Name,
			tier:     comp.Tier,
			disabled: comp.Disabled,
		})
		for _, opt := range comp.Options {
			rows = append(rows, row{
				id:       opt.ID,
				name:     opt.Name,
				isOption: true,
				disabled: opt.Disabled,
			})
		}
	}
	return rows
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		p.width = sizeMsg.Width
		p.height = sizeMsg.Height
		p.clampScroll()
		return p, nil
	}

	if p.confirming {
		return p.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		p.done = true
		p.cancelled = true
		return p, tea.Quit

	case "q", "esc", "enter":
		p.beginConfirm()
		return p, p.confirm.Init()

	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
		p.clampScroll()

	case "down", "j":
		if p.cursor < len(p.rows)-1 {
			p.cursor++
		}
		p.clampScroll()

	case " ":
		p.toggleCurrent()

	case "a":
		p.changed = 0
		p.eng.SelectAll()
		p.status = fmt.Sprintf("selected all: %d entries changed", p.changed)

	case "x":
		p.changed = 0
		p.eng.DeselectAll()
		p.status = fmt.Sprintf("cleared: %d entries changed", p.changed)
	}

	return p, nil
}

// toggleCurrent flips the checkbox under the cursor and reports how far the
// change propagated.
func (p *Picker) toggleCurrent() {
	if len(p.rows) == 0 {
		return
	}
	r := p.rows[p.cursor]
	if r.disabled {
		p.status = fmt.Sprintf("%s is not available on this platform", r.name)
		return
	}

	node, ok := p.cat.Resolve(r.id)
	if !ok {
		return
	}
	desired := !node.IsSelected()

	p.changed = 0
	var err error
	if r.isOption {
		err = p.eng.ToggleOption(r.id, desired)
	} else {
		err = p.eng.ToggleComponent(r.id, desired)
	}
	if err != nil {
		p.status = err.Error()
		return
	}

	verb := "deselected"
	if desired {
		verb = "selected"
	}
	p.status = fmt.Sprintf("%s %s (%d entries changed)", verb, r.name, p.changed)
}

// beginConfirm opens the apply/discard prompt.
func (p *Picker) beginConfirm() {
	p.apply = true
	p.confirm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Apply this selection? (%d selected)", p.SelectedCount())).
			Affirmative("Apply").
			Negative("Keep picking").
			Value(&p.apply),
	))
	p.confirming = true
}

// updateConfirm routes messages to the confirm form until it completes.
func (p *Picker) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := p.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.confirm = f
	}

	switch p.confirm.State {
	case huh.StateCompleted:
		p.confirming = false
		if p.apply {
			p.done = true
			return p, tea.Quit
		}
		// Back to picking.
		return p, nil
	case huh.StateAborted:
		p.confirming = false
		return p, nil
	case huh.StateNormal:
	}

	return p, cmd
}

// View implements tea.Model.
func (p *Picker) View() string {
	if p.done {
		return ""
	}
	if p.confirming {
		return p.confirm.View()
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(p.title))
	sb.WriteString("\n\n")

	visible := p.viewportHeight()
	end := min(p.offset+visible, len(p.rows))
	for i := p.offset; i < end; i++ {
		sb.WriteString(p.renderRow(i))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if p.status != "" {
		sb.WriteString(statusStyle.Render(p.status))
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("space toggle · a all · x none · enter apply · ctrl+c abort"))

	if p.width > 0 {
		return lipgloss.NewStyle().MaxWidth(p.width).Render(sb.String())
	}
	return sb.String()
}

// renderRow renders one list line with cursor, checkbox, and tier tag.
func (p *Picker) renderRow(i int) string {
	r := p.rows[i]
	node, ok := p.cat.Resolve(r.id)
	isSelected := ok && node.IsSelected()

	cursor := "  "
	if i == p.cursor {
		cursor = cursorStyle.Render("> ")
	}

	box := checkbox(isSelected, r.isOption)

	indent := ""
	if r.isOption {
		indent = "    "
	}

	label := r.name
	switch {
	case r.disabled:
		label = disabledStyle.Render(label)
	case isSelected:
		label = selectedStyle.Render(label)
	}

	line := cursor + indent + box + " " + label
	if r.tier != "" {
		line += " " + tierStyle.Render("["+r.tier+"]")
	}
	return line
}

// checkbox returns the glyph pair for a row: square brackets for components,
// round for options (which behave like radio buttons under one parent).
func checkbox(selected, isOption bool) string {
	switch {
	case isOption && selected:
		return "(•)"
	case isOption:
		return "( )"
	case selected:
		return "[x]"
	default:
		return "[ ]"
	}
}

// viewportHeight returns how many rows fit on screen.
func (p *Picker) viewportHeight() int {
	h := p.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

// clampScroll keeps the cursor inside the visible window.
func (p *Picker) clampScroll() {
	visible := p.viewportHeight()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+visible {
		p.offset = p.cursor - visible + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// Done reports whether the session ended (applied or aborted).
func (p *Picker) Done() bool {
	return p.done
}

// Cancelled reports whether the user aborted without applying.
func (p *Picker) Cancelled() bool {
	return p.cancelled
}

// SelectedCount returns the number of selected nodes.
func (p *Picker) SelectedCount() int {
	n := 0
	for _, node := range p.cat.Nodes() {
		if node.IsSelected() {
			n++
		}
	}
	return n
}

// SelectedIDs returns the ids of all selected nodes in catalog order.
func (p *Picker) SelectedIDs() []string {
	var ids []string
	for _, node := range p.cat.Nodes() {
		if node.IsSelected() {
			ids = append(ids, node.NodeID())
		}
	}
	return ids
}

// RunPicker runs the picker in the current terminal and returns the selected
// ids, or nil if the user aborted.
func RunPicker(opts PickerOptions) ([]string, error) {
	model, err := NewPicker(opts)
	if err != nil {
		return nil, err
	}

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(*Picker)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", finalModel)
	}
	if m.Cancelled() {
		return nil, nil
	}
	return m.SelectedIDs(), nil
}
