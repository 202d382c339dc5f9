// Package picker renders a window.Selector as a keyboard and mouse driven
// dropdown for Bubble Tea programs.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/runger/nodepick/internal/sanitize"
	"github.com/runger/nodepick/internal/window"
)

// wheelStep is how many rows one mouse wheel notch scrolls.
const wheelStep = 3

// defaultHeight is used when New is given a non-positive height.
const defaultHeight = 12

// SelectedMsg is emitted after the selection sink accepted a choice.
type SelectedMsg struct {
	ID string
}

// rowKey identifies a rendered row: the same label renders differently at
// different widths.
type rowKey struct {
	id    string
	width int
}

// Model is the dropdown component. The Selector it wraps is shared between
// copies of the Model, as Bubble Tea runs Update on a single goroutine.
type Model struct {
	sel  *window.Selector
	keys KeyMap
	rows *lru.Cache[rowKey, string]

	cursor int // index into sel.Window()
	offset int // first visible row of sel.Window()
	height int // visible rows while open
	width  int // terminal width; 0 before the first WindowSizeMsg
}

// New creates a closed dropdown over sel.
func New(sel *window.Selector, height int) Model {
	if height <= 0 {
		height = defaultHeight
	}
	sel.FitView(height)
	rows, _ := lru.New[rowKey, string](max(sel.BatchSize()*sel.MaxBatches(), 64))
	return Model{
		sel:    sel,
		keys:   DefaultKeyMap(),
		rows:   rows,
		height: height,
	}
}

// Keys returns the key bindings, for help rendering.
func (m Model) Keys() KeyMap { return m.keys }

// Selector returns the wrapped selector.
func (m Model) Selector() *window.Selector { return m.sel }

// IsOpen reports whether the dropdown list is showing.
func (m Model) IsOpen() bool { return m.sel.IsOpen() }

// Cursor returns the highlighted row as an index into the window.
func (m Model) Cursor() int { return m.cursor }

// Offset returns the first visible row as an index into the window.
func (m Model) Offset() int { return m.offset }

// Highlighted returns the item under the cursor.
func (m Model) Highlighted() (window.Item, bool) {
	items := m.sel.Window()
	if m.cursor < 0 || m.cursor >= len(items) {
		return window.Item{}, false
	}
	return items[m.cursor], true
}

// SetItems replaces the item list and resets the scroll position.
func (m Model) SetItems(items []window.Item) Model {
	m.sel.SetItems(items)
	m.cursor, m.offset = 0, 0
	m.rows.Purge()
	return m
}

// SetSelection reports the externally owned selection. A new value resets
// the scroll position along with the selector's window.
func (m Model) SetSelection(id string) Model {
	if m.sel.Selection() == id {
		return m
	}
	m.sel.SetExternalSelection(id)
	m.cursor, m.offset = 0, 0
	return m
}

// SetSize sets the available width and the number of list rows.
func (m Model) SetSize(width, height int) Model {
	if width != m.width {
		m.rows.Purge()
	}
	m.width = width
	if height > 0 {
		m.height = height
		m.sel.FitView(height)
	}
	m.ensureVisible()
	return m
}

// Open shows the list, with the cursor on the current selection when it
// is inside the window.
func (m Model) Open() Model {
	m.sel.Open()
	m.cursor, m.offset = 0, 0
	if id := m.sel.Selection(); id != "" {
		for i, it := range m.sel.Window() {
			if it.ID == id {
				m.cursor = i
				break
			}
		}
	}
	m.ensureVisible()
	return m
}

// Update handles keys and mouse wheel events. Keys it does not use are
// ignored so the parent can handle them.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.sel.IsOpen() || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			m.scrollBy(wheelStep)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.sel.IsOpen() {
		if key.Matches(msg, m.keys.Open) {
			return m.Open(), nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		m.sel.Close()
	case key.Matches(msg, m.keys.Choose):
		return m.choose()
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		m.move(m.visibleRows())
	case key.Matches(msg, m.keys.Home):
		m.jump(0)
	case key.Matches(msg, m.keys.End):
		m.jump(len(m.sel.Window()) - 1)
	}
	return m, nil
}

func (m Model) choose() (Model, tea.Cmd) {
	it, ok := m.Highlighted()
	if !ok || !m.sel.Choose(it.ID) {
		return m, nil
	}
	id := it.ID
	return m, func() tea.Msg { return SelectedMsg{ID: id} }
}

// move shifts the cursor and scrolls it into view.
func (m *Model) move(delta int) {
	n := len(m.sel.Window())
	if n == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, n-1)
	m.ensureVisible()
	m.syncScroll()
}

// jump puts the cursor on a window row without reporting the scroll, so
// the window bounds stay put until the next move at the edge.
func (m *Model) jump(row int) {
	if len(m.sel.Window()) == 0 {
		return
	}
	m.cursor = row
	m.ensureVisible()
}

// scrollBy moves the viewport, dragging the cursor along when it would
// leave the visible rows.
func (m *Model) scrollBy(delta int) {
	n := len(m.sel.Window())
	if n == 0 {
		return
	}
	vis := m.visibleRows()
	m.offset = clamp(m.offset+delta, 0, max(0, n-vis))
	m.cursor = clamp(m.cursor, m.offset, m.offset+vis-1)
	m.syncScroll()
}

// syncScroll reports the viewport to the selector, then realigns cursor
// and viewport so the same items stay on screen after a load step.
func (m *Model) syncScroll() {
	n := len(m.sel.Window())
	sh := m.sel.HandleScroll(float64(m.offset), float64(n), float64(min(m.height, n)))
	if !sh.Changed() {
		return
	}
	d := sh.Offset()
	m.cursor += d
	m.offset += d
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	n := len(m.sel.Window())
	if n == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	vis := m.visibleRows()
	m.cursor = clamp(m.cursor, 0, n-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vis {
		m.offset = m.cursor - vis + 1
	}
	m.offset = clamp(m.offset, 0, max(0, n-vis))
}

func (m Model) visibleRows() int {
	return max(1, min(m.height, len(m.sel.Window())))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// --- View rendering ---

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("237")).Padding(0, 1)
	cursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	currentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	normalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the header and, while open, the visible rows.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	if !m.sel.IsOpen() {
		return b.String()
	}
	b.WriteRune('\n')
	b.WriteString(m.viewList())
	b.WriteRune('\n')
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	arrow := "▸"
	if m.sel.IsOpen() {
		arrow = "▾"
	}
	label := m.sel.HeaderLabel()
	if m.width > 8 {
		label = sanitize.MiddleTruncate(label, m.width-8)
	}
	if m.sel.Selection() == "" {
		return placeholderStyle.Render(arrow + " " + label)
	}
	return headerStyle.Render(arrow + " " + label)
}

func (m Model) viewList() string {
	items := m.sel.Window()
	if len(items) == 0 {
		return dimStyle.Render("  No nodes")
	}

	selected := m.sel.Selection()
	end := min(m.offset+m.visibleRows(), len(items))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		it := items[i]
		text := m.rowText(it)
		switch {
		case i == m.cursor:
			lines = append(lines, cursorStyle.Render("> "+text))
		case it.ID == selected:
			lines = append(lines, currentStyle.Render("* "+text))
		default:
			lines = append(lines, normalStyle.Render("  "+text))
		}
	}
	return strings.Join(lines, "\n")
}

// rowText returns the display text for it, truncated to the width.
func (m Model) rowText(it window.Item) string {
	k := rowKey{id: it.ID, width: m.width}
	if s, ok := m.rows.Get(k); ok {
		return s
	}
	text := sanitize.Label(it.DisplayLabel())
	if m.width > 4 {
		text = sanitize.MiddleTruncate(text, m.width-4)
	}
	m.rows.Add(k, text)
	return text
}

func (m Model) viewFooter() string {
	start, end := m.sel.Bounds()
	if start == end {
		return dimStyle.Render(fmt.Sprintf("  0 of %d", m.sel.Len()))
	}
	first := start + m.offset + 1
	last := start + min(m.offset+m.visibleRows(), end-start)
	return dimStyle.Render(fmt.Sprintf("  %d-%d of %d · batch %d", first, last, m.sel.Len(), m.sel.BatchIndex()))
}
