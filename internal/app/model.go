// Package app is the nodepick terminal application: a title bar with the
// saving status, the node dropdown, and a panel describing the selected
// node and its links.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/nodepick/internal/appstate"
	"github.com/runger/nodepick/internal/config"
	"github.com/runger/nodepick/internal/graph"
	"github.com/runger/nodepick/internal/journal"
	"github.com/runger/nodepick/internal/picker"
	"github.com/runger/nodepick/internal/window"
)

// DefaultTitle is shown in the title bar.
const DefaultTitle = "nodepick · Diagram"

// journalTimeout bounds a single journal write.
const journalTimeout = 2 * time.Second

// maxPanelLinks caps how many links per direction the panel lists.
const maxPanelLinks = 5

// chromeRows is the number of screen rows used by everything except the
// dropdown list.
const chromeRows = 6

// loadState is the graph loading state machine.
type loadState int

const (
	stateIdle    loadState = iota // Before the first load
	stateLoading                  // Load in progress
	stateLoaded                   // Graph has at least one node
	stateEmpty                    // Load succeeded with no nodes
	stateError                    // Load failed
)

// Loader produces the graph to pick from.
type Loader func(ctx context.Context) (*graph.Graph, error)

// Recorder persists confirmed selections.
type Recorder interface {
	Record(ctx context.Context, key, source string) (journal.Entry, error)
}

// Options configures New.
type Options struct {
	Title     string
	Loader    Loader
	Source    string // recorded with each journal entry
	Store     *appstate.Store
	Journal   Recorder // nil disables recording
	Logger    *slog.Logger
	Picker    config.PickerConfig
	SaveDelay time.Duration
}

// initMsg triggers the first load through Update.
type initMsg struct{}

// graphLoadedMsg carries the result of a Loader call.
type graphLoadedMsg struct {
	requestID uint64
	graph     *graph.Graph
	elapsed   time.Duration
	err       error
}

// finishSavingMsg fires after the save delay of a model change.
type finishSavingMsg struct{}

// selectionSink is the selector's OnSelect target and the store's
// listener. It lives behind a pointer so every copy of Model sees the
// current graph and the pending selection change.
type selectionSink struct {
	graph  *graph.Graph
	store  *appstate.Store
	logger *slog.Logger

	mu      sync.Mutex
	seen    string // last selection handed to the dropdown
	pending bool
}

// onStateChange runs on whichever goroutine changed the store.
func (s *selectionSink) onStateChange(st appstate.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.SelectedNode != s.seen {
		s.seen = st.SelectedNode
		s.pending = true
	}
}

// takeSelection returns the selection saved since the last call, if any.
func (s *selectionSink) takeSelection() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return "", false
	}
	s.pending = false
	return s.seen, true
}

// onSelect saves key as the selected node if the graph has it.
func (s *selectionSink) onSelect(key string) {
	if s.graph == nil || !s.graph.HasNode(key) {
		s.logger.Warn("selection ignored: unknown node", "key", key)
		return
	}
	s.store.SaveSelectedNode(key)
	s.logger.Info("node selected", "key", key)
}

// Model is the Bubble Tea model for the nodepick TUI.
type Model struct {
	title     string
	state     loadState
	err       error
	requestID uint64
	loader    Loader
	cancel    context.CancelFunc

	sink      *selectionSink
	store     *appstate.Store
	journal   Recorder
	source    string
	logger    *slog.Logger
	saveDelay time.Duration

	picker   picker.Model
	spinner  spinner.Model
	spinning bool
	help     help.Model
	keys     keyMap

	focusLink int // index into the selected node's links for Shrink
	notice    string

	pickerHeight int
	width        int
	height       int
}

// New creates the application model. Nothing is loaded until Init runs.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := opts.Store
	if store == nil {
		store = appstate.NewStore()
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	selected := store.SelectedNode()
	sink := &selectionSink{store: store, logger: logger, seen: selected}
	store.Subscribe(sink.onStateChange)
	sel := window.New(window.Options{
		BatchSize:   opts.Picker.BatchSize,
		MaxBatches:  opts.Picker.MaxBatches,
		Placeholder: opts.Picker.Placeholder,
		Tolerance:   opts.Picker.ScrollTolerance,
		OnSelect:    sink.onSelect,
	})
	pk := picker.New(sel, opts.Picker.Height).SetSelection(selected)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = savingStyle

	return Model{
		title:        title,
		state:        stateIdle,
		loader:       opts.Loader,
		sink:         sink,
		store:        store,
		journal:      opts.Journal,
		source:       opts.Source,
		logger:       logger,
		saveDelay:    opts.SaveDelay,
		picker:       pk,
		spinner:      sp,
		help:         help.New(),
		keys:         defaultKeyMap(pk.Keys()),
		pickerHeight: opts.Picker.Height,
	}
}

// Selected returns the selected node key, or "".
func (m Model) Selected() string {
	return m.store.SelectedNode()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return initMsg{} }, m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	if key, ok := m.sink.takeSelection(); ok {
		m.picker = m.picker.SetSelection(key)
	}
	m.keys.open = m.picker.IsOpen()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initMsg:
		m.spinning = true
		return m, m.startLoad()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		rows := m.pickerHeight
		if msg.Height > chromeRows {
			rows = min(rows, msg.Height-chromeRows)
		}
		m.picker = m.picker.SetSize(msg.Width, max(rows, 3))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case graphLoadedMsg:
		return m.handleLoaded(msg)

	case picker.SelectedMsg:
		m.focusLink = 0
		m.notice = ""
		return m, m.recordCmd(msg.ID)

	case finishSavingMsg:
		m.store.FinishSaving()
		return m, nil

	case spinner.TickMsg:
		if m.store.LoadingStatus() != appstate.StatusSaving && m.state != stateLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancelInflight()
		return m, tea.Quit
	}

	if m.picker.IsOpen() {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelInflight()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reload):
		return m, m.startLoad()

	case key.Matches(msg, m.keys.Grow):
		return m.growNodeFont()

	case key.Matches(msg, m.keys.Shrink):
		return m.shrinkLinkFont()

	case key.Matches(msg, m.keys.NextLink):
		if n := len(m.selectedLinks()); n > 0 {
			m.focusLink = (m.focusLink + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.store.SaveSelectedNode("")
		m.focusLink = 0
		return m, nil
	}

	if m.state != stateLoaded && m.state != stateEmpty {
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// startLoad cancels any in-flight load, bumps requestID and returns the
// command that runs the loader.
func (m *Model) startLoad() tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading
	m.err = nil

	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	loader := m.loader
	return func() tea.Msg {
		if loader == nil {
			return graphLoadedMsg{requestID: reqID, err: fmt.Errorf("no graph loader configured")}
		}
		start := time.Now()
		g, err := loader(ctx)
		return graphLoadedMsg{requestID: reqID, graph: g, elapsed: time.Since(start), err: err}
	}
}

func (m *Model) cancelInflight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) handleLoaded(msg graphLoadedMsg) (Model, tea.Cmd) {
	if msg.requestID != m.requestID {
		return m, nil
	}
	m.cancel = nil

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.logger.Error("graph load failed", "error", msg.err)
		return m, nil
	}

	g := msg.graph
	m.sink.graph = g
	m.picker = m.picker.SetItems(g.Items())
	if sel := m.store.SelectedNode(); sel != "" && !g.HasNode(sel) {
		m.store.SaveSelectedNode("")
	}
	m.focusLink = 0
	if g.Len() == 0 {
		m.state = stateEmpty
	} else {
		m.state = stateLoaded
	}
	m.logger.Info("graph loaded",
		"nodes", g.Len(),
		"links", len(g.Links()),
		"elapsed_ms", msg.elapsed.Milliseconds(),
	)

	// A freshly loaded diagram is a model change.
	return m, m.modelChanged()
}

// modelChanged flips the status to saving and schedules the transition
// back to saved. Earlier timers are not cancelled.
func (m *Model) modelChanged() tea.Cmd {
	m.store.StartSaving()
	cmds := []tea.Cmd{
		tea.Tick(m.saveDelay, func(time.Time) tea.Msg { return finishSavingMsg{} }),
	}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) growNodeFont() (Model, tea.Cmd) {
	nodeKey := m.store.SelectedNode()
	if nodeKey == "" || m.sink.graph == nil {
		m.notice = "select a node first"
		return m, nil
	}
	size, err := m.sink.graph.IncreaseNodeFont(nodeKey)
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = fmt.Sprintf("%s font → %d", nodeKey, size)
	m.logger.Debug("node font increased", "key", nodeKey, "size", size)
	return m, m.modelChanged()
}

func (m Model) shrinkLinkFont() (Model, tea.Cmd) {
	links := m.selectedLinks()
	if len(links) == 0 {
		m.notice = "no link to edit"
		return m, nil
	}
	idx := links[m.focusLink%len(links)]
	size, err := m.sink.graph.DecreaseLinkFont(idx)
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	l, _ := m.sink.graph.Link(idx)
	m.notice = fmt.Sprintf("%s font → %d", linkName(l), size)
	m.logger.Debug("link font decreased", "link", idx, "size", size)
	return m, m.modelChanged()
}

// selectedLinks returns the selected node's outgoing then incoming links.
func (m Model) selectedLinks() []int {
	nodeKey := m.store.SelectedNode()
	if nodeKey == "" || m.sink.graph == nil {
		return nil
	}
	out := m.sink.graph.Outgoing(nodeKey)
	in := m.sink.graph.Incoming(nodeKey)
	links := make([]int, 0, len(out)+len(in))
	links = append(links, out...)
	return append(links, in...)
}

func (m Model) recordCmd(key string) tea.Cmd {
	if m.journal == nil {
		return nil
	}
	j, source, logger := m.journal, m.source, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		if _, err := j.Record(ctx, key, source); err != nil {
			logger.Warn("journal record failed", "key", key, "error", err)
		}
		return nil
	}
}

func linkName(l graph.Link) string {
	if l.Text != "" {
		return l.Text
	}
	return l.From + " → " + l.To
}
