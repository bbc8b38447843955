package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/selection"
	"github.com/desertthunder/labelgrid/internal/workspace"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GridView ViewState = iota
	LabelPickerView
)

type inputMode int

const (
	inputNone inputMode = iota
	inputNewLabel
	inputFilter
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusOK
	statusWarn
	statusError
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures a [Model].
type Options struct {
	Path          string        // folder opened first, relative to the workspace root
	CellWidth     int           // width of a grid cell including the gap
	StatusTimeout time.Duration // zero keeps a status until the next one replaces it
	Logger        *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	ws     *workspace.Workspace
	engine *selection.Engine
	logger *log.Logger

	view   ViewState
	width  int
	height int

	path     string
	content  *models.Content
	images   []models.Image
	cursor   int
	grid     grid
	labelIdx int
	labels   []selection.Item
	pending  string // label to highlight once content reloads

	mode   inputMode
	input  textinput.Model
	query  string
	picker list.Model

	status        string
	level         statusLevel
	statusID      int
	statusTimeout time.Duration
	busy          bool

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model browsing ws.
func NewModel(ctx context.Context, ws *workspace.Workspace, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	input := textinput.New()
	input.CharLimit = 255

	return &Model{
		ctx:           ctx,
		ws:            ws,
		engine:        selection.New(),
		logger:        logger,
		view:          GridView,
		width:         defaultWidth,
		height:        defaultHeight,
		path:          opts.Path,
		grid:          newGrid(opts.CellWidth),
		input:         input,
		statusTimeout: opts.StatusTimeout,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init loads the starting folder.
func (m *Model) Init() tea.Cmd {
	return m.load(m.path)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.view == LabelPickerView {
			m.picker.SetSize(msg.Width, msg.Height-2)
		}
		m.relayout()
		return m, nil

	case tea.MouseMsg:
		if m.view == GridView && m.content != nil {
			m.handleMouse(msg)
		} else if msg.Action == tea.MouseActionRelease {
			m.engine.EndMarquee()
		}
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		switch {
		case m.view == LabelPickerView:
			return m.handlePickerKeys(msg)
		case m.mode != inputNone:
			return m.handleInputKeys(msg)
		default:
			return m.handleGridKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgContentLoaded:
		data := msg.data.(contentLoaded)
		if data.err != nil {
			m.logger.Error("failed to load folder", "path", m.path, "error", data.err)
			if m.content == nil {
				m.err = data.err
				return m, nil
			}
			return m, m.setStatus(statusError, data.err.Error())
		}
		m.show(data.content)
		return m, nil

	case MsgLabelCreated:
		data := msg.data.(labelCreated)
		if data.err != nil {
			return m, m.setStatus(statusError, data.err.Error())
		}
		m.pending = data.label.Path
		return m, tea.Batch(
			m.setStatus(statusOK, fmt.Sprintf("Label %q created.", data.label.Name)),
			m.load(m.path),
		)

	case MsgAssignDone:
		data := msg.data.(assignDone)
		m.busy = false
		if data.err != nil {
			level := statusError
			if errors.Is(data.err, workspace.ErrNoSelection) {
				level = statusWarn
			}
			if data.result == nil {
				return m, m.setStatus(level, data.err.Error())
			}
		}

		level := statusOK
		if data.result.Failed() {
			level = statusWarn
		}
		summary := data.result.Summary()
		if data.err != nil {
			level = statusWarn
			summary += "\nStopped: " + data.err.Error()
		}
		m.logger.Info("assigned images", "label", data.label, "moved", data.result.Moved, "failed", len(data.result.Errors))
		return m, tea.Batch(m.setStatus(level, summary), m.load(m.path))

	case MsgStatusExpired:
		if id := msg.data.(int); id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

// show replaces the current folder listing. Moving to another folder clears the selection,
// reloading the same folder drops only the images that disappeared.
func (m *Model) show(content *models.Content) {
	navigated := m.content == nil || content.Path != m.path

	highlighted := m.pending
	if highlighted == "" {
		if l, ok := m.currentLabel(); ok && !navigated {
			highlighted = l.Path
		}
	}

	m.content = content
	m.path = content.Path
	m.pending = ""

	if navigated {
		m.engine.EndMarquee()
		m.engine.Clear()
		m.cursor = 0
		m.query = ""
		m.grid.top = 0
	}

	m.labelIdx = 0
	for i, l := range content.Labels {
		if l.Path == highlighted {
			m.labelIdx = i
		}
	}
	m.labels = labelBar(content.Labels)

	if removed := m.refreshItems(); len(removed) > 0 {
		m.logger.Debug("dropped stale selection", "ids", removed)
	}
}

// refreshItems applies the filter, lays the grid out again and prunes the selection
// to what is still listed. Returns the ids that were deselected.
func (m *Model) refreshItems() []string {
	if m.content == nil {
		return nil
	}
	m.images = workspace.FilterImages(m.content.Images, m.query)
	m.cursor = min(m.cursor, max(0, len(m.images)-1))
	m.relayout()
	return m.engine.PruneToKnownIDs(m.grid.items)
}

func (m *Model) relayout() {
	m.grid.layout(m.images, m.width, m.height-m.extraFooterLines(), m.cursor)
}

// extraFooterLines counts footer lines beyond the fixed prompt, status and help rows.
func (m *Model) extraFooterLines() int {
	extra := strings.Count(m.status, "\n")
	if m.help.ShowAll {
		rows := 0
		for _, col := range m.keys.FullHelp() {
			rows = max(rows, len(col))
		}
		extra += rows - 1
	}
	return extra
}

func (m *Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
	case key.Matches(msg, m.keys.extendUp):
		m.moveCursor(0, -1, true)
	case key.Matches(msg, m.keys.extendDown):
		m.moveCursor(0, 1, true)
	case key.Matches(msg, m.keys.extendLeft):
		m.moveCursor(-1, 0, true)
	case key.Matches(msg, m.keys.extendRight):
		m.moveCursor(1, 0, true)
	case key.Matches(msg, m.keys.up):
		m.moveCursor(0, -1, false)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(0, 1, false)
	case key.Matches(msg, m.keys.left):
		m.moveCursor(-1, 0, false)
	case key.Matches(msg, m.keys.right):
		m.moveCursor(1, 0, false)
	case key.Matches(msg, m.keys.toggle):
		if id, ok := m.cursorID(); ok {
			m.engine.Toggle(id)
		}
	case key.Matches(msg, m.keys.selectAll):
		if n := len(m.grid.items); n > 0 {
			m.engine.SelectRange(m.grid.items[0].ID, m.grid.items[n-1].ID, m.grid.items, false)
		}
	case key.Matches(msg, m.keys.clear):
		m.engine.Clear()
	case key.Matches(msg, m.keys.nextLabel):
		m.cycleLabel(1)
	case key.Matches(msg, m.keys.prevLabel):
		m.cycleLabel(-1)
	case key.Matches(msg, m.keys.pickLabel):
		m.openPicker()
	case key.Matches(msg, m.keys.assign):
		return m, m.assign()
	case key.Matches(msg, m.keys.open):
		if l, ok := m.currentLabel(); ok {
			return m, m.load(l.Path)
		}
	case key.Matches(msg, m.keys.parent):
		if m.path != "" {
			return m, m.load(workspace.Parent(m.path))
		}
	case key.Matches(msg, m.keys.newLabel):
		return m, m.prompt(inputNewLabel, "new label name", "")
	case key.Matches(msg, m.keys.filter):
		return m, m.prompt(inputFilter, "filter images", m.query)
	case key.Matches(msg, m.keys.refresh):
		m.ws.Invalidate()
		return m, m.load(m.path)
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		if m.mode == inputFilter && m.query != "" {
			m.query = ""
			m.refreshItems()
		}
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		mode, value := m.mode, strings.TrimSpace(m.input.Value())
		m.closePrompt()
		if mode == inputNewLabel && value != "" {
			return m, m.createLabel(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.mode == inputFilter && m.input.Value() != m.query {
		m.query = m.input.Value()
		if removed := m.refreshItems(); len(removed) > 0 {
			return m, tea.Batch(cmd, m.setStatus(statusInfo, fmt.Sprintf("%d hidden image(s) deselected.", len(removed))))
		}
	}
	return m, cmd
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.picker.FilterState() != list.Filtering {
		switch msg.String() {
		case "esc", "q":
			m.view = GridView
			return m, nil
		case "enter":
			if item, ok := m.picker.SelectedItem().(labelItem); ok {
				for i, l := range m.content.Labels {
					if l.Path == item.label.Path {
						m.labelIdx = i
					}
				}
			}
			m.view = GridView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// moveCursor moves the keyboard cursor. With extend the selection becomes the range from the
// anchor to the new cursor, anchoring at the old cursor when no anchor is set.
func (m *Model) moveCursor(dx, dy int, extend bool) {
	if len(m.images) == 0 {
		return
	}
	prev := m.cursor
	m.cursor = m.grid.move(m.cursor, dx, dy, len(m.images))
	m.relayout()

	if !extend {
		return
	}
	if _, ok := m.engine.Anchor(); !ok {
		m.engine.SelectSingle(m.grid.items[prev].ID)
	}
	m.engine.ExtendTo(m.grid.items[m.cursor].ID, m.grid.items, false)
}

func (m *Model) cursorID() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.grid.items) {
		return "", false
	}
	return m.grid.items[m.cursor].ID, true
}

func (m *Model) currentLabel() (models.Label, bool) {
	if m.content == nil || m.labelIdx < 0 || m.labelIdx >= len(m.content.Labels) {
		return models.Label{}, false
	}
	return m.content.Labels[m.labelIdx], true
}

func (m *Model) cycleLabel(delta int) {
	n := len(m.content.Labels)
	if n == 0 {
		return
	}
	m.labelIdx = ((m.labelIdx+delta)%n + n) % n
}

func (m *Model) openPicker() {
	if m.content == nil || len(m.content.Labels) == 0 {
		return
	}
	// The grid stops receiving motion once the picker covers it.
	m.engine.EndMarquee()
	m.picker = list.New(labelItems(m.content.Labels), list.NewDefaultDelegate(), m.width, m.height-2)
	m.picker.Title = "Labels"
	m.picker.Select(m.labelIdx)
	m.view = LabelPickerView
}

func (m *Model) prompt(mode inputMode, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode = inputNone
	m.input.Blur()
	m.input.Reset()
}

// assign moves the selected images, in display order, into the highlighted label.
func (m *Model) assign() tea.Cmd {
	if m.busy {
		return nil
	}
	label, ok := m.currentLabel()
	if !ok {
		return m.setStatus(statusWarn, "No label here. Press n to create one.")
	}

	files := m.engine.SelectedInOrder(m.grid.items)
	if len(files) == 0 {
		return m.setStatus(statusWarn, workspace.ErrNoSelection.Error())
	}

	m.busy = true
	ctx, ws := m.ctx, m.ws
	return tea.Batch(
		m.setStatus(statusInfo, fmt.Sprintf("Moving %d image(s) to %s...", len(files), label.Name)),
		func() tea.Msg {
			result, err := ws.Assign(ctx, files, label.Path)
			return assignDoneMsg(label.Path, result, err)
		},
	)
}

func (m *Model) load(path string) tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		content, err := ws.Content(path)
		return contentLoadedMsg(content, err)
	}
}

func (m *Model) createLabel(name string) tea.Cmd {
	ws, parent := m.ws, m.path
	return func() tea.Msg {
		label, err := ws.CreateLabel(parent, name)
		return labelCreatedMsg(label, err)
	}
}

// setStatus shows text in the status line and schedules its expiry.
func (m *Model) setStatus(level statusLevel, text string) tea.Cmd {
	m.statusID++
	m.status = text
	m.level = level
	m.relayout()

	if m.statusTimeout <= 0 {
		return nil
	}
	id := m.statusID
	return tea.Tick(m.statusTimeout, func(time.Time) tea.Msg { return statusExpiredMsg(id) })
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}
	if m.content == nil {
		return "Loading..."
	}
	if m.view == LabelPickerView {
		pickKeys := []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "highlight")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		}
		return fmt.Sprintf("%s\n%s", m.picker.View(), m.help.ShortHelpView(pickKeys))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderLabelBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString(m.renderPrompt())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader() string {
	crumbs := []string{"Workspace"}
	for _, c := range m.content.Breadcrumbs {
		crumbs = append(crumbs, c.Name)
	}

	info := fmt.Sprintf("%d image(s), %d selected", len(m.images), m.engine.Len())
	if m.query != "" {
		info += fmt.Sprintf(", filter %q", m.query)
	}
	return styles.title.Render(strings.Join(crumbs, " / ")) + "  " + styles.caption.Render(info)
}

func (m *Model) renderLabelBar() string {
	if len(m.content.Labels) == 0 {
		return labelBarPrefix + styles.help.Render("none, press n to create one")
	}

	chips := make([]string, len(m.content.Labels))
	for i, l := range m.content.Labels {
		style := styles.label
		if i == m.labelIdx {
			style = styles.labelActive
		}
		chips[i] = style.Render(labelChip(l.Name))
	}
	return labelBarPrefix + strings.Join(chips, " ")
}

func (m *Model) renderGrid() string {
	var b strings.Builder
	lines := 0

	if len(m.images) == 0 {
		msg := "No images in this folder."
		if m.query != "" {
			msg = "No images match the filter."
		}
		b.WriteString(styles.help.Render(msg))
		b.WriteString("\n")
		lines++
	}

	w := m.grid.cellWidth - cellGap
	gap := strings.Repeat(" ", cellGap)
	for row := m.grid.top; row < m.grid.top+m.grid.rows && len(m.images) > 0; row++ {
		start := row * m.grid.cols
		if start >= len(m.images) {
			break
		}
		end := min(start+m.grid.cols, len(m.images))

		var top, bottom strings.Builder
		for i := start; i < end; i++ {
			img := m.images[i]
			selected := m.engine.IsSelected(img.Path)

			mark, nameStyle, captionStyle := "[ ]", styles.cell, styles.caption
			if selected {
				mark, nameStyle, captionStyle = "[x]", styles.selected, styles.selected
			}
			if i == m.cursor {
				nameStyle = nameStyle.Inherit(styles.cursor)
			}

			top.WriteString(nameStyle.Width(w).Render(truncate(mark+" "+img.Name, w)))
			top.WriteString(gap)
			bottom.WriteString(captionStyle.Width(w).Render(truncate("    "+describe(img), w)))
			bottom.WriteString(gap)
		}

		b.WriteString(top.String())
		b.WriteString("\n")
		b.WriteString(bottom.String())
		b.WriteString("\n\n")
		lines += rowStride
	}

	for ; lines < m.grid.rows*rowStride; lines++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderPrompt() string {
	switch m.mode {
	case inputNewLabel:
		return "New label: " + m.input.View()
	case inputFilter:
		return "Filter: " + m.input.View()
	}
	if r, ok := m.engine.Marquee(); ok {
		return styles.caption.Render(fmt.Sprintf("selecting (%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom))
	}
	return ""
}

func (m *Model) renderStatus() string {
	switch m.level {
	case statusOK:
		return styles.ok.Render(m.status)
	case statusWarn:
		return styles.warn.Render(m.status)
	case statusError:
		return styles.err.Render(m.status)
	default:
		return m.status
	}
}
