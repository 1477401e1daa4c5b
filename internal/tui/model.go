package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/ltail/internal/change"
	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/output"
	"github.com/vburojevic/ltail/internal/parser"
)

var highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Bold(true)

// Controller changes what the running session does
type Controller interface {
	Pause() bool
	Resume() bool
	Refresh()
	SetTextFilter(text string)
	SetMinLevel(level domain.Level)
	SetFormat(d format.Descriptor)
	SeenLevels() []string
	Method() string
}

// maxSeenLevels caps the level tokens listed in the header
const maxSeenLevels = 5

// Model represents the TUI state
type Model struct {
	path     string
	parser   *parser.LineParser
	formats  []format.Descriptor
	current  string
	ctrl     Controller
	messages <-chan tea.Msg

	lines     []string
	content   string
	viewport  viewport.Model
	textinput textinput.Model
	width     int
	height    int
	ready     bool
	editing   bool
	filter    string
	minLevel  domain.Level
	paused    bool
	pending   int
	follow    bool
	state     domain.MonitorState
	status    string
	severity  domain.Severity
	stats     Stats
	seen      []string
}

// Stats counts the entries in the window by level
type Stats struct {
	Entries  int
	Warnings int
	Errors   int
	Fatal    int
}

// New creates a new TUI model
func New(path string, p *parser.LineParser, ctrl Controller, messages <-chan tea.Msg) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter text..."
	ti.CharLimit = 200
	ti.Width = 40

	return Model{
		path:      path,
		parser:    p,
		ctrl:      ctrl,
		messages:  messages,
		textinput: ti,
		follow:    true,
		state:     domain.StateIdle,
	}
}

// WithFormats lists the formats the F key cycles through, starting after current
func (m Model) WithFormats(all []format.Descriptor, current string) Model {
	m.formats = slices.Clone(all)
	m.current = current
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return waitForMsg(m.messages)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "esc":
				m.editing = false
				m.textinput.Blur()
				m.textinput.SetValue(m.filter)
			case "enter":
				m.editing = false
				m.textinput.Blur()
				m.filter = strings.TrimSpace(m.textinput.Value())
				m.ctrl.SetTextFilter(m.filter)
			default:
				m.textinput, cmd = m.textinput.Update(msg)
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.editing = true
			m.textinput.Focus()
			return m, textinput.Blink
		case "esc":
			if m.filter != "" {
				m.filter = ""
				m.textinput.SetValue("")
				m.ctrl.SetTextFilter("")
			}
		case "p", " ":
			if m.paused {
				m.ctrl.Resume()
			} else {
				m.ctrl.Pause()
			}
		case "r":
			m.ctrl.Refresh()
		case "F":
			m.nextFormat()
		case "f":
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
		case "0":
			m.setMinLevel("")
		case "1", "2", "3", "4", "5", "6":
			m.setMinLevel(domain.Levels[msg.String()[0]-'1'])
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		case "j", "down":
			m.viewport.LineDown(1)
		case "k", "up":
			m.viewport.LineUp(1)
		case "ctrl+d", "pgdown":
			m.viewport.HalfViewDown()
		case "ctrl+u", "pgup":
			m.viewport.HalfViewUp()
		}
		// the viewport default bindings clash with p, f and space
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 2
		viewportHeight := max(m.height-headerHeight-footerHeight, 1)

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewport()

	case UpdateMsg:
		m.apply(msg)
		cmds = append(cmds, waitForMsg(m.messages))

	case NoteMsg:
		m.note(msg.Notification)
		cmds = append(cmds, waitForMsg(m.messages))

	case ErrMsg:
		m.status = msg.Err.Error()
		m.severity = domain.SeverityError
		cmds = append(cmds, waitForMsg(m.messages))
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setMinLevel(level domain.Level) {
	if m.minLevel == level {
		return
	}
	m.minLevel = level
	m.ctrl.SetMinLevel(level)
}

// nextFormat switches both the session and the local colouring to the next format
func (m *Model) nextFormat() {
	if len(m.formats) < 2 {
		return
	}
	i := slices.IndexFunc(m.formats, func(d format.Descriptor) bool {
		return strings.EqualFold(d.Name, m.current)
	})
	next := m.formats[(i+1)%len(m.formats)]
	m.current = next.Name
	m.parser = parser.New(next)
	m.seen = nil
	m.ctrl.SetFormat(next)
	m.status = "Format: " + next.Name
	m.severity = domain.SeverityNormal
	m.render()
}

// apply folds a tail pass into the window
func (m *Model) apply(u UpdateMsg) {
	switch u.Kind {
	case change.FullReload:
		m.lines = slices.Clone(u.Lines)
	case change.Append:
		m.lines = append(m.lines, u.Lines...)
		if u.Trimmed > 0 && u.Trimmed <= len(m.lines) {
			m.lines = slices.Clone(m.lines[u.Trimmed:])
		}
	default:
		return
	}
	m.seen = m.ctrl.SeenLevels()
	m.render()
}

func (m *Model) note(n domain.Notification) {
	switch n := n.(type) {
	case domain.StatusChanged:
		m.status = n.Message
		m.severity = n.Severity
	case domain.BufferedCountChanged:
		m.pending = n.Count
	case domain.StateChanged:
		m.state = n.To
		m.paused = n.To == domain.StatePaused
		if !m.paused {
			m.pending = 0
		}
	case domain.RotationDetected:
		if n.Type != domain.RotationDeleted {
			m.status = fmt.Sprintf("File %s", n.Type)
			m.severity = domain.SeverityWarning
		}
	}
}

// render rebuilds the viewport content and the level counts
func (m *Model) render() {
	m.stats = Stats{}
	var b strings.Builder
	var level domain.Level
	for i, line := range m.lines {
		if m.parser.IsHeader(line) {
			level, _ = m.parser.ExtractLevel(line)
			m.stats.Entries++
			switch level {
			case domain.LevelWarning:
				m.stats.Warnings++
			case domain.LevelError:
				m.stats.Errors++
			case domain.LevelFatal:
				m.stats.Fatal++
			}
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.formatLine(line, level))
	}
	m.content = b.String()
	m.updateViewport()
}

func (m *Model) formatLine(line string, level domain.Level) string {
	if m.filter != "" {
		return highlight(line, m.filter, output.LevelStyle(level))
	}
	return output.LevelStyle(level).Render(line)
}

func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.content)

	// Auto-scroll to bottom when follow mode is on
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), m.viewport.View(), m.renderFooter())
}

func (m *Model) renderHeader() string {
	titleStyle := output.Styles.Title.
		Background(lipgloss.Color("236")).
		Width(m.width)

	title := "ltail: " + m.path
	if m.paused {
		title += " [PAUSED]"
		if m.pending > 0 {
			title += fmt.Sprintf(" (%d pending)", m.pending)
		}
	}
	if !m.follow {
		title += " [NO-FOLLOW]"
	}

	info := fmt.Sprintf("Entries: %d | Lines: %d", m.stats.Entries, len(m.lines))
	if m.stats.Warnings > 0 {
		info += " | " + output.Styles.Warning.Render(fmt.Sprintf("Warnings: %d", m.stats.Warnings))
	}
	if m.stats.Errors > 0 {
		info += " | " + output.Styles.Error.Render(fmt.Sprintf("Errors: %d", m.stats.Errors))
	}
	if m.stats.Fatal > 0 {
		info += " | " + output.Styles.Fatal.Render(fmt.Sprintf("Fatal: %d", m.stats.Fatal))
	}
	if m.minLevel != "" {
		info += fmt.Sprintf(" | Level: %s+", m.minLevel)
	}
	if m.filter != "" {
		info += fmt.Sprintf(" | Filter: %q", m.filter)
	}
	if m.current != "" {
		info += " | Format: " + m.current
	}
	if len(m.seen) > 0 {
		info += " | Seen: " + strings.Join(m.seen[:min(len(m.seen), maxSeenLevels)], ",")
	}
	if method := m.ctrl.Method(); method != "" {
		info += " | " + method
	}

	return titleStyle.Render(title) + "\n" + output.Styles.Label.Width(m.width).Render(info)
}

func (m *Model) renderFooter() string {
	if m.editing {
		return "\n" + m.textinput.View()
	}

	status := ""
	if m.status != "" {
		status = output.StatusStyle(m.severity).Render(m.status)
	}
	help := "q:quit /:filter 0-6:level p:pause r:refresh f:follow F:format g/G:top/bottom j/k:scroll"
	return status + "\n" + output.Styles.Help.Width(m.width).Render(help)
}

func highlight(s, query string, base lipgloss.Style) string {
	if query == "" || s == "" {
		return base.Render(s)
	}
	qs := strings.ToLower(query)
	ls := strings.ToLower(s)
	var b strings.Builder
	for {
		idx := strings.Index(ls, qs)
		if idx < 0 {
			b.WriteString(base.Render(s))
			break
		}
		b.WriteString(base.Render(s[:idx]))
		b.WriteString(highlightStyle.Render(s[idx : idx+len(qs)]))
		s = s[idx+len(qs):]
		ls = ls[idx+len(qs):]
	}
	return b.String()
}

// waitForMsg creates a command that waits for the next session message
func waitForMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
