package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/ltail/internal/change"
	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/engine"
	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/parser"
)

type fakeController struct {
	paused    int
	resumed   int
	refreshed int
	filters   []string
	levels    []domain.Level
	formats   []string
	seen      []string
}

func (f *fakeController) Pause() bool                   { f.paused++; return true }
func (f *fakeController) Resume() bool                  { f.resumed++; return true }
func (f *fakeController) Refresh()                      { f.refreshed++ }
func (f *fakeController) SetTextFilter(text string)     { f.filters = append(f.filters, text) }
func (f *fakeController) SetMinLevel(lvl domain.Level) { f.levels = append(f.levels, lvl) }
func (f *fakeController) SetFormat(d format.Descriptor) { f.formats = append(f.formats, d.Name) }
func (f *fakeController) SeenLevels() []string          { return f.seen }
func (f *fakeController) Method() string                { return "polling" }

func newModel(t *testing.T) (Model, *fakeController) {
	t.Helper()
	ctrl := &fakeController{}
	m := New("/var/log/app.log", parser.New(format.Default()), ctrl, make(chan tea.Msg))
	return step(t, m, tea.WindowSizeMsg{Width: 120, Height: 30}), ctrl
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var sample = []string{
	"2024-01-01 10:00:00 [INFO] Svc started",
	"2024-01-01 10:00:01 [ERROR] Svc failed",
	"   at Svc.Run()",
	"2024-01-01 10:00:02 [WARNING] Svc slow",
}

func TestUpdateAppliesPasses(t *testing.T) {
	m, _ := newModel(t)

	m = step(t, m, UpdateMsg(engine.Update{Kind: change.FullReload, Lines: sample, Total: 4}))
	assert.Equal(t, sample, m.lines)
	assert.Equal(t, Stats{Entries: 3, Warnings: 1, Errors: 1}, m.stats)
	assert.Contains(t, m.content, "Svc failed")

	m = step(t, m, UpdateMsg(engine.Update{Kind: change.Append, Lines: []string{"2024-01-01 10:00:03 [FATAL] Svc down"}, Trimmed: 2}))
	assert.Equal(t, []string{sample[2], sample[3], "2024-01-01 10:00:03 [FATAL] Svc down"}, m.lines)
	assert.Equal(t, 2, m.stats.Entries, "orphaned continuation line is not an entry")
	assert.Equal(t, 1, m.stats.Fatal)

	m = step(t, m, UpdateMsg(engine.Update{Kind: change.NoChange}))
	assert.Len(t, m.lines, 3)

	m = step(t, m, UpdateMsg(engine.Update{Kind: change.FullReload, Lines: sample[:1]}))
	assert.Equal(t, sample[:1], m.lines)
}

func TestPauseFlow(t *testing.T) {
	m, ctrl := newModel(t)

	m = step(t, m, key("p"))
	assert.Equal(t, 1, ctrl.paused)
	assert.False(t, m.paused, "paused state comes from the monitor")

	m = step(t, m, NoteMsg{domain.StateChanged{From: domain.StateWatching, To: domain.StatePaused}})
	m = step(t, m, NoteMsg{domain.BufferedCountChanged{Count: 3}})
	assert.True(t, m.paused)
	assert.Equal(t, 3, m.pending)
	assert.Contains(t, m.View(), "[PAUSED] (3 pending)")

	m = step(t, m, key(" "))
	assert.Equal(t, 1, ctrl.resumed)

	m = step(t, m, NoteMsg{domain.StateChanged{From: domain.StatePaused, To: domain.StateWatching}})
	assert.False(t, m.paused)
	assert.Zero(t, m.pending)
	assert.NotContains(t, m.View(), "PAUSED")
}

func TestFilterEditing(t *testing.T) {
	m, ctrl := newModel(t)

	m = step(t, m, key("/"))
	require.True(t, m.editing)
	for _, r := range "slow" {
		m = step(t, m, key(string(r)))
	}
	m = step(t, m, key("enter"))
	assert.False(t, m.editing)
	assert.Equal(t, "slow", m.filter)
	assert.Equal(t, []string{"slow"}, ctrl.filters)
	assert.Contains(t, m.View(), `Filter: "slow"`)

	m = step(t, m, key("esc"))
	assert.Empty(t, m.filter)
	assert.Equal(t, []string{"slow", ""}, ctrl.filters)

	m = step(t, m, key("/"))
	m = step(t, m, key("x"))
	m = step(t, m, key("esc"))
	assert.False(t, m.editing)
	assert.Len(t, ctrl.filters, 2, "cancelled edit changes nothing")
}

func TestMinLevelKeys(t *testing.T) {
	m, ctrl := newModel(t)

	m = step(t, m, key("5"))
	m = step(t, m, key("5"))
	assert.Equal(t, domain.LevelError, m.minLevel)
	m = step(t, m, key("0"))
	assert.Equal(t, []domain.Level{domain.LevelError, ""}, ctrl.levels)

	step(t, m, key("r"))
	assert.Equal(t, 1, ctrl.refreshed)
}

func TestFormatKey(t *testing.T) {
	m, ctrl := newModel(t)
	m = m.WithFormats(format.BuiltIns(), "Default")

	m = step(t, m, key("F"))
	assert.Equal(t, []string{"Serilog"}, ctrl.formats)
	assert.Contains(t, m.View(), "Format: Serilog")

	for range len(format.BuiltIns()) - 1 {
		m = step(t, m, key("F"))
	}
	assert.Equal(t, "Default", ctrl.formats[len(ctrl.formats)-1], "cycling wraps around")
	assert.Len(t, ctrl.formats, len(format.BuiltIns()))

	single, ctrl := newModel(t)
	single = single.WithFormats([]format.Descriptor{format.Default()}, "Default")
	step(t, single, key("F"))
	assert.Empty(t, ctrl.formats, "nothing to switch to")
}

func TestSeenLevelsInHeader(t *testing.T) {
	m, ctrl := newModel(t)
	ctrl.seen = []string{"INFO", "ERROR", "WARN", "DEBUG", "TRACE", "FATAL"}

	m = step(t, m, UpdateMsg{Kind: change.FullReload, Lines: []string{"2024-01-15 10:00:00 [INFO] up"}})
	view := m.View()
	assert.Contains(t, view, "Seen: INFO,ERROR,WARN,DEBUG,TRACE")
	assert.NotContains(t, view, "FATAL")
}

func TestStatusLine(t *testing.T) {
	m, _ := newModel(t)

	m = step(t, m, NoteMsg{domain.StatusChanged{Message: "File deleted | Waiting for file... (1/30)", Severity: domain.SeverityWarning}})
	assert.Contains(t, m.View(), "Waiting for file... (1/30)")

	m = step(t, m, NoteMsg{domain.RotationDetected{Type: domain.RotationTruncated}})
	assert.Equal(t, "File truncated", m.status)

	m = step(t, m, ErrMsg{errors.New("read failed")})
	assert.Equal(t, domain.SeverityError, m.severity)
	assert.Contains(t, m.View(), "read failed")
	assert.Contains(t, m.View(), "polling")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBridge(t *testing.T) {
	done := make(chan struct{})
	b := NewBridge(done)

	b.OnUpdate(engine.Update{Kind: change.FullReload})
	b.OnNotification(domain.Deleted{Path: "a.log"})
	b.OnError(errors.New("boom"))

	assert.IsType(t, UpdateMsg{}, <-b.Messages())
	assert.Equal(t, NoteMsg{domain.Deleted{Path: "a.log"}}, <-b.Messages())
	assert.IsType(t, ErrMsg{}, <-b.Messages())

	close(done)
	for i := 0; i < 100; i++ {
		b.OnError(errors.New("dropped once full"))
	}
}

func TestHighlight(t *testing.T) {
	plain := highlight("Svc SLOW request", "slow", highlightStyle.UnsetBackground().UnsetForeground().UnsetBold())
	assert.Contains(t, plain, "SLOW")
}
