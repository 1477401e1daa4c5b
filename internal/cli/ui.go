package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/engine"
	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/monitor"
	"github.com/vburojevic/ltail/internal/parser"
	"github.com/vburojevic/ltail/internal/tui"
)

// UICmd runs the interactive TUI viewer
type UICmd struct {
	TailFilterFlags
	TailMonitorFlags

	File string `arg:"" type:"path" help:"Log file to view"`
}

// Run executes the UI command
func (c *UICmd) Run(globals *Globals) error {
	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(signalCtx)
	defer cancel()

	opts, err := buildTailOptions(c.File, withConfigDefaults(globals, c.TailFilterFlags))
	if err != nil {
		return outputError(globals, err)
	}
	registry := loadFormats(globals)
	desc := resolveFormat(globals, registry, c.LogFormat)

	// stderr belongs to the screen while the program runs
	if globals.Config.Logging.Path == "" {
		globals.Logger = zap.NewNop().Sugar()
	}

	session, err := engine.Open(opts, desc, globals.logger().Named("engine"))
	if err != nil {
		return outputError(globals, err)
	}
	cfg, err := monitorConfig(globals, c.TailMonitorFlags)
	if err != nil {
		return outputError(globals, err)
	}
	mon := monitor.New(cfg)
	defer mon.Close()

	bridge := tui.NewBridge(ctx.Done())
	model := tui.New(c.File, parser.New(desc), &sessionController{session: session, mon: mon}, bridge.Messages()).
		WithFormats(registry.All(), desc.Name)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return session.Run(gctx, mon, bridge)
	})
	group.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return outputError(globals, err)
	}
	return nil
}

// sessionController lets the TUI steer a running session
type sessionController struct {
	session *engine.Session
	mon     *monitor.Monitor
}

func (c *sessionController) Pause() bool  { return c.mon.Pause() }
func (c *sessionController) Resume() bool { return c.mon.Resume() }

// Refresh forces a full reload on the next pass
func (c *sessionController) Refresh() {
	c.session.Reset()
	c.session.RequestRefresh()
}

func (c *sessionController) SetTextFilter(text string) {
	opts := c.session.Options()
	opts.TextFilter = text
	c.session.SetOptions(opts)
}

func (c *sessionController) SetMinLevel(level domain.Level) {
	opts := c.session.Options()
	opts.MinLevel = level
	c.session.SetOptions(opts)
}

// SetFormat switches the log format; the window is rebuilt with a full reload
func (c *sessionController) SetFormat(d format.Descriptor) {
	c.session.SetFormat(d)
}

func (c *sessionController) SeenLevels() []string { return c.session.SeenLevels() }

func (c *sessionController) Method() string { return c.mon.Method() }
