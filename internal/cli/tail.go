package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/engine"
	"github.com/vburojevic/ltail/internal/errs"
	"github.com/vburojevic/ltail/internal/logging"
	"github.com/vburojevic/ltail/internal/monitor"
	"github.com/vburojevic/ltail/internal/output"
	"github.com/vburojevic/ltail/internal/parser"
)

// TailCmd prints the end of a log file and follows it
type TailCmd struct {
	TailFilterFlags
	TailMonitorFlags

	NoFollow bool   `help:"Print the selected entries once and exit"`
	File     string `arg:"" type:"path" help:"Log file to tail"`
}

// Run executes the tail command
func (c *TailCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.run(logging.WithContext(ctx, globals.logger()), globals)
}

func (c *TailCmd) run(ctx context.Context, globals *Globals) error {
	opts, err := buildTailOptions(c.File, withConfigDefaults(globals, c.TailFilterFlags))
	if err != nil {
		return outputError(globals, err)
	}
	desc := resolveFormat(globals, loadFormats(globals), c.LogFormat)
	globals.Debug("tailing %s: %d entries, format %s, levels %v, filter %q", c.File, opts.EffectiveTailCount(), desc.Name, c.Level, opts.TextFilter)

	session, err := engine.Open(opts, desc, logging.Get(ctx).Named("engine"))
	if err != nil {
		return outputError(globals, err)
	}
	writer := c.newWriter(globals, parser.New(desc))

	if c.NoFollow {
		upd, err := session.Refresh()
		if err != nil {
			return outputError(globals, err)
		}
		return writer.WriteUpdate(c.File, upd)
	}

	cfg, err := monitorConfig(globals, c.TailMonitorFlags)
	if err != nil {
		return outputError(globals, err)
	}
	mon := monitor.New(cfg)
	defer mon.Close()

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	emitter := output.NewEmitter(writer, c.File)
	sink := &followSink{Emitter: emitter, path: c.File, stop: cancel}
	if err := session.Run(runCtx, mon, sink); err != nil {
		return outputError(globals, err)
	}

	if cause := context.Cause(runCtx); ctx.Err() == nil && cause != nil && !errors.Is(cause, context.Canceled) {
		return outputError(globals, cause)
	}
	return emitter.Err()
}

func (c *TailCmd) newWriter(globals *Globals, p *parser.LineParser) output.Writer {
	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		if globals.Quiet {
			return quietWriter{w}
		}
		return w
	}
	tw := output.NewTextWriter(globals.Stdout, globals.Stderr, p)
	tw.Quiet = globals.Quiet
	tw.Clear = !c.NoFollow && isTerminal(globals.Stdout)
	return tw
}

// followSink ends a follow once the monitor gives up on the file
type followSink struct {
	*output.Emitter
	path     string
	stop     context.CancelCauseFunc
	timedOut bool
}

func (s *followSink) OnNotification(n domain.Notification) {
	s.Emitter.OnNotification(n)
	switch n := n.(type) {
	case domain.TimedOut:
		s.timedOut = true
	case domain.StatusChanged:
		if n.Message != monitor.StatusStopped {
			return
		}
		if s.timedOut {
			s.stop(errs.NewTimeout("waiting for " + s.path + " to be recreated"))
			return
		}
		s.stop(errs.NewFileNotFound(s.path))
	}
}

// quietWriter drops notifications
type quietWriter struct {
	output.Writer
}

func (quietWriter) WriteNotification(domain.Notification) error { return nil }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
