package engine

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/ltail/internal/change"
	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/monitor"
)

// errMonitorClosed stops the worker when the monitor's channel closes
var errMonitorClosed = errors.New("monitor closed")

// Sink receives everything a running session produces. Calls come from the
// session's goroutines and must not block for long.
type Sink interface {
	OnUpdate(Update)
	OnNotification(domain.Notification)
	OnError(error)
}

// SinkFuncs adapts plain functions to a Sink. Nil fields are ignored.
type SinkFuncs struct {
	Update       func(Update)
	Notification func(domain.Notification)
	Error        func(error)
}

func (f SinkFuncs) OnUpdate(u Update) {
	if f.Update != nil {
		f.Update(u)
	}
}

func (f SinkFuncs) OnNotification(n domain.Notification) {
	if f.Notification != nil {
		f.Notification(n)
	}
}

func (f SinkFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// Run starts mon on the session's file and performs a pass for every change
// it reports, until ctx is cancelled or the monitor is closed. The first pass
// runs immediately. Change notifications that arrive while a pass is running
// collapse into a single follow-up pass.
func (s *Session) Run(ctx context.Context, mon *monitor.Monitor, sink Sink) error {
	path := s.Options().FilePath
	if err := mon.Start(path); err != nil {
		return err
	}
	defer mon.Stop()

	s.RequestRefresh()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case n, ok := <-mon.Events():
				if !ok {
					return errMonitorClosed
				}
				switch n.(type) {
				case domain.Changed:
					s.RequestRefresh()
				case domain.Recreated:
					s.Reset()
				}
				sink.OnNotification(n)
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-s.requests:
				upd, err := s.Refresh()
				if err != nil {
					s.log.Debugw("tail pass failed", "path", path, "error", err)
					sink.OnError(err)
					continue
				}
				if upd.Skipped {
					s.RequestRefresh()
					continue
				}
				if upd.Kind != change.NoChange {
					sink.OnUpdate(upd)
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, errMonitorClosed) {
		return nil
	}
	return err
}
