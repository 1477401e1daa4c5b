package monitor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vburojevic/ltail/internal/domain"
)

// awaitRecreation checks for the file every CheckInterval until it exists on
// two checks SettleDelay apart, WaitTimeout has elapsed since the deletion, or
// ctx is cancelled. The attempt count in the status is informational only.
func (m *Monitor) awaitRecreation(ctx context.Context, gen uint64, path string) {
	defer m.wg.Done()

	settings := m.cfg.Deletion
	start := m.clk.Now()

	maxAttempts := 0
	var deadline <-chan time.Time
	if settings.WaitTimeout > 0 {
		maxAttempts = expectedAttempts(settings.WaitTimeout, settings.CheckInterval)
		timer := m.clk.Timer(settings.WaitTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return
		}
		m.emit(ctx, domain.StatusChanged{
			Message:  waitingMessage(attempt, maxAttempts),
			Severity: domain.SeverityWarning,
		})

		if fileExists(path) {
			if !m.sleep(ctx, m.cfg.SettleDelay) {
				return
			}
			if fileExists(path) {
				m.recreated(ctx, gen, path, m.clk.Since(start))
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-deadline:
			m.timedOut(ctx, gen, path, m.clk.Since(start), attempt)
			return
		case <-m.clk.After(settings.CheckInterval):
		}
		// the timer and the check tick can fire together
		if settings.WaitTimeout > 0 && m.clk.Since(start) >= settings.WaitTimeout {
			m.timedOut(ctx, gen, path, m.clk.Since(start), attempt)
			return
		}
	}
}

func (m *Monitor) recreated(ctx context.Context, gen uint64, path string, elapsed time.Duration) {
	m.mu.Lock()
	if gen != m.gen || ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	m.waitCancel = nil
	notes := m.startWatchingLocked()
	m.mu.Unlock()

	m.log.Infow("file recreated", "path", path, "elapsed", elapsed)
	m.emit(ctx, domain.Recreated{Path: path, Elapsed: elapsed})
	m.emit(ctx, domain.StatusChanged{Message: StatusRecreated, Severity: domain.SeverityNormal})
	m.emit(ctx, domain.StateChanged{From: domain.StateAwaitingRecreation, To: domain.StateWatching})
	for _, n := range notes {
		m.emit(ctx, n)
	}
	m.emit(ctx, domain.Changed{})
}

func (m *Monitor) timedOut(ctx context.Context, gen uint64, path string, elapsed time.Duration, attempts int) {
	m.mu.Lock()
	if gen != m.gen || ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	m.gen++
	m.waitCancel = nil
	m.state = domain.StateIdle
	m.mu.Unlock()

	m.log.Warnw("file was not recreated in time", "path", path, "elapsed", elapsed, "attempts", attempts)
	m.emit(ctx, domain.TimedOut{Path: path, Elapsed: elapsed, Attempts: attempts})
	m.emit(ctx, domain.StatusChanged{Message: StatusStopped, Severity: domain.SeverityError})
	m.emit(ctx, domain.StateChanged{From: domain.StateAwaitingRecreation, To: domain.StateIdle})
}

// sleep waits for d on the monitor clock. It returns false if ctx ended first.
func (m *Monitor) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-m.clk.After(d):
		return true
	}
}

// expectedAttempts is the number of checks that start before timeout elapses
func expectedAttempts(timeout, interval time.Duration) int {
	if interval <= 0 {
		return 1
	}
	return max(1, int((timeout+interval-1)/interval))
}

func waitingMessage(attempt, maxAttempts int) string {
	if maxAttempts > 0 {
		return fmt.Sprintf("%s | Waiting for file... (%d/%d)", StatusDeleted, attempt, maxAttempts)
	}
	return fmt.Sprintf("%s | Waiting for file... (%d)", StatusDeleted, attempt)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
