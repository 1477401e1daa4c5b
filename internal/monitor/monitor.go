// Package monitor follows a single log file through its lifecycle: content
// changes, pauses, deletion or rotation, and recreation.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/vburojevic/ltail/internal/domain"
)

const (
	DefaultDebounce      = 500 * time.Millisecond
	DefaultSettleDelay   = 500 * time.Millisecond
	DefaultPollInterval  = 5 * time.Second
	DefaultWaitTimeout   = 60 * time.Second
	DefaultCheckInterval = 2 * time.Second

	notificationBuffer = 256
)

// Status messages emitted while handling a deleted file
const (
	StatusDeleted   = "File deleted"
	StatusStopped   = "File not found | Monitoring stopped"
	StatusRecreated = "File recreated - monitoring resumed"
)

// DeletionSettings controls what happens when the watched file disappears
type DeletionSettings struct {
	// StopImmediately goes idle on deletion without waiting
	StopImmediately bool
	// AutoWait waits for the file to come back. Disabled behaves like StopImmediately.
	AutoWait bool
	// WaitTimeout bounds the wait; zero waits until stopped
	WaitTimeout time.Duration
	// CheckInterval is the pause between existence checks
	CheckInterval time.Duration
}

// DefaultDeletionSettings waits up to a minute, checking every two seconds
func DefaultDeletionSettings() DeletionSettings {
	return DeletionSettings{
		AutoWait:      true,
		WaitTimeout:   DefaultWaitTimeout,
		CheckInterval: DefaultCheckInterval,
	}
}

// Config configures a Monitor. Zero durations take the defaults.
type Config struct {
	Mode         domain.MonitoringMode
	PollInterval time.Duration
	Debounce     time.Duration
	SettleDelay  time.Duration
	Deletion     DeletionSettings
	Clock        clock.Clock
	Logger       *zap.SugaredLogger
}

// Monitor watches one file and reports what happens to it as notifications.
// All notifications go to a single buffered channel returned by Events.
type Monitor struct {
	cfg Config
	clk clock.Clock
	log *zap.SugaredLogger

	events    chan domain.Notification
	done      chan struct{}
	closeOnce sync.Once
	sendMu    sync.RWMutex
	closed    bool

	mu            sync.Mutex
	state         domain.MonitorState
	path          string
	gen           uint64
	pending       int
	polling       bool
	watcherActive bool
	runCancel     context.CancelFunc
	runCtx        context.Context
	watchCancel   context.CancelFunc
	waitCancel    context.CancelFunc
	wg            sync.WaitGroup
}

// New creates an idle monitor
func New(cfg Config) *Monitor {
	if cfg.Mode == "" {
		cfg.Mode = domain.ModeAuto
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Deletion.CheckInterval <= 0 {
		cfg.Deletion.CheckInterval = DefaultCheckInterval
	}
	if cfg.Deletion.WaitTimeout < 0 {
		cfg.Deletion.WaitTimeout = 0
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	return &Monitor{
		cfg:    cfg,
		clk:    cfg.Clock,
		log:    cfg.Logger,
		events: make(chan domain.Notification, notificationBuffer),
		done:   make(chan struct{}),
		state:  domain.StateIdle,
	}
}

// Events returns the notification channel. It is closed by Close.
func (m *Monitor) Events() <-chan domain.Notification {
	return m.events
}

// State returns the current lifecycle state
func (m *Monitor) State() domain.MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsWatcherActive reports whether filesystem events are being delivered.
// False while polling, idle, or waiting for recreation.
func (m *Monitor) IsWatcherActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watcherActive
}

// Method returns the active detection method, or "" when idle
func (m *Monitor) Method() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.state == domain.StateIdle || m.state == domain.StateAwaitingRecreation:
		return ""
	case m.polling:
		return domain.DetectedByPolling
	default:
		return domain.DetectedByEvents
	}
}

// PendingChanges returns how many changes arrived while paused
func (m *Monitor) PendingChanges() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Path returns the absolute path being watched
func (m *Monitor) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// Start begins watching path, restarting if the monitor was already running.
// Watch setup problems do not fail Start: the monitor falls back to polling
// and reports the reason as a status notification.
func (m *Monitor) Start(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("monitor: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("monitor: resolve %s: %w", path, err)
	}

	select {
	case <-m.done:
		return errors.New("monitor: closed")
	default:
	}

	m.Stop()

	m.mu.Lock()
	m.path = abs
	m.runCtx, m.runCancel = context.WithCancel(context.Background())
	notes := m.startWatchingLocked()
	method := m.methodLocked()
	m.mu.Unlock()

	m.log.Infow("monitoring started", "path", abs, "method", method)
	m.emit(context.Background(), domain.StateChanged{From: domain.StateIdle, To: domain.StateWatching})
	for _, n := range notes {
		m.emit(context.Background(), n)
	}
	return nil
}

// Stop releases the watch handle, cancels any recreation wait and goes idle.
// No further notifications from the previous run are emitted after Stop returns.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.runCancel == nil {
		m.mu.Unlock()
		return
	}
	m.runCancel()
	m.runCancel = nil
	m.watchCancel = nil
	m.waitCancel = nil
	m.gen++
	from := m.state
	m.state = domain.StateIdle
	m.pending = 0
	m.watcherActive = false
	m.mu.Unlock()

	m.wg.Wait()
	if from != domain.StateIdle {
		m.log.Infow("monitoring stopped", "path", m.Path(), "from", from)
		m.emit(context.Background(), domain.StateChanged{From: from, To: domain.StateIdle})
	}
}

// Close stops the monitor and closes the notification channel
func (m *Monitor) Close() {
	m.closeOnce.Do(func() {
		m.Stop()
		close(m.done)
		m.sendMu.Lock()
		m.closed = true
		close(m.events)
		m.sendMu.Unlock()
	})
}

// Pause holds back change notifications and counts them instead.
// It reports whether the monitor was watching.
func (m *Monitor) Pause() bool {
	m.mu.Lock()
	if m.state != domain.StateWatching {
		m.mu.Unlock()
		return false
	}
	m.state = domain.StatePaused
	m.mu.Unlock()

	m.emit(context.Background(), domain.StateChanged{From: domain.StateWatching, To: domain.StatePaused})
	return true
}

// Resume leaves the paused state. If any change arrived while paused a single
// Changed notification is emitted. It reports whether the monitor was paused.
func (m *Monitor) Resume() bool {
	m.mu.Lock()
	if m.state != domain.StatePaused {
		m.mu.Unlock()
		return false
	}
	m.state = domain.StateWatching
	pending := m.pending
	m.pending = 0
	m.mu.Unlock()

	ctx := context.Background()
	m.emit(ctx, domain.StateChanged{From: domain.StatePaused, To: domain.StateWatching})
	if pending > 0 {
		m.emit(ctx, domain.BufferedCountChanged{Count: 0})
		m.emit(ctx, domain.Changed{})
	}
	return true
}

// startWatchingLocked starts the event or polling goroutine for m.path and
// returns notifications to emit once the lock is released.
func (m *Monitor) startWatchingLocked() []domain.Notification {
	m.gen++
	gen := m.gen
	if m.watchCancel != nil {
		m.watchCancel()
	}
	ctx, cancel := context.WithCancel(m.runCtx)
	m.watchCancel = cancel
	m.state = domain.StateWatching
	m.pending = 0

	// the baseline is taken before returning so a write that lands right
	// after Start is seen as a change
	base := statFile(m.path)

	var notes []domain.Notification
	polling := m.cfg.Mode == domain.ModePolling ||
		(m.cfg.Mode == domain.ModeAuto && IsNetworkPath(m.path))

	if !polling {
		w, err := newDirWatcher(m.path)
		if err != nil {
			m.log.Warnw("file watcher unavailable, polling instead", "path", m.path, "error", err)
			notes = append(notes, domain.StatusChanged{
				Message:  fmt.Sprintf("watcher inactive: %v", err),
				Severity: domain.SeverityWarning,
			})
			polling = true
		} else {
			m.wg.Add(1)
			go m.watchEvents(ctx, gen, m.path, w, base)
		}
	}

	m.polling = polling
	m.watcherActive = !polling
	if polling {
		m.wg.Add(1)
		go m.poll(ctx, gen, m.path, base)
	}
	return notes
}

func (m *Monitor) methodLocked() string {
	if m.polling {
		return domain.DetectedByPolling
	}
	return domain.DetectedByEvents
}

func newDirWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// watchEvents forwards fsnotify events for the watched file. Content changes
// are debounced; deletion and rename end the goroutine.
func (m *Monitor) watchEvents(ctx context.Context, gen uint64, path string, w *fsnotify.Watcher, base fileStat) {
	defer m.wg.Done()
	defer w.Close()

	lastSize := base.size

	var debounce *clock.Timer
	var settled <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !samePath(ev.Name, path) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				m.handleDeletion(ctx, gen, domain.RotationDeleted, path, "", domain.DetectedByEvents)
				return
			case ev.Has(fsnotify.Rename):
				m.handleDeletion(ctx, gen, domain.RotationRenamed, path, "", domain.DetectedByEvents)
				return
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
				size := fileSize(path)
				if size >= 0 && size < lastSize {
					m.truncated(ctx, path, domain.DetectedByEvents)
				}
				lastSize = size
				if debounce != nil {
					debounce.Stop()
				}
				debounce = m.clk.Timer(m.cfg.Debounce)
				settled = debounce.C
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log.Warnw("watcher error", "path", path, "error", err)

		case <-settled:
			settled = nil
			m.changed(ctx, gen)
		}
	}
}

// poll compares size and modification time every PollInterval
func (m *Monitor) poll(ctx context.Context, gen uint64, path string, base fileStat) {
	defer m.wg.Done()

	ticker := m.clk.Ticker(m.cfg.PollInterval)
	defer ticker.Stop()

	lastSize, lastMod := base.size, base.mod

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					m.handleDeletion(ctx, gen, domain.RotationDeleted, path, "", domain.DetectedByPolling)
					return
				}
				m.log.Debugw("poll stat failed", "path", path, "error", err)
				continue
			}
			size, mod := info.Size(), info.ModTime()
			if size == lastSize && mod.Equal(lastMod) {
				continue
			}
			if lastSize >= 0 && size < lastSize {
				m.truncated(ctx, path, domain.DetectedByPolling)
			}
			lastSize, lastMod = size, mod
			m.changed(ctx, gen)
		}
	}
}

// changed emits Changed, or counts it while paused
func (m *Monitor) changed(ctx context.Context, gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	switch m.state {
	case domain.StatePaused:
		m.pending++
		count := m.pending
		m.mu.Unlock()
		m.emit(ctx, domain.BufferedCountChanged{Count: count})
	case domain.StateWatching:
		m.mu.Unlock()
		m.emit(ctx, domain.Changed{})
	default:
		m.mu.Unlock()
	}
}

func (m *Monitor) truncated(ctx context.Context, path, method string) {
	m.log.Infow("file truncated", "path", path)
	m.emit(ctx, domain.RotationDetected{
		Type:            domain.RotationTruncated,
		OldPath:         path,
		NewPath:         path,
		DetectionMethod: method,
		At:              m.clk.Now(),
	})
}

// handleDeletion reports a deleted or renamed file and either goes idle or
// starts waiting for the file to come back.
func (m *Monitor) handleDeletion(ctx context.Context, gen uint64, typ domain.RotationType, oldPath, newPath, method string) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.gen++
	waitGen := m.gen
	from := m.state
	m.pending = 0
	m.watcherActive = false
	if m.waitCancel != nil {
		m.waitCancel()
		m.waitCancel = nil
	}
	stop := m.cfg.Deletion.StopImmediately || !m.cfg.Deletion.AutoWait
	if stop {
		m.state = domain.StateIdle
	} else {
		m.state = domain.StateAwaitingRecreation
	}
	to := m.state
	m.mu.Unlock()

	m.log.Infow("file went away", "path", oldPath, "type", typ, "method", method)
	m.emit(ctx, domain.RotationDetected{
		Type:            typ,
		OldPath:         oldPath,
		NewPath:         newPath,
		DetectionMethod: method,
		At:              m.clk.Now(),
	})
	m.emit(ctx, domain.Deleted{Path: oldPath})
	m.emit(ctx, domain.StatusChanged{Message: StatusDeleted, Severity: domain.SeverityWarning})
	m.emit(ctx, domain.StateChanged{From: from, To: to})

	if stop {
		m.emit(ctx, domain.StatusChanged{Message: StatusStopped, Severity: domain.SeverityError})
		return
	}

	m.mu.Lock()
	if waitGen != m.gen || m.runCtx == nil || m.runCtx.Err() != nil {
		m.mu.Unlock()
		return
	}
	waitCtx, cancel := context.WithCancel(m.runCtx)
	m.waitCancel = cancel
	m.wg.Add(1)
	go m.awaitRecreation(waitCtx, waitGen, oldPath)
	m.mu.Unlock()
}

func (m *Monitor) emit(ctx context.Context, n domain.Notification) {
	m.sendMu.RLock()
	defer m.sendMu.RUnlock()
	if m.closed || ctx.Err() != nil {
		return
	}
	select {
	case m.events <- n:
	case <-ctx.Done():
	case <-m.done:
	}
}

func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// fileStat is the size and modification time of a file; size is -1 when
// the file cannot be read
type fileStat struct {
	size int64
	mod  time.Time
}

func statFile(path string) fileStat {
	info, err := os.Stat(path)
	if err != nil {
		return fileStat{size: -1}
	}
	return fileStat{size: info.Size(), mod: info.ModTime()}
}

// fileSize returns the size of path or -1 when it cannot be read
func fileSize(path string) int64 {
	return statFile(path).size
}
