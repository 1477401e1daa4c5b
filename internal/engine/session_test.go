package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vburojevic/ltail/internal/change"
	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/errs"
	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/monitor"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func appendLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	require.NoError(t, err)
}

func open(t *testing.T, opts domain.TailOptions) *Session {
	t.Helper()
	s, err := Open(opts, format.Default(), nil)
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(domain.TailOptions{FilePath: filepath.Join(t.TempDir(), "nope.log")}, format.Default(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrFileNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Open(domain.TailOptions{FilePath: t.TempDir()}, format.Default(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrUnclassified)
	})

	t.Run("zero descriptor falls back to default", func(t *testing.T) {
		path := writeLog(t, "2024-01-01 10:00:00 [INFO] Svc up")
		s, err := Open(domain.TailOptions{FilePath: path}, format.Descriptor{}, nil)
		require.NoError(t, err)
		assert.Equal(t, format.DefaultName, s.Format().Name)
	})
}

func TestRefreshClassifiesPasses(t *testing.T) {
	path := writeLog(t,
		"2024-01-01 10:00:00 [INFO] Svc started",
		"2024-01-01 10:00:01 [ERROR] Svc failed",
		"   at Svc.Run()",
	)
	s := open(t, domain.TailOptions{FilePath: path, TailCount: 10})

	upd, err := s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, change.FullReload, upd.Kind)
	assert.Len(t, upd.Lines, 3)
	assert.Equal(t, 3, upd.Total)

	upd, err = s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, change.NoChange, upd.Kind)

	appendLog(t, path, "2024-01-01 10:00:02 [WARNING] Svc slow")
	upd, err = s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, change.Append, upd.Kind)
	assert.Equal(t, []string{"2024-01-01 10:00:02 [WARNING] Svc slow"}, upd.Lines)
	assert.Equal(t, 4, upd.Total)
	assert.Len(t, s.Window(), 4)

	assert.ElementsMatch(t, []string{"INFO", "ERROR", "WARNING"}, s.SeenLevels())
}

func TestSetOptionsForcesReload(t *testing.T) {
	path := writeLog(t,
		"2024-01-01 10:00:00 [INFO] Svc started",
		"2024-01-01 10:00:01 [ERROR] Svc failed",
	)
	s := open(t, domain.TailOptions{FilePath: path})
	_, err := s.Refresh()
	require.NoError(t, err)

	opts := s.Options()
	opts.Levels = domain.NewLevelSet("error")
	s.SetOptions(opts)

	upd, err := s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, change.FullReload, upd.Kind)
	assert.Equal(t, []string{"2024-01-01 10:00:01 [ERROR] Svc failed"}, upd.Lines)
}

func TestTruncationReloads(t *testing.T) {
	path := writeLog(t,
		"2024-01-01 10:00:00 [INFO] one",
		"2024-01-01 10:00:01 [INFO] two",
	)
	s := open(t, domain.TailOptions{FilePath: path})
	_, err := s.Refresh()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("2024-01-01 11:00:00 [INFO] fresh\n"), 0o644))
	upd, err := s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, change.FullReload, upd.Kind)
	assert.Equal(t, []string{"2024-01-01 11:00:00 [INFO] fresh"}, s.Window())
}

func TestRefreshSkipsWhileBusy(t *testing.T) {
	path := writeLog(t, "2024-01-01 10:00:00 [INFO] one")
	s := open(t, domain.TailOptions{FilePath: path})

	s.pass.Lock()
	upd, err := s.Refresh()
	s.pass.Unlock()
	require.NoError(t, err)
	assert.True(t, upd.Skipped)

	upd, err = s.Refresh()
	require.NoError(t, err)
	assert.False(t, upd.Skipped)
	assert.Equal(t, change.FullReload, upd.Kind)
}

func TestRefreshDeletedFile(t *testing.T) {
	path := writeLog(t, "2024-01-01 10:00:00 [INFO] one")
	s := open(t, domain.TailOptions{FilePath: path})
	require.NoError(t, os.Remove(path))

	_, err := s.Refresh()
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrFileNotFound)
}

func TestWindowTrimmedOnAppend(t *testing.T) {
	path := writeLog(t, "2024-01-01 10:00:00 [INFO] one")
	s := open(t, domain.TailOptions{FilePath: path})
	s.window = []string{"a", "b", "c"}

	upd := s.applyLocked(change.Result{Kind: change.Append, Added: []string{"d", "e"}}, 4)
	assert.Equal(t, 1, upd.Trimmed)
	assert.Equal(t, 4, upd.Total)
	assert.Equal(t, []string{"b", "c", "d", "e"}, s.window)
}

type recorder struct {
	mu      sync.Mutex
	updates []Update
	kinds   []string
	errs    []error
}

func (r *recorder) OnUpdate(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recorder) OnNotification(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, n.Kind())
}

func (r *recorder) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) snapshot() ([]Update, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.updates...), append([]string(nil), r.kinds...)
}

func TestRunFollowsFile(t *testing.T) {
	path := writeLog(t, "2024-01-01 10:00:00 [INFO] Svc started")
	s := open(t, domain.TailOptions{FilePath: path})

	mon := monitor.New(monitor.Config{
		Mode:         domain.ModePolling,
		PollInterval: 20 * time.Millisecond,
		Deletion:     monitor.DeletionSettings{StopImmediately: true},
	})
	defer mon.Close()

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, mon, rec) }()

	require.Eventually(t, func() bool {
		updates, _ := rec.snapshot()
		return len(updates) == 1 && updates[0].Kind == change.FullReload
	}, 5*time.Second, 5*time.Millisecond)

	appendLog(t, path, "2024-01-01 10:00:01 [ERROR] Svc failed")
	require.Eventually(t, func() bool {
		updates, _ := rec.snapshot()
		return len(updates) >= 2 && updates[len(updates)-1].Kind == change.Append
	}, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, kinds := rec.snapshot()
		for _, k := range kinds {
			if k == "deleted" {
				return true
			}
		}
		return false
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, domain.StateIdle, mon.State())
}

func TestRunReturnsWhenMonitorCloses(t *testing.T) {
	path := writeLog(t, "2024-01-01 10:00:00 [INFO] Svc started")
	s := open(t, domain.TailOptions{FilePath: path})
	mon := monitor.New(monitor.Config{Mode: domain.ModePolling, PollInterval: time.Hour})

	rec := &recorder{}
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), mon, rec) }()

	require.Eventually(t, func() bool {
		updates, _ := rec.snapshot()
		return len(updates) == 1
	}, 5*time.Second, 5*time.Millisecond)

	mon.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after monitor close")
	}
}
