// Package engine drives tail passes: read the end of the file, filter it into
// blocks, and classify the result against the previous pass.
package engine

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/vburojevic/ltail/internal/change"
	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/errs"
	"github.com/vburojevic/ltail/internal/filter"
	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/parser"
	"github.com/vburojevic/ltail/internal/tail"
)

// Update is the result of one pass
type Update struct {
	Kind change.Kind
	// Lines holds the whole filtered output for a reload and the new lines for an append
	Lines []string
	// Trimmed is how many lines were dropped from the front of the window
	Trimmed int
	// Total is the number of lines in the window after the update
	Total int
	// Skipped is set when another pass was already running
	Skipped bool
}

// Session owns the state of one tailed file
type Session struct {
	log *zap.SugaredLogger

	pass sync.Mutex

	mu       sync.Mutex
	opts     domain.TailOptions
	format   format.Descriptor
	parser   *parser.LineParser
	chain    *filter.Chain
	version  uint64
	previous []string
	window   []string
	levels   map[string]int

	requests chan struct{}
}

// Open validates that the file exists and prepares a session for it
func Open(opts domain.TailOptions, d format.Descriptor, log *zap.SugaredLogger) (*Session, error) {
	info, err := os.Stat(opts.FilePath)
	if err != nil {
		return nil, errs.FromIO(opts.FilePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", errs.ErrUnclassified, opts.FilePath)
	}
	if d.LevelRegexp() == nil {
		d = format.Default()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &Session{
		log:      log,
		levels:   make(map[string]int),
		requests: make(chan struct{}, 1),
	}
	s.configure(opts, d)
	return s, nil
}

func (s *Session) configure(opts domain.TailOptions, d format.Descriptor) {
	s.opts = opts
	s.format = d
	s.parser = parser.New(d)
	s.chain = filter.Build(opts, s.parser)
	s.previous = nil
	s.version++
}

// Options returns the current options
func (s *Session) Options() domain.TailOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Format returns the current log format
func (s *Session) Format() format.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// SetOptions replaces the options; the next pass is a full reload
func (s *Session) SetOptions(opts domain.TailOptions) {
	s.mu.Lock()
	s.configure(opts, s.format)
	s.mu.Unlock()
	s.RequestRefresh()
}

// SetFormat switches the log format; the next pass is a full reload
func (s *Session) SetFormat(d format.Descriptor) {
	s.mu.Lock()
	s.configure(s.opts, d)
	s.levels = make(map[string]int)
	s.mu.Unlock()
	s.RequestRefresh()
}

// Reset forgets the previous output so the next pass is a full reload
func (s *Session) Reset() {
	s.mu.Lock()
	s.previous = nil
	s.version++
	s.mu.Unlock()
}

// RequestRefresh queues a pass for Run. Requests made while one is queued are merged.
func (s *Session) RequestRefresh() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

// Window returns the lines currently displayed
func (s *Session) Window() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.window)
}

// SeenLevels returns the level tokens seen so far, most frequent first
func (s *Session) SeenLevels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.levels))
	for token := range s.levels {
		out = append(out, token)
	}
	sort.Slice(out, func(i, j int) bool {
		if s.levels[out[i]] != s.levels[out[j]] {
			return s.levels[out[i]] > s.levels[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// Refresh runs one read, filter and classify pass. If a pass is already
// running it returns immediately with Skipped set.
func (s *Session) Refresh() (Update, error) {
	if !s.pass.TryLock() {
		return Update{Skipped: true}, nil
	}
	defer s.pass.Unlock()

	s.mu.Lock()
	opts, p, chain, previous, version := s.opts, s.parser, s.chain, s.previous, s.version
	s.mu.Unlock()

	lines, err := tail.ReadLast(opts.FilePath, opts.EffectiveTailCount())
	if err != nil {
		return Update{}, err
	}
	filtered := filter.ApplyChain(lines, chain, p)
	res := change.Classify(previous, filtered)

	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version {
		// options changed mid-pass; the queued pass will reload
		return Update{Skipped: true}, nil
	}
	s.previous = filtered
	upd := s.applyLocked(res, opts.EffectiveTailCount()*tail.Overread)
	s.log.Debugw("tail pass", "path", opts.FilePath, "read", len(lines), "kept", len(filtered), "kind", upd.Kind)
	return upd, nil
}

// applyLocked updates the window for a classification result
func (s *Session) applyLocked(res change.Result, limit int) Update {
	upd := Update{Kind: res.Kind, Lines: res.Added}
	switch res.Kind {
	case change.FullReload:
		s.window = slices.Clone(res.Added)
		s.countLevelsLocked(res.Added)
	case change.Append:
		s.window = append(s.window, res.Added...)
		s.countLevelsLocked(res.Added)
		if over := len(s.window) - limit; limit > 0 && over > 0 {
			s.window = slices.Clone(s.window[over:])
			upd.Trimmed = over
		}
	}
	upd.Total = len(s.window)
	return upd
}

func (s *Session) countLevelsLocked(lines []string) {
	for _, line := range lines {
		if !s.parser.IsHeader(line) {
			continue
		}
		if token := s.parser.LevelToken(line); token != "" {
			s.levels[token]++
		}
	}
}
