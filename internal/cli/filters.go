package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/filter"
	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/monitor"
)

// buildTailOptions turns the filter flags into tail options for path
func buildTailOptions(path string, f TailFilterFlags) (domain.TailOptions, error) {
	opts := domain.TailOptions{
		FilePath:   path,
		TailCount:  f.Lines,
		Levels:     domain.NewLevelSet(f.Level...),
		TextFilter: strings.TrimSpace(f.Filter),
	}

	if f.MinLevel != "" {
		level, ok := domain.ParseLevel(f.MinLevel)
		if !ok {
			return opts, invalidFlag(fmt.Sprintf("unknown level %q for --min-level", f.MinLevel), "Use one of verbose, debug, info, warning, error, fatal")
		}
		opts.MinLevel = level
	}

	var err error
	if opts.From, err = parseBound("--from", f.From); err != nil {
		return opts, err
	}
	if opts.To, err = parseBound("--to", f.To); err != nil {
		return opts, err
	}
	opts.TimeRangeEnabled = opts.From != nil || opts.To != nil

	if opts.Match, err = compilePatterns("--match", f.Match); err != nil {
		return opts, err
	}
	if opts.Exclude, err = compilePatterns("--exclude", f.Exclude); err != nil {
		return opts, err
	}
	return opts, nil
}

// withConfigDefaults fills the level and text filters from the config file
// when they were not given on the command line
func withConfigDefaults(globals *Globals, f TailFilterFlags) TailFilterFlags {
	if len(f.Level) == 0 && !globals.FlagProvided("level") {
		f.Level = globals.Config.Tail.Levels
	}
	if f.Filter == "" && !globals.FlagProvided("filter") {
		f.Filter = globals.Config.Tail.Filter
	}
	return f
}

func parseBound(flag, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, ok := filter.ParseTimestamp(value)
	if !ok {
		return nil, invalidFlag(fmt.Sprintf("invalid timestamp %q for %s", value, flag), hintForTimestamp())
	}
	return &t, nil
}

func compilePatterns(flag string, patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, invalidFlag(fmt.Sprintf("invalid regex for %s: %v", flag, err), hintForPattern())
		}
		out = append(out, re)
	}
	return out, nil
}

// monitorConfig turns the monitor flags into a monitor configuration
func monitorConfig(globals *Globals, f TailMonitorFlags) (monitor.Config, error) {
	mode, err := domain.ParseMonitoringMode(f.Mode)
	if err != nil {
		return monitor.Config{}, invalidFlag(err.Error(), "")
	}
	deletion := monitor.DeletionSettings{
		StopImmediately: f.StopOnDelete || globals.Config.Deletion.StopImmediately,
		AutoWait:        globals.Config.Deletion.AutoWait,
		WaitTimeout:     f.WaitTimeout,
		CheckInterval:   f.CheckInterval,
	}
	return monitor.Config{
		Mode:         mode,
		PollInterval: f.Refresh,
		Deletion:     deletion,
		Logger:       globals.logger().Named("monitor"),
	}, nil
}

// loadFormats builds the registry from the built-ins and the custom formats
// file. Problems with the file are reported as warnings, never as errors.
func loadFormats(globals *Globals) *format.Registry {
	path := globals.Config.FormatsPath()
	res, err := format.LoadFile(path)
	if err != nil {
		emitWarning(globals, fmt.Sprintf("custom formats not loaded: %v", err))
		return format.NewRegistry()
	}
	for _, w := range res.Warnings {
		emitWarning(globals, w)
	}
	for _, skipped := range res.Skipped {
		emitWarning(globals, fmt.Sprintf("custom format skipped: %v", skipped))
	}
	globals.Debug("loaded %d custom formats from %s", len(res.Formats), path)
	return format.NewRegistry(res.Formats...)
}

// resolveFormat picks the named format, falling back to the default with a warning
func resolveFormat(globals *Globals, reg *format.Registry, name string) format.Descriptor {
	if name == "" {
		return format.Default()
	}
	d, ok := reg.Lookup(name)
	if !ok {
		emitWarning(globals, fmt.Sprintf("unknown log format %q, using %s", name, format.DefaultName))
		return format.Default()
	}
	return d
}
