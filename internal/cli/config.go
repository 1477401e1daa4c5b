package cli

import (
	"fmt"
	"strings"

	"github.com/vburojevic/ltail/internal/config"
	"github.com/vburojevic/ltail/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "config",
			"schemaVersion": output.SchemaVersion,
			"output":        cfg.Output,
			"quiet":         cfg.Quiet,
			"verbose":       cfg.Verbose,
			"log_format":    cfg.LogFormat,
			"formats_file":  cfg.FormatsPath(),
			"tail": map[string]interface{}{
				"lines":   cfg.Tail.Lines,
				"levels":  cfg.Tail.Levels,
				"filter":  cfg.Tail.Filter,
				"refresh": cfg.Tail.Refresh.String(),
				"mode":    cfg.Tail.Mode,
			},
			"deletion": map[string]interface{}{
				"stop_immediately": cfg.Deletion.StopImmediately,
				"auto_wait":        cfg.Deletion.AutoWait,
				"wait_timeout":     cfg.Deletion.WaitTimeout.String(),
				"check_interval":   cfg.Deletion.CheckInterval.String(),
			},
			"logging": map[string]interface{}{
				"level": cfg.Logging.Level,
				"path":  cfg.Logging.Path,
			},
			"config_file": globals.ConfigFile,
			"env":         globals.ConfigEnv,
		})
	}

	out := globals.Stdout
	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "  output:       %s\n", cfg.Output)
	fmt.Fprintf(out, "  quiet:        %v\n", cfg.Quiet)
	fmt.Fprintf(out, "  verbose:      %v\n", cfg.Verbose)
	fmt.Fprintf(out, "  log_format:   %s\n", cfg.LogFormat)
	fmt.Fprintf(out, "  formats_file: %s\n", cfg.FormatsPath())
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Tail:")
	fmt.Fprintf(out, "  lines:   %d\n", cfg.Tail.Lines)
	if len(cfg.Tail.Levels) > 0 {
		fmt.Fprintf(out, "  levels:  %s\n", strings.Join(cfg.Tail.Levels, ","))
	}
	if cfg.Tail.Filter != "" {
		fmt.Fprintf(out, "  filter:  %s\n", cfg.Tail.Filter)
	}
	fmt.Fprintf(out, "  refresh: %s\n", cfg.Tail.Refresh)
	fmt.Fprintf(out, "  mode:    %s\n", cfg.Tail.Mode)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Deletion:")
	fmt.Fprintf(out, "  stop_immediately: %v\n", cfg.Deletion.StopImmediately)
	fmt.Fprintf(out, "  auto_wait:        %v\n", cfg.Deletion.AutoWait)
	fmt.Fprintf(out, "  wait_timeout:     %s\n", cfg.Deletion.WaitTimeout)
	fmt.Fprintf(out, "  check_interval:   %s\n", cfg.Deletion.CheckInterval)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Logging:")
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	if cfg.Logging.Path != "" {
		fmt.Fprintf(out, "  path:  %s\n", cfg.Logging.Path)
	}

	if globals.ConfigFile != "" {
		fmt.Fprintln(out, "")
		fmt.Fprintf(out, "Loaded from: %s\n", globals.ConfigFile)
	}
	if len(globals.ConfigEnv) > 0 {
		fmt.Fprintf(out, "Environment: %s\n", strings.Join(globals.ConfigEnv, ", "))
	}
	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := globals.ConfigFile

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.ltail.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.ltail.yaml")
		if dir := config.Dir(); dir != "" {
			fmt.Fprintf(globals.Stdout, "  %s/config.yaml\n", dir)
		}
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}
	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	_, err := fmt.Fprint(globals.Stdout, sampleConfig)
	return err
}

const sampleConfig = `# ltail configuration file
# Place this file at ./.ltail.yaml, ~/.ltail.yaml or ~/.config/ltail/config.yaml

# Output format: "text" (default) or "ndjson"
output: text

# Suppress status lines (only emit log lines)
quiet: false

# Enable debug output
verbose: false

# Name of the log format used to parse lines (see 'ltail formats list')
log_format: Default

# Custom formats file (defaults to ~/.config/ltail/formats.json)
# formats_file: /path/to/formats.json

tail:
  # Number of entries to show from the end of the file
  lines: 10

  # Only show entries with these levels
  # levels:
  #   - ERROR
  #   - WARNING

  # Only show entries containing this text
  # filter: timeout

  # Polling interval
  refresh: 5s

  # Change detection: auto, realtime or polling
  mode: auto

deletion:
  # Stop as soon as the file is deleted
  stop_immediately: false

  # Wait for a deleted file to be recreated
  auto_wait: true

  # How long to wait (0 waits forever)
  wait_timeout: 60s

  # How often to check for the file while waiting
  check_interval: 2s

logging:
  # Diagnostic log level: debug, info, warn or error
  level: warn

  # Write diagnostics to a rotating file instead of stderr
  # path: /var/tmp/ltail.log
  # max_size: 10
  # max_backups: 3
  # max_age: 28
  # compress: false
`
