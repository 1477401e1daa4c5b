package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/ltail/internal/cli"
	"github.com/vburojevic/ltail/internal/config"
	"github.com/vburojevic/ltail/internal/logging"
)

const quickStart = `ltail - follow log files as they grow

START HERE:
  ltail app.log

Useful flags:
  -n 50            Show the last 50 entries
  -l ERROR,WARNING Only these levels
  -f timeout       Only entries containing "timeout"
  -F Serilog       Parse lines with another format ('ltail formats list')
  -o ndjson        Machine-readable output

Other commands:
  ltail ui app.log           Interactive viewer
  ltail validate app.log     Check that a file looks like a log
  ltail formats list         List log formats
  ltail config show          Show the effective configuration
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment (plus provenance metadata).
	cfg, meta, err := config.LoadWithMeta()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
		meta = nil
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_output":         cfg.Output,
		"config_lines":          fmt.Sprint(cfg.Tail.Lines),
		"config_log_format":     cfg.LogFormat,
		"config_mode":           cfg.Tail.Mode,
		"config_refresh":        cfg.Tail.Refresh.String(),
		"config_wait_timeout":   cfg.Deletion.WaitTimeout.String(),
		"config_check_interval": cfg.Deletion.CheckInterval.String(),
	}

	ctx := kong.Parse(&c,
		kong.Name("ltail"),
		kong.Description("ltail: show the end of a log file and follow it\n\nSTART HERE: ltail <file>"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	// Create globals with config fallbacks
	globals := cli.NewGlobalsWithConfig(&c, cfg)
	// Record which flags were explicitly provided so commands can distinguish
	// CLI overrides from config defaults.
	flagsSet := map[string]bool{}
	for _, p := range ctx.Path {
		if p.Flag != nil {
			flagsSet[p.Flag.Name] = true
		}
	}
	globals.FlagsSet = flagsSet
	if meta != nil {
		globals.ConfigFile = meta.ConfigFile
		globals.ConfigEnv = meta.Env
	}

	if err := globals.InitLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to set up logging: %v\n", err)
	}
	defer func() { _ = logging.Sync() }()

	err = ctx.Run(globals)
	if err != nil {
		var cliErr *cli.CLIError
		if !errors.As(err, &cliErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		_ = logging.Sync()
		os.Exit(1)
	}
}
