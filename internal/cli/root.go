package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vburojevic/ltail/internal/config"
	"github.com/vburojevic/ltail/internal/logging"
	"github.com/vburojevic/ltail/internal/output"
)

// CLI is the root command structure for ltail
type CLI struct {
	// Global flags
	Output  string `short:"o" default:"${config_output}" enum:"ndjson,text" help:"Output format"`
	Quiet   bool   `short:"q" help:"Suppress status output (only emit log lines)"`
	Verbose bool   `short:"v" help:"Show debug output (watch setup, passes, state changes)"`

	// Commands
	Tail     TailCmd     `cmd:"" default:"withargs" help:"Show the end of a log file and follow it"`
	UI       UICmd       `cmd:"" help:"Interactive TUI log viewer"`
	Formats  FormatsCmd  `cmd:"" help:"List and manage log formats"`
	Validate ValidateCmd `cmd:"" help:"Check whether a file looks like a log"`
	Config   ConfigCmd   `cmd:"" help:"Show or manage configuration"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.SugaredLogger

	// FlagsSet records the flags given on the command line
	FlagsSet map[string]bool
	// ConfigFile is the config file that was loaded, if any
	ConfigFile string
	// ConfigEnv lists the LTAIL_* variables that were applied
	ConfigEnv []string
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return NewGlobalsWithConfig(cli, config.Default())
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  cli.Output,
		Quiet:   cli.Quiet || cfg.Quiet,
		Verbose: cli.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
		Logger:  logging.L(),
	}
	if g.Format == "" {
		g.Format = cfg.Output
	}
	return g
}

// InitLogging configures the process logger from the config. Verbose mode
// forces debug level.
func (g *Globals) InitLogging() error {
	cfg := g.Config.Logging
	if g.Verbose {
		cfg.Level = "debug"
	}
	if err := logging.Init(cfg, g.Stderr); err != nil {
		return err
	}
	g.Logger = logging.L()
	return nil
}

// FlagProvided reports whether a flag was given explicitly
func (g *Globals) FlagProvided(name string) bool {
	return g.FlagsSet[name]
}

// Debug logs a debug message; it is shown in verbose mode
func (g *Globals) Debug(format string, args ...interface{}) {
	g.logger().Debugf(format, args...)
}

func (g *Globals) logger() *zap.SugaredLogger {
	if g.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return g.Logger
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteVersion(Version, Commit)
	}
	_, err := io.WriteString(globals.Stdout, "ltail version "+Version+" ("+Commit+")\n")
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
