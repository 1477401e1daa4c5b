package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vburojevic/ltail/internal/logging"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Output  string `mapstructure:"output"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// LogFormat is the name of the format used to parse lines
	LogFormat string `mapstructure:"log_format"`
	// FormatsFile holds custom formats; empty means the user config directory
	FormatsFile string `mapstructure:"formats_file"`

	Tail     TailConfig     `mapstructure:"tail"`
	Deletion DeletionConfig `mapstructure:"deletion"`
	Logging  logging.Config `mapstructure:"logging"`
}

// TailConfig holds defaults for the tail and ui commands
type TailConfig struct {
	Lines   int           `mapstructure:"lines"`
	Levels  []string      `mapstructure:"levels"`
	Filter  string        `mapstructure:"filter"`
	Refresh time.Duration `mapstructure:"refresh"`
	Mode    string        `mapstructure:"mode"`
}

// DeletionConfig controls what happens when the tailed file disappears
type DeletionConfig struct {
	StopImmediately bool          `mapstructure:"stop_immediately"`
	AutoWait        bool          `mapstructure:"auto_wait"`
	WaitTimeout     time.Duration `mapstructure:"wait_timeout"`
	CheckInterval   time.Duration `mapstructure:"check_interval"`
}

// Meta records where the loaded configuration came from
type Meta struct {
	ConfigFile string
	// Keys lists the keys set by the config file
	Keys []string
	// Env lists the LTAIL_* variables that were applied
	Env []string
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Output:    "text",
		LogFormat: "Default",
		Tail: TailConfig{
			Lines:   10,
			Refresh: 5 * time.Second,
			Mode:    "auto",
		},
		Deletion: DeletionConfig{
			AutoWait:      true,
			WaitTimeout:   60 * time.Second,
			CheckInterval: 2 * time.Second,
		},
		Logging: logging.Config{
			Level:      "warn",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.ltail.yaml or ./.ltail.yml
// 2. ~/.ltail.yaml or ~/.ltail.yml
// 3. $XDG_CONFIG_HOME/ltail/config.yaml (or ~/.config/ltail/config.yaml)
// 4. /etc/ltail/config.yaml
func Load() (*Config, error) {
	cfg, _, err := LoadWithMeta()
	return cfg, err
}

// LoadWithMeta is Load that also reports the config file and overrides used
func LoadWithMeta() (*Config, *Meta, error) {
	cfg := Default()
	meta := &Meta{}

	if configFile := findConfigFile(); configFile != "" {
		v, err := read(configFile, cfg)
		if err != nil {
			return nil, nil, err
		}
		meta.ConfigFile = configFile
		meta.Keys = v.AllKeys()
	}

	meta.Env = applyEnvOverrides(cfg)
	return cfg, meta, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := read(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string, cfg *Config) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return v, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}

// Dir returns the per-user configuration directory for ltail
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ltail")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".ltail")
	}
	return ".ltail"
}

// FormatsPath returns the custom formats file to use
func (c *Config) FormatsPath() string {
	if c.FormatsFile != "" {
		return c.FormatsFile
	}
	return filepath.Join(Dir(), "formats.json")
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	dotNames := []string{".ltail.yaml", ".ltail.yml", "ltail.yaml", "ltail.yml"}
	dirNames := []string{"config.yaml", "config.yml"}

	type location struct {
		dir   string
		names []string
	}
	var locations []location

	if cwd, err := os.Getwd(); err == nil {
		locations = append(locations, location{cwd, dotNames})
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, location{home, dotNames})
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, location{filepath.Join(configDir, "ltail"), dirNames})
	}
	locations = append(locations, location{"/etc/ltail", dirNames})

	for _, loc := range locations {
		for _, name := range loc.names {
			path := filepath.Join(loc.dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// applyEnvOverrides applies LTAIL_* variables and returns the names it used
func applyEnvOverrides(cfg *Config) []string {
	var applied []string
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
			applied = append(applied, name)
		}
	}
	flag := func(name string, dst *bool) {
		if v := os.Getenv(name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
				applied = append(applied, name)
			}
		}
	}
	integer := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
				applied = append(applied, name)
			}
		}
	}
	duration := func(name string, dst *time.Duration) {
		if v := os.Getenv(name); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
				applied = append(applied, name)
			}
		}
	}

	str("LTAIL_OUTPUT", &cfg.Output)
	flag("LTAIL_QUIET", &cfg.Quiet)
	flag("LTAIL_VERBOSE", &cfg.Verbose)
	str("LTAIL_LOG_FORMAT", &cfg.LogFormat)
	str("LTAIL_FORMATS_FILE", &cfg.FormatsFile)
	integer("LTAIL_LINES", &cfg.Tail.Lines)
	if v := os.Getenv("LTAIL_LEVELS"); v != "" {
		cfg.Tail.Levels = strings.Split(v, ",")
		applied = append(applied, "LTAIL_LEVELS")
	}
	str("LTAIL_FILTER", &cfg.Tail.Filter)
	duration("LTAIL_REFRESH", &cfg.Tail.Refresh)
	str("LTAIL_MODE", &cfg.Tail.Mode)
	duration("LTAIL_WAIT_TIMEOUT", &cfg.Deletion.WaitTimeout)
	str("LTAIL_LOG_LEVEL", &cfg.Logging.Level)
	str("LTAIL_LOG_PATH", &cfg.Logging.Path)
	return applied
}
