package cli

import "time"

// TailFilterFlags groups the flags that select which entries are shown
type TailFilterFlags struct {
	Lines     int      `short:"n" name:"tail" default:"${config_lines}" help:"Number of entries to show from the end of the file"`
	Level     []string `short:"l" help:"Only show entries with these levels (comma separated or repeated, e.g. ERROR,WARNING)"`
	Filter    string   `short:"f" help:"Only show entries containing this text (case-insensitive, any line of the entry)"`
	From      string   `help:"Only show entries at or after this timestamp"`
	To        string   `help:"Only show entries at or before this timestamp (a date alone covers the whole day)"`
	MinLevel  string   `help:"Only show entries at or above this level: verbose, debug, info, warning, error, fatal"`
	Match     []string `short:"m" help:"Only show entries where a line matches this regex (can be repeated, any may match)"`
	Exclude   []string `short:"x" help:"Hide entries where a line matches this regex (can be repeated)"`
	LogFormat string   `short:"F" default:"${config_log_format}" help:"Log format name (see 'ltail formats list')"`
}

// TailMonitorFlags groups the flags that control how the file is followed
type TailMonitorFlags struct {
	Mode          string        `default:"${config_mode}" enum:"auto,realtime,polling" help:"Change detection: auto, realtime (filesystem events) or polling"`
	Refresh       time.Duration `default:"${config_refresh}" help:"Polling interval"`
	StopOnDelete  bool          `help:"Stop as soon as the file is deleted instead of waiting for it to return"`
	WaitTimeout   time.Duration `default:"${config_wait_timeout}" help:"How long to wait for a deleted file to return (0 waits forever)"`
	CheckInterval time.Duration `default:"${config_check_interval}" help:"How often to check for a deleted file"`
}
