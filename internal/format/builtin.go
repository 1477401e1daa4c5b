package format

// DefaultName is the name of the fallback format
const DefaultName = "Default"

var (
	defaultFormat = builtIn(Spec{
		Name:          DefaultName,
		Description:   "Default format with timestamp, level, source, and message",
		HeaderPattern: `^(?P<timestamp>\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}(?:\.\d+)?)\s+\[(?P<level>[^\]]+)\]\s+(?P<source>[^\s]+)\s+(?P<message>.*)$`,
		LevelPattern:  `\[(?P<level>VERBOSE|DBUG|INFO|WARNING|ERROR|EROR|FATAL)\]`,
		LevelMappings: map[string]string{
			"VERBOSE": "Verbose",
			"DBUG":    "Debug",
			"INFO":    "Info",
			"WARNING": "Warning",
			"ERROR":   "Error",
			"EROR":    "Error",
			"FATAL":   "Fatal",
		},
	})

	serilogFormat = builtIn(Spec{
		Name:          "Serilog",
		Description:   "Serilog default format",
		HeaderPattern: `^(?P<timestamp>\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d+\s+[+-]\d{2}:\d{2})\s+\[(?P<level>[^\]]+)\]\s+(?P<message>.*)$`,
		LevelPattern:  `\[(?P<level>VRB|DBG|INF|WRN|ERR|FTL)\]`,
		LevelMappings: map[string]string{
			"VRB": "Verbose",
			"DBG": "Debug",
			"INF": "Info",
			"WRN": "Warning",
			"ERR": "Error",
			"FTL": "Fatal",
		},
	})

	nlogFormat = builtIn(Spec{
		Name:          "NLog",
		Description:   "NLog default format",
		HeaderPattern: `^(?P<timestamp>\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d+)\s+(?P<level>[A-Z]+)\s+(?P<source>[^\s]+)\s+(?P<message>.*)$`,
		LevelPattern:  `(?P<level>TRACE|DEBUG|INFO|WARN|ERROR|FATAL)`,
		LevelMappings: map[string]string{
			"TRACE": "Verbose",
			"DEBUG": "Debug",
			"INFO":  "Info",
			"WARN":  "Warning",
			"ERROR": "Error",
			"FATAL": "Fatal",
		},
	})

	log4netFormat = builtIn(Spec{
		Name:          "log4net",
		Description:   "log4net default format",
		HeaderPattern: `^(?P<timestamp>\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2},\d+)\s+\[(?P<level>[^\]]+)\]\s+(?P<source>[^\s]+)\s+-\s+(?P<message>.*)$`,
		LevelPattern:  `\[(?P<level>DEBUG|INFO|WARN|ERROR|FATAL)\]`,
		LevelMappings: map[string]string{
			"DEBUG": "Debug",
			"INFO":  "Info",
			"WARN":  "Warning",
			"ERROR": "Error",
			"FATAL": "Fatal",
		},
	})
)

func builtIn(spec Spec) Descriptor {
	d := MustNew(spec)
	d.BuiltIn = true
	return d
}

// Default returns the Default built-in format
func Default() Descriptor {
	return defaultFormat
}

// BuiltIns returns the built-in formats in display order
func BuiltIns() []Descriptor {
	return []Descriptor{defaultFormat, serilogFormat, nlogFormat, log4netFormat}
}
