// Package validate decides whether a file looks like a log before it is tailed.
package validate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/parser"
)

const (
	maxSampleLines = 100
	maxSampleBytes = 100 * 1024
	minMatchRatio  = 0.10
)

// Reason explains why a file was rejected
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonFileNotFound  Reason = "file_not_found"
	ReasonIsDirectory   Reason = "is_directory"
	ReasonBinary        Reason = "binary"
	ReasonInvalidJSON   Reason = "invalid_json"
	ReasonNoLogPatterns Reason = "no_log_patterns"
	ReasonAccessDenied  Reason = "access_denied"
	ReasonUnknown       Reason = "unknown"
)

// Result is the outcome of validating one file
type Result struct {
	Valid   bool   `json:"valid"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

var (
	timestampPattern = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}[\sT]\d{2}:\d{2}:\d{2}|\d{2}:\d{2}:\d{2}`)
	levelPattern     = regexp.MustCompile(`(?i)\b(TRACE|DEBUG|DBUG|DBG|INFO|INF|WARN|WRN|WARNING|ERROR|ERR|EROR|FATAL|FTL|VERBOSE|VRB)\b`)

	logProperties = map[string]struct{}{
		"timestamp": {}, "time": {}, "date": {}, "level": {}, "severity": {},
		"message": {}, "msg": {}, "log": {}, "text": {},
	}
)

func invalid(reason Reason, msg string, args ...any) Result {
	return Result{Reason: reason, Message: fmt.Sprintf(msg, args...)}
}

// File samples the start of path and reports whether it looks like a log.
// Lines are checked against the header rules of formats; descriptors without
// a compiled level pattern are skipped. With no formats the built-ins are used.
func File(path string, formats []format.Descriptor) Result {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return invalid(ReasonFileNotFound, "File not found.")
	case errors.Is(err, fs.ErrPermission):
		return invalid(ReasonAccessDenied, "Access denied. You do not have permission to read this file.")
	case err != nil:
		return invalid(ReasonUnknown, "An error occurred while validating the file: %v", err)
	case info.IsDir():
		return invalid(ReasonIsDirectory, "The specified path is a directory, not a file.")
	}

	sample, err := readSample(path)
	switch {
	case errors.Is(err, fs.ErrPermission):
		return invalid(ReasonAccessDenied, "Access denied. You do not have permission to read this file.")
	case err != nil:
		return invalid(ReasonUnknown, "An error occurred while validating the file: %v", err)
	}
	return Content(sample, formats)
}

// Content validates an already read sample
func Content(sample []byte, formats []format.Descriptor) Result {
	if isBinary(sample) {
		return invalid(ReasonBinary, "This appears to be a binary file, not a text log file.")
	}

	trimmed := bytes.TrimLeft(sample, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && gjson.ValidBytes(trimmed) {
		return validateJSON(trimmed)
	}
	return validateText(string(sample), parsersFor(formats))
}

func readSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxSampleBytes))
}

// isBinary flags samples with more than 1% NUL bytes or more than 30% control
// bytes other than tab, newline, carriage return and escape
func isBinary(sample []byte) bool {
	var nul, control int
	for _, b := range sample {
		switch {
		case b == 0:
			nul++
		case b < 9 || (b > 13 && b < 32 && b != 27):
			control++
		}
	}
	n := float64(len(sample))
	return float64(nul) > n*0.01 || float64(control) > n*0.30
}

func validateJSON(doc []byte) Result {
	root := gjson.ParseBytes(doc)
	switch {
	case root.IsArray():
		var total, matched int
		root.ForEach(func(_, element gjson.Result) bool {
			total++
			if hasLogProperties(element) {
				matched++
			}
			return total < maxSampleLines
		})
		if total > 0 && float64(matched)/float64(total) >= minMatchRatio {
			return Result{Valid: true}
		}
	case root.IsObject():
		if hasLogProperties(root) {
			return Result{Valid: true}
		}
	}
	return invalid(ReasonInvalidJSON, "JSON file does not appear to contain log entries.")
}

// hasLogProperties requires at least two well-known log property names
func hasLogProperties(element gjson.Result) bool {
	if !element.IsObject() {
		return false
	}
	matches := 0
	element.ForEach(func(key, _ gjson.Result) bool {
		if _, ok := logProperties[strings.ToLower(key.String())]; ok {
			matches++
		}
		return true
	})
	return matches >= 2
}

func parsersFor(formats []format.Descriptor) []*parser.LineParser {
	if len(formats) == 0 {
		formats = format.BuiltIns()
	}
	parsers := make([]*parser.LineParser, 0, len(formats))
	for _, d := range formats {
		if d.LevelRegexp() == nil {
			continue
		}
		parsers = append(parsers, parser.New(d))
	}
	return parsers
}

func validateText(content string, parsers []*parser.LineParser) Result {
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "\uFFFD")
	}
	lines := strings.FieldsFunc(content, func(r rune) bool { return r == '\r' || r == '\n' })
	if len(lines) > maxSampleLines {
		lines = lines[:maxSampleLines]
	}
	if len(lines) == 0 {
		return invalid(ReasonNoLogPatterns, "File appears to be empty.")
	}

	matched := 0
	for _, line := range lines {
		if looksLikeLog(line, parsers) {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(lines))
	if ratio >= minMatchRatio {
		return Result{Valid: true}
	}
	return invalid(ReasonNoLogPatterns,
		"File does not appear to contain recognized log patterns. Only %.0f%% of sampled lines matched known formats.", ratio*100)
}

func looksLikeLog(line string, parsers []*parser.LineParser) bool {
	for _, p := range parsers {
		if p.IsHeader(line) {
			return true
		}
	}
	return timestampPattern.MatchString(line) && levelPattern.MatchString(line)
}
