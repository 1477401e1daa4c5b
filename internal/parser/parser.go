// Package parser recognises entry headers and extracts fields from log lines.
package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/format"
)

// minHeaderLen is the shortest line that can carry a timestamp and a level
const minHeaderLen = 20

// LineParser parses lines for one log format. It holds no mutable state
// and is safe for concurrent use.
type LineParser struct {
	format format.Descriptor
}

// New creates a parser for the given format
func New(d format.Descriptor) *LineParser {
	return &LineParser{format: d}
}

// Format returns the descriptor the parser was built from
func (p *LineParser) Format() format.Descriptor {
	return p.format
}

// IsHeader reports whether line starts a new log entry: it is at least 20
// characters long, starts with two digits and contains a level token.
func (p *LineParser) IsHeader(line string) bool {
	if len(line) < minHeaderLen || !isDigit(line[0]) || !isDigit(line[1]) {
		return false
	}
	if utf8.RuneCountInString(line) < minHeaderLen {
		return false
	}
	return p.format.LevelRegexp().MatchString(line)
}

// Parse extracts timestamp, level, source and message from line. It never fails:
// when the header pattern does not match, the level token is used as an anchor,
// and without a level token the whole line becomes the message.
func (p *LineParser) Parse(line string) domain.ParsedLine {
	if re := p.format.HeaderRegexp(); re != nil {
		if m := re.FindStringSubmatch(line); m != nil {
			return domain.ParsedLine{
				Timestamp:  group(re.SubexpIndex("timestamp"), m),
				LevelToken: group(re.SubexpIndex("level"), m),
				Source:     group(re.SubexpIndex("source"), m),
				Message:    group(re.SubexpIndex("message"), m),
			}
		}
	}

	re := p.format.LevelRegexp()
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil {
		return domain.ParsedLine{Message: line}
	}

	parsed := domain.ParsedLine{
		Timestamp: strings.TrimSpace(line[:loc[0]]),
	}
	if gi := re.SubexpIndex("level"); gi >= 0 && loc[2*gi] >= 0 {
		parsed.LevelToken = line[loc[2*gi]:loc[2*gi+1]]
	}

	rest := strings.TrimSpace(line[loc[1]:])
	source, message, _ := strings.Cut(rest, " ")
	parsed.Source = source
	parsed.Message = strings.TrimLeft(message, " ")
	return parsed
}

// ExtractLevel returns the canonical level of line. A missing or unmapped
// token yields false.
func (p *LineParser) ExtractLevel(line string) (domain.Level, bool) {
	token := p.LevelToken(line)
	if token == "" {
		return "", false
	}
	return p.format.MapLevel(token)
}

// LevelToken returns the uppercased raw level token of line, or "" when there is none
func (p *LineParser) LevelToken(line string) string {
	re := p.format.LevelRegexp()
	m := re.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.ToUpper(group(re.SubexpIndex("level"), m))
}

func group(idx int, m []string) string {
	if idx < 0 || idx >= len(m) {
		return ""
	}
	return m[idx]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
