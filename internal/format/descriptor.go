// Package format describes log line dialects: how to recognise an entry
// header, where its level token sits and what that token means.
package format

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/errs"
)

// Descriptor is an immutable log format definition.
// Build one with New so the patterns are compiled and checked.
type Descriptor struct {
	Name          string
	Description   string
	HeaderPattern string
	LevelPattern  string
	BuiltIn       bool

	levels map[string]domain.Level
	header *regexp.Regexp
	level  *regexp.Regexp
}

// Spec is the uncompiled form of a Descriptor
type Spec struct {
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	HeaderPattern string            `json:"fullLogPattern"`
	LevelPattern  string            `json:"levelPattern"`
	LevelMappings map[string]string `json:"levelMappings"`
}

// New compiles spec into a Descriptor. The level pattern must contain a
// "level" named group and is matched case-insensitively. The header pattern
// is optional; when present it is matched as written.
func New(spec Spec) (Descriptor, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return Descriptor{}, errs.NewMalformedInput("format name is empty", nil)
	}

	d := Descriptor{
		Name:          name,
		Description:   spec.Description,
		HeaderPattern: spec.HeaderPattern,
		LevelPattern:  spec.LevelPattern,
		levels:        make(map[string]domain.Level, len(spec.LevelMappings)),
	}

	if spec.HeaderPattern != "" {
		re, err := regexp.Compile(spec.HeaderPattern)
		if err != nil {
			return Descriptor{}, errs.NewMalformedInput(fmt.Sprintf("format %s: header pattern", name), err)
		}
		d.header = re
	}

	if spec.LevelPattern == "" {
		return Descriptor{}, errs.NewMalformedInput(fmt.Sprintf("format %s: level pattern is empty", name), nil)
	}
	pattern := spec.LevelPattern
	if !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Descriptor{}, errs.NewMalformedInput(fmt.Sprintf("format %s: level pattern", name), err)
	}
	if re.SubexpIndex("level") < 0 {
		return Descriptor{}, errs.NewMalformedInput(fmt.Sprintf("format %s: level pattern has no \"level\" group", name), nil)
	}
	d.level = re

	for token, levelName := range spec.LevelMappings {
		level, ok := domain.ParseLevel(levelName)
		if !ok {
			return Descriptor{}, errs.NewMalformedInput(fmt.Sprintf("format %s: unknown level %q for token %q", name, levelName, token), nil)
		}
		d.levels[strings.ToUpper(strings.TrimSpace(token))] = level
	}

	return d, nil
}

// MustNew is like New but panics on error. Used for the built-in table.
func MustNew(spec Spec) Descriptor {
	d, err := New(spec)
	if err != nil {
		panic(err)
	}
	return d
}

// HeaderRegexp returns the compiled header pattern, or nil when the format has none
func (d Descriptor) HeaderRegexp() *regexp.Regexp {
	return d.header
}

// LevelRegexp returns the compiled case-insensitive level pattern
func (d Descriptor) LevelRegexp() *regexp.Regexp {
	return d.level
}

// MapLevel maps a raw level token to its canonical level
func (d Descriptor) MapLevel(token string) (domain.Level, bool) {
	l, ok := d.levels[strings.ToUpper(strings.TrimSpace(token))]
	return l, ok
}

// LevelMap returns a copy of the upper-cased token to level table
func (d Descriptor) LevelMap() map[string]domain.Level {
	return maps.Clone(d.levels)
}

// Spec returns the uncompiled form of d
func (d Descriptor) Spec() Spec {
	mappings := make(map[string]string, len(d.levels))
	for token, level := range d.levels {
		mappings[token] = string(level)
	}
	return Spec{
		Name:          d.Name,
		Description:   d.Description,
		HeaderPattern: d.HeaderPattern,
		LevelPattern:  d.LevelPattern,
		LevelMappings: mappings,
	}
}
