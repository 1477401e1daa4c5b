package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/output"
)

// FormatsCmd lists and manages log formats
type FormatsCmd struct {
	List   FormatsListCmd   `cmd:"" default:"withargs" help:"List available log formats"`
	Show   FormatsShowCmd   `cmd:"" help:"Show a single log format"`
	Add    FormatsAddCmd    `cmd:"" help:"Add or replace a custom log format"`
	Remove FormatsRemoveCmd `cmd:"" help:"Remove a custom log format"`
}

// FormatsListCmd lists built-in and custom formats
type FormatsListCmd struct{}

// Run executes the formats list command
func (c *FormatsListCmd) Run(globals *Globals) error {
	reg := loadFormats(globals)

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for _, d := range reg.All() {
			if err := w.WriteFormat(d); err != nil {
				return err
			}
		}
		return nil
	}

	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("Name", "Source", "Level Pattern", "Description")
	for _, d := range reg.All() {
		source := "custom"
		if d.BuiltIn {
			source = "built-in"
		}
		if err := table.Append([]string{d.Name, source, d.LevelPattern, d.Description}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if !globals.Quiet {
		fmt.Fprintf(globals.Stderr, "Custom formats file: %s\n", globals.Config.FormatsPath())
	}
	return nil
}

// FormatsShowCmd prints one format in full
type FormatsShowCmd struct {
	Name string `arg:"" help:"Format name"`
}

// Run executes the formats show command
func (c *FormatsShowCmd) Run(globals *Globals) error {
	d, ok := loadFormats(globals).Lookup(c.Name)
	if !ok {
		return outputErrorCommon(globals, "FORMAT_NOT_FOUND", fmt.Sprintf("no format named %q", c.Name), "Run 'ltail formats list' to see available formats")
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteFormat(d)
	}

	out := globals.Stdout
	fmt.Fprintf(out, "%s %s\n", output.Styles.Label.Render("Name:         "), d.Name)
	if d.Description != "" {
		fmt.Fprintf(out, "%s %s\n", output.Styles.Label.Render("Description:  "), d.Description)
	}
	fmt.Fprintf(out, "%s %v\n", output.Styles.Label.Render("Built-in:     "), d.BuiltIn)
	if d.HeaderPattern != "" {
		fmt.Fprintf(out, "%s %s\n", output.Styles.Label.Render("Header:       "), d.HeaderPattern)
	}
	fmt.Fprintf(out, "%s %s\n", output.Styles.Label.Render("Level pattern:"), d.LevelPattern)

	levels := d.LevelMap()
	tokens := make([]string, 0, len(levels))
	for token := range levels {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	if len(tokens) > 0 {
		fmt.Fprintln(out, output.Styles.Label.Render("Level mappings:"))
		for _, token := range tokens {
			level := levels[token]
			fmt.Fprintf(out, "  %-12s %s\n", token, output.LevelStyle(level).Render(string(level)))
		}
	}
	return nil
}

// FormatsAddCmd adds or replaces a custom format
type FormatsAddCmd struct {
	Name          string   `arg:"" help:"Format name"`
	LevelPattern  string   `required:"" help:"Regex with a (?P<level>...) group that captures the level token"`
	HeaderPattern string   `help:"Regex matching a whole header line (optional)"`
	Map           []string `short:"m" help:"Level mapping TOKEN=Level (can be repeated, e.g. -m E=Error)"`
	Description   string   `short:"d" help:"Short description"`
}

// Run executes the formats add command
func (c *FormatsAddCmd) Run(globals *Globals) error {
	spec := format.Spec{
		Name:          strings.TrimSpace(c.Name),
		Description:   c.Description,
		HeaderPattern: c.HeaderPattern,
		LevelPattern:  c.LevelPattern,
		LevelMappings: map[string]string{},
	}
	for _, m := range c.Map {
		token, level, ok := strings.Cut(m, "=")
		if !ok || strings.TrimSpace(token) == "" {
			return outputError(globals, invalidFlag(fmt.Sprintf("invalid mapping %q for --map", m), "Use TOKEN=Level, for example --map E=Error"))
		}
		spec.LevelMappings[strings.TrimSpace(token)] = strings.TrimSpace(level)
	}

	d, err := format.New(spec)
	if err != nil {
		return outputError(globals, err)
	}

	reg, err := loadFormatsStrict(globals)
	if err != nil {
		return outputError(globals, err)
	}
	if err := reg.Save(d); err != nil {
		return outputError(globals, err)
	}
	path := globals.Config.FormatsPath()
	if err := format.SaveFile(path, reg.Custom()); err != nil {
		return outputError(globals, err)
	}
	globals.Debug("saved format %s to %s", d.Name, path)

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteFormat(d)
	}
	if !globals.Quiet {
		fmt.Fprintf(globals.Stdout, "%s format %s (%s)\n", output.Styles.Success.Render("Saved"), d.Name, path)
	}
	return nil
}

// FormatsRemoveCmd removes a custom format
type FormatsRemoveCmd struct {
	Name string `arg:"" help:"Format name"`
}

// Run executes the formats remove command
func (c *FormatsRemoveCmd) Run(globals *Globals) error {
	reg, err := loadFormatsStrict(globals)
	if err != nil {
		return outputError(globals, err)
	}
	removed, err := reg.Delete(c.Name)
	if err != nil {
		return outputError(globals, err)
	}
	if !removed {
		return outputErrorCommon(globals, "FORMAT_NOT_FOUND", fmt.Sprintf("no custom format named %q", c.Name), "Run 'ltail formats list' to see available formats")
	}
	if err := format.SaveFile(globals.Config.FormatsPath(), reg.Custom()); err != nil {
		return outputError(globals, err)
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "format_removed",
			"schemaVersion": output.SchemaVersion,
			"name":          c.Name,
		})
	}
	if !globals.Quiet {
		fmt.Fprintf(globals.Stdout, "%s format %s\n", output.Styles.Success.Render("Removed"), c.Name)
	}
	return nil
}

// loadFormatsStrict reads the custom formats for a change. Unlike
// loadFormats it fails on an unreadable file so it is never overwritten.
func loadFormatsStrict(globals *Globals) (*format.Registry, error) {
	res, err := format.LoadFile(globals.Config.FormatsPath())
	if err != nil {
		return nil, err
	}
	for _, skipped := range res.Skipped {
		emitWarning(globals, fmt.Sprintf("custom format skipped: %v", skipped))
	}
	return format.NewRegistry(res.Formats...), nil
}
