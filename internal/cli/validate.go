package cli

import (
	"github.com/vburojevic/ltail/internal/output"
	"github.com/vburojevic/ltail/internal/validate"
)

// ValidateCmd checks whether files look like logs in a known format
type ValidateCmd struct {
	Files []string `arg:"" type:"path" help:"Files to check"`
}

// Run executes the validate command. It fails when any file is not a valid log.
func (c *ValidateCmd) Run(globals *Globals) error {
	formats := loadFormats(globals).All()

	var w interface {
		WriteValidation(path string, res validate.Result) error
	}
	if globals.Format == "ndjson" {
		w = output.NewNDJSONWriter(globals.Stdout)
	} else {
		w = output.NewTextWriter(globals.Stdout, globals.Stderr, nil)
	}

	invalid := 0
	for _, path := range c.Files {
		res := validate.File(path, formats)
		globals.Debug("validate %s: valid=%v reason=%s", path, res.Valid, res.Reason)
		if !res.Valid {
			invalid++
		}
		if err := w.WriteValidation(path, res); err != nil {
			return err
		}
	}

	if invalid > 0 {
		return &CLIError{Code: "INVALID_LOG", Message: "one or more files are not valid logs"}
	}
	return nil
}
