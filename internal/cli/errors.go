package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/ltail/internal/errs"
	"github.com/vburojevic/ltail/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	h := ""
	if len(hint) > 0 {
		h = hint[0]
	}
	if globals != nil && globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, h)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
		if h != "" {
			fmt.Fprintf(globals.Stderr, "Hint: %s\n", h)
		}
	}
	return &CLIError{Code: code, Message: message, Hint: h}
}

// outputError emits err with the code of its category and a hint when one applies
func outputError(globals *Globals, err error) error {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return outputErrorCommon(globals, cliErr.Code, cliErr.Message, cliErr.Hint)
	}
	return outputErrorCommon(globals, string(errs.Classify(err)), err.Error(), hintFor(err))
}
