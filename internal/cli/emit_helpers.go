package cli

import (
	"fmt"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/output"
)

// emitWarning respects format/quiet.
func emitWarning(globals *Globals, msg string) {
	globals.logger().Debugw("warning", "message", msg)
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteNotification(domain.StatusChanged{
			Message:  msg,
			Severity: domain.SeverityWarning,
		})
		return
	}
	fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
}
