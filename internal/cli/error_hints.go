package cli

import (
	"errors"

	"github.com/vburojevic/ltail/internal/errs"
)

func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errs.ErrFileNotFound):
		return "Check the path; use --no-follow to print once, or `ltail validate <file>` to check a file"
	case errors.Is(err, errs.ErrAccessDenied):
		return "The file is not readable by the current user"
	case errors.Is(err, errs.ErrMalformedInput):
		return "Run `ltail formats list` to see the formats that loaded"
	case errors.Is(err, errs.ErrPermissionDenied):
		return "Built-in formats cannot be changed; add a custom format with a different name"
	case errors.Is(err, errs.ErrTimeout):
		return "Increase --wait-timeout or set it to 0 to wait forever"
	}
	return ""
}

func hintForTimestamp() string {
	return "Use a timestamp such as '2024-01-31 14:00:00', '2024-01-31T14:00:00' or '2024-01-31'"
}

func hintForPattern() string {
	return "Patterns use Go regexp syntax; quote them in the shell. Example: --match 'timeout|refused'"
}
