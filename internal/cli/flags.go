package cli

import (
	clierrors "github.com/mrgen-dev/mrgen/internal/errors"
)

// invalidFlag reports a flag value that is out of range.
func invalidFlag(flag, reason string) error {
	return clierrors.NewArgumentError(
		"invalid value for "+flag+": "+reason,
		"Run 'mrgen --help' for valid values",
	)
}
