package shared

import (
	"errors"
	"os"

	"github.com/mrgen-dev/mrgen/internal/config"
	clierrors "github.com/mrgen-dev/mrgen/internal/errors"
	"github.com/mrgen-dev/mrgen/internal/git"
	"github.com/mrgen-dev/mrgen/internal/workspace"
)

// Classify converts a domain error into a CLIError. Errors that already are
// CLIErrors are returned as is; unrecognized errors become Runtime errors.
func Classify(err error) *clierrors.CLIError {
	if err == nil {
		return nil
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		vErr     *config.ValidationError
		nfErr    *workspace.NotFoundError
		rangeErr *git.RangeResolutionError
		encErr   *git.EncodingError
	)
	switch {
	case errors.As(err, &vErr):
		if vErr.Field == "" && vErr.Line == 0 && isNotExist(vErr.FilePath) {
			c := clierrors.ConfigFileNotFound(vErr.FilePath)
			c.Err = err
			return c
		}
		return clierrors.ConfigInvalid(err)
	case errors.As(err, &nfErr):
		c := clierrors.WorkspaceNotFound(nfErr.Path, nfErr.Available)
		c.Err = err
		return c
	case errors.As(err, &rangeErr):
		return clierrors.RangeUnresolvable(err)
	case errors.As(err, &encErr):
		return clierrors.InvalidPathEncoding(err)
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}

func isNotExist(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}
