// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/nsload/nsload/pkg/host"
	"github.com/nsload/nsload/pkg/loader"
	"github.com/nsload/nsload/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps resolver errors to process exit codes.
func exitCodeFor(err error) types.ExitCode {
	var exitErr *ExitError
	switch {
	case err == nil:
		return types.ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, loader.ErrLoadFailed):
		return types.ExitLoadFailed
	case errors.Is(err, host.ErrUndefined):
		return types.ExitUnresolved
	default:
		return types.ExitFailure
	}
}
