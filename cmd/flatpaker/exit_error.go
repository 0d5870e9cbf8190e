// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/flatpaker/flatpaker/pkg/types"
)

// ExitError carries the process exit status out of a RunE handler. When Err
// is nil the failure has already been printed (for example every failed
// description of a keep-going batch) and nothing more is rendered.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit status " + e.Code.String()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode maps the error returned by the command tree to a process status.
// Errors that are not ExitErrors (flag parsing, argument checks) exit 1, and
// out-of-range codes are clamped to 1 as well.
func exitCode(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return types.ExitFailure
	}
	if exitErr.Code.Validate() != nil {
		return types.ExitFailure
	}
	return exitErr.Code
}

// reported returns an ExitError for failures already shown to the user.
func reported(code types.ExitCode) error {
	return &ExitError{Code: code}
}
