package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errAlreadyHandled marks errors whose message has already been printed by
// the command itself, so Execute does not print them a second time.
var errAlreadyHandled = errors.New("already handled")

// handledError carries an error past cobra while remembering its exit code.
type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string { return e.err.Error() }

func (e *handledError) Is(target error) bool { return target == errAlreadyHandled }

func (e *handledError) Unwrap() error { return e.err }

// RunE wraps a command's RunE so errors are printed once, with the command's
// stderr, and mapped to an exit code by ExitCode.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// apiFailure is an error envelope returned by the server with HTTP 200..5xx;
// the client does not classify statuses, so the CLI surfaces the envelope.
type apiFailure struct {
	Code    string
	Message string
}

func (e *apiFailure) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
