package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetbackup/pkg/errors"
)

// Process exit statuses.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130 // shell convention for SIGINT
)

// ExitCode maps the error returned by the root command to a process exit
// status. Per-package failures never reach here; they are part of a
// successful run.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return ExitCancelled
	case errors.Is(err, errors.ErrCodeUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// HandleError prints err to w, followed by the usage summary for usage
// errors, and returns the exit status.
func HandleError(w io.Writer, cmd *cobra.Command, err error) int {
	code := ExitCode(err)
	switch code {
	case ExitOK:
	case ExitCancelled:
		fmt.Fprintln(w, StyleWarning.Render("Cancelled"))
	case ExitUsage:
		fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errors.UserMessage(err))
		fmt.Fprintln(w)
		fmt.Fprint(w, cmd.UsageString())
	default:
		fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errors.Detail(err))
	}
	return code
}
