// Package proc runs external commands and captures their output.
//
// Both external collaborators of a backup run, the dependency lister and the
// package installer, are driven through the [Runner] interface. The default
// implementation, [ExecRunner], starts the child with os/exec, drains its
// standard output completely into memory (optionally teeing each line into a
// caller-supplied sink) and only returns once the process has exited and all
// of its resources have been released.
//
// A non-zero exit, a missing executable, or a cancelled context is reported
// as an *errors.CommandError that still carries the captured output, so
// callers can show what the tool printed before it failed.
//
// # Cancellation
//
// The child is bound to the context passed to Run. Cancelling the context
// kills the process; Run then returns an error for which
// errors.Is(err, context.Canceled) (or DeadlineExceeded) holds.
package proc
