package proc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	nberrors "github.com/matzehuels/nugetbackup/pkg/errors"
	"github.com/matzehuels/nugetbackup/pkg/observability"
)

// waitDelay bounds how long Run waits for output pipes to close after the
// child has been killed.
const waitDelay = 5 * time.Second

// Command describes one process invocation.
type Command struct {
	Name string   // Executable name or path
	Args []string // Arguments, not including Name
	Dir  string   // Working directory (current directory if empty)

	// Lines, if set, receives every line the process writes to standard
	// output, without the trailing newline, as it arrives. The full output
	// is still returned in Result.Stdout.
	Lines func(line string)
}

// String returns the command line as a single space-separated string.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result holds the outcome of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner runs a command to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands as child processes of the current process.
type ExecRunner struct {
	// Env is appended to the current environment of every child.
	Env []string
}

// NewExecRunner returns a runner that spawns real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts cmd, waits for it to exit and returns its captured output.
// A nil error means the process exited with status 0.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	hooks := observability.Process()
	hooks.OnStart(ctx, cmd.Name, cmd.Args)

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stderr = &stderr
	c.WaitDelay = waitDelay
	if len(r.Env) > 0 {
		c.Env = append(os.Environ(), r.Env...)
	}

	var lines *lineWriter
	if cmd.Lines != nil {
		lines = &lineWriter{emit: cmd.Lines}
		c.Stdout = io.MultiWriter(&stdout, lines)
	} else {
		c.Stdout = &stdout
	}

	start := time.Now()
	err := c.Run()
	if lines != nil {
		lines.Flush()
	}

	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode(c, err),
		Duration: time.Since(start),
	}
	hooks.OnExit(ctx, cmd.Name, res.ExitCode, res.Duration, err)

	if err == nil {
		return res, nil
	}

	cause := err
	if ctxErr := ctx.Err(); ctxErr != nil {
		cause = ctxErr
	}
	return res, &nberrors.CommandError{
		Command:  cmd.String(),
		ExitCode: res.ExitCode,
		Output:   stdout.String(),
		Stderr:   stderr.String(),
		Cause:    cause,
	}
}

// exitCode returns the child's exit status, or -1 if it never ran or was
// terminated by a signal.
func exitCode(c *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if c.ProcessState != nil {
		return c.ProcessState.ExitCode()
	}
	return -1
}

// lineWriter splits a byte stream into lines. A trailing partial line is
// held back until more data arrives or Flush is called.
type lineWriter struct {
	emit func(string)
	buf  []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(strings.TrimSuffix(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *lineWriter) Flush() {
	if len(w.buf) > 0 {
		w.emit(strings.TrimSuffix(string(w.buf), "\r"))
		w.buf = nil
	}
}
