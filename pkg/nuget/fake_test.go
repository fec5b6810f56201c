package nuget

import (
	"context"

	"github.com/matzehuels/nugetbackup/pkg/errors"
	"github.com/matzehuels/nugetbackup/pkg/proc"
)

// fakeRunner records commands and answers them from a script.
type fakeRunner struct {
	calls  []proc.Command
	stdout string
	exit   int
}

func (f *fakeRunner) Run(_ context.Context, cmd proc.Command) (*proc.Result, error) {
	f.calls = append(f.calls, cmd)
	res := &proc.Result{Stdout: []byte(f.stdout), ExitCode: f.exit}
	if f.exit != 0 {
		return res, &errors.CommandError{Command: cmd.String(), ExitCode: f.exit, Output: f.stdout}
	}
	return res, nil
}
