package nuget

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"

	"github.com/matzehuels/nugetbackup/pkg/errors"
	"github.com/matzehuels/nugetbackup/pkg/proc"
)

// DefaultDotnet is the executable used when Lister.Executable is empty.
const DefaultDotnet = "dotnet"

// errNotJSON is the cause recorded when the lister exits cleanly but prints
// something other than a JSON document.
var errNotJSON = stderrors.New("output is not JSON")

// Lister obtains the resolved dependency report of a project or solution.
type Lister struct {
	Runner     proc.Runner
	Executable string
}

// NewLister creates a lister that runs exe through r. An empty exe means
// [DefaultDotnet].
func NewLister(r proc.Runner, exe string) *Lister {
	return &Lister{Runner: r, Executable: exe}
}

// Command returns the command List would run for path.
func (l *Lister) Command(path string, includeTransitive bool) proc.Command {
	exe := l.Executable
	if exe == "" {
		exe = DefaultDotnet
	}
	args := []string{"list", path, "package", "--format", "json"}
	if includeTransitive {
		args = append(args, "--include-transitive")
	}
	return proc.Command{Name: exe, Args: args}
}

// List checks that path exists and returns the lister's standard output.
//
// A missing path fails with PROJECT_NOT_FOUND before any process is started.
// A lister that cannot be started, exits non-zero, or prints something other
// than JSON fails with DEPENDENCY_LISTING; the raw output is available via
// errors.CommandOutput.
func (l *Lister) List(ctx context.Context, path string, includeTransitive bool) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeProjectNotFound, "project file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeProjectNotFound, err, "stat project %s", path)
	}

	cmd := l.Command(path, includeTransitive)
	res, err := l.Runner.Run(ctx, cmd)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDependencyListing, err, "list packages of %s", path)
	}

	out := bytes.TrimSpace(res.Stdout)
	if !json.Valid(out) {
		ce := &errors.CommandError{
			Command:  cmd.String(),
			ExitCode: res.ExitCode,
			Output:   string(res.Stdout),
			Stderr:   string(res.Stderr),
			Cause:    errNotJSON,
		}
		return nil, errors.Wrap(errors.ErrCodeDependencyListing, ce, "list packages of %s", path)
	}
	return out, nil
}
