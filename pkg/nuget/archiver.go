package nuget

import (
	"context"
	"os"

	"github.com/matzehuels/nugetbackup/pkg/errors"
	"github.com/matzehuels/nugetbackup/pkg/proc"
)

// DefaultNuGet is the executable used when Archiver.Executable is empty.
const DefaultNuGet = "nuget"

// Archiver installs single package versions into a directory.
type Archiver struct {
	Runner     proc.Runner
	Executable string

	// ExtraArgs are appended to every install command, e.g.
	// []string{"-Source", "https://api.nuget.org/v3/index.json"}.
	ExtraArgs []string

	// Output, if set, receives installer stdout line by line while it runs.
	Output func(line string)
}

// NewArchiver creates an archiver that runs exe through r. An empty exe
// means [DefaultNuGet].
func NewArchiver(r proc.Runner, exe string, extraArgs []string) *Archiver {
	return &Archiver{Runner: r, Executable: exe, ExtraArgs: extraArgs}
}

// Command returns the install command for t targeting dir.
func (a *Archiver) Command(t Target, dir string) proc.Command {
	exe := a.Executable
	if exe == "" {
		exe = DefaultNuGet
	}
	args := []string{"install", t.ID, "-Version", t.Version, "-o", dir}
	args = append(args, a.ExtraArgs...)
	return proc.Command{Name: exe, Args: args, Lines: a.Output}
}

// Archive installs t into dir, creating dir if needed. The installer picks
// the on-disk layout, normally dir/<id>.<version>/<id>.<version>.nupkg.
//
// The id must be a valid package id and the version an exact version;
// anything else fails with INVALID_PACKAGE or INVALID_VERSION without running
// the installer. Installer failures are returned as PACKAGE_ARCHIVE.
func (a *Archiver) Archive(ctx context.Context, t Target, dir string) error {
	if err := errors.ValidateNuGetPackageID(t.ID); err != nil {
		return err
	}
	if err := errors.ValidateExactVersion(t.Version); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodePackageArchive, err, "create target directory %s", dir)
	}

	if _, err := a.Runner.Run(ctx, a.Command(t, dir)); err != nil {
		return errors.Wrap(errors.ErrCodePackageArchive, err, "install %s", t)
	}
	return nil
}
