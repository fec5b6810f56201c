package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/matzehuels/nugetbackup/pkg/backup"
	"github.com/matzehuels/nugetbackup/pkg/errors"
	"github.com/matzehuels/nugetbackup/pkg/mirror"
	"github.com/matzehuels/nugetbackup/pkg/nuget"
	"github.com/matzehuels/nugetbackup/pkg/observability"
	"github.com/matzehuels/nugetbackup/pkg/proc"
)

// runBackup executes one backup run and the optional report and mirror steps.
func (c *CLI) runBackup(ctx context.Context, opts options, projectPath, targetDir string) error {
	logger := loggerFromContext(ctx)
	cfg := opts.backupConfig(projectPath, targetDir)

	extra, err := opts.installerArgv()
	if err != nil {
		return err
	}

	// Mirror setup problems must surface before anything is downloaded.
	var m *mirror.Mirror
	if opts.mirror != "" {
		dest, err := mirror.ParseURL(opts.mirror)
		if err != nil {
			return err
		}
		client, err := mirror.NewClient(dest)
		if err != nil {
			return err
		}
		m = mirror.New(client, dest, logger)
		m.SkipExisting = opts.skipExisting
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	if opts.verbose {
		observability.SetProcessHooks(processLogHooks{logger: logger})
		observability.SetBackupHooks(backupLogHooks{logger: logger})
		defer observability.Reset()
	}

	runner := proc.NewExecRunner()
	archiver := nuget.NewArchiver(runner, opts.nuget, extra)
	var lister backup.Lister = nuget.NewLister(runner, opts.dotnet)
	if opts.verbose {
		archiver.Output = func(line string) { logger.Debug(line, "source", "installer") }
	} else if isatty.IsTerminal(os.Stderr.Fd()) {
		lister = spinnerLister{Lister: lister}
	}

	prog := newProgress(logger)
	report, err := backup.NewRunner(lister, archiver, logger).Run(ctx, cfg)
	if report != nil {
		printSummary(report)
		if opts.report != "" {
			if werr := report.WriteFile(opts.report); werr != nil {
				logger.Error("Could not write report", "path", opts.report, "err", werr)
			} else {
				printFile(opts.report)
			}
		}
	}
	if err != nil {
		return err
	}
	prog.done("Backup finished")

	if m == nil {
		return nil
	}
	return c.runMirror(ctx, m, cfg.TargetDir)
}

func (c *CLI) runMirror(ctx context.Context, m *mirror.Mirror, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printWarning("Nothing to mirror: %s does not exist", dir)
		return nil
	}

	prog := newProgress(loggerFromContext(ctx))
	res, err := m.Upload(ctx, dir)
	if res != nil {
		printMirrorSummary(m.Destination.String(), res)
	}
	if err != nil {
		return err
	}
	prog.done("Mirror finished")
	return nil
}

// spinnerLister shows a spinner while the dependency report is produced.
type spinnerLister struct {
	backup.Lister
}

func (s spinnerLister) List(ctx context.Context, path string, includeTransitive bool) ([]byte, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Listing packages of %s...", filepath.Base(path)))
	spinner.Start()
	data, err := s.Lister.List(ctx, path, includeTransitive)
	if err != nil && !errors.Is(err, errors.ErrCodeProjectNotFound) {
		spinner.StopWithError("Listing failed")
	} else {
		spinner.Stop()
	}
	return data, err
}
