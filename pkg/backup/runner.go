package backup

import (
	"context"
	stderrors "errors"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nugetbackup/pkg/buildinfo"
	"github.com/matzehuels/nugetbackup/pkg/errors"
	"github.com/matzehuels/nugetbackup/pkg/layout"
	"github.com/matzehuels/nugetbackup/pkg/nuget"
	"github.com/matzehuels/nugetbackup/pkg/observability"
)

// Lister produces the raw dependency report for a project.
type Lister interface {
	List(ctx context.Context, path string, includeTransitive bool) ([]byte, error)
}

// Archiver fetches one package version into a directory.
type Archiver interface {
	Archive(ctx context.Context, t nuget.Target, dir string) error
}

// NormalizeFunc flattens the installer layout of dir.
type NormalizeFunc func(ctx context.Context, dir, ext string) (*layout.Result, error)

// Runner sequences a backup run. It holds no per-run state, so one Runner
// can execute several runs one after another.
type Runner struct {
	Lister    Lister
	Archiver  Archiver
	Normalize NormalizeFunc
	Logger    *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(l Lister, a Archiver, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Lister:    l,
		Archiver:  a,
		Normalize: layout.Normalize,
		Logger:    logger,
	}
}

// Run executes one backup described by cfg.
//
// A non-nil error with a nil report means the run aborted before any package
// was attempted: bad config, missing project, listing or parse failure. If
// ctx is cancelled mid-run, Run returns the partial report together with the
// context error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Version:   buildinfo.Short(),
		Config:    cfg,
		StartedAt: time.Now(),
		Packages:  []Outcome{},
	}
	logger := r.Logger.With("run", report.RunID[:8])
	hooks := observability.Backup()

	logger.Info("Backing up", "path", cfg.ProjectPath)
	logger.Info("Target directory", "path", cfg.TargetDir)

	hooks.OnListStart(ctx, cfg.ProjectPath)
	listStart := time.Now()
	data, err := r.Lister.List(ctx, cfg.ProjectPath, cfg.IncludeTransitive)
	hooks.OnListComplete(ctx, cfg.ProjectPath, len(data), time.Since(listStart), err)
	if err != nil {
		if out := errors.CommandOutput(err); out != "" {
			logger.Debug("Lister output", "output", out)
		}
		return nil, err
	}

	m, err := nuget.ParseManifest(data)
	if err != nil {
		logger.Debug("Unparseable dependency report", "output", string(data))
		return nil, err
	}
	report.ManifestVersion = m.Version
	report.Warnings = append(report.Warnings, collectProblems(logger, m)...)
	for _, p := range m.Projects {
		report.Projects = append(report.Projects, p.Path)
		logger.Info("Processing project", "project", p.Path, "frameworks", len(p.Frameworks))
		if len(p.Frameworks) == 0 {
			logger.Warn("Project has no target frameworks, skipping", "project", p.Path)
		}
	}

	targets := nuget.Targets(m, cfg.Selection())
	logger.Infof("Found %d packages in %d projects", len(targets), len(m.Projects))

	if err := r.archiveAll(ctx, logger, cfg, targets, report); err != nil {
		report.Cancelled = true
		report.FinishedAt = time.Now()
		return report, err
	}

	if cfg.KeepArchiveFilesOnly {
		if err := r.normalize(ctx, logger, cfg, report); err != nil {
			report.Cancelled = true
			report.FinishedAt = time.Now()
			return report, err
		}
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// archiveAll installs every target in order. Install failures are recorded
// and skipped; only cancellation stops the loop.
func (r *Runner) archiveAll(ctx context.Context, logger *log.Logger, cfg Config, targets []nuget.Target, report *Report) error {
	hooks := observability.Backup()
	var project, framework string

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Project != project || t.Framework != framework {
			project, framework = t.Project, t.Framework
			logger.Info("Archiving", "project", project, "framework", framework)
		}

		logger.Infof("Package %s", t)
		hooks.OnArchiveStart(ctx, t.ID, t.Version)
		start := time.Now()
		err := r.Archiver.Archive(ctx, t, cfg.TargetDir)
		elapsed := time.Since(start)
		hooks.OnArchiveComplete(ctx, t.ID, t.Version, elapsed, err)

		outcome := Outcome{
			ID:         t.ID,
			Version:    t.Version,
			Project:    t.Project,
			Framework:  t.Framework,
			Transitive: t.Transitive,
			OK:         err == nil,
			Duration:   elapsed,
		}
		if err != nil {
			outcome.Error = errors.Detail(err)
			report.Packages = append(report.Packages, outcome)
			if isCancellation(err) && ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Package failed", "package", t.String(), "err", err)
			if out := errors.CommandOutput(err); out != "" {
				logger.Debug("Installer output", "package", t.String(), "output", out)
			}
			continue
		}
		report.Packages = append(report.Packages, outcome)
		logger.Info("Done", "package", t.String(), "elapsed", elapsed.Round(time.Millisecond))
	}
	return nil
}

// normalize flattens the target directory. Only cancellation is returned as
// an error; everything else ends up in the report.
func (r *Runner) normalize(ctx context.Context, logger *log.Logger, cfg Config, report *Report) error {
	summary := &NormalizeSummary{Moved: []string{}}
	report.Normalize = summary

	if _, err := os.Stat(cfg.TargetDir); os.IsNotExist(err) {
		logger.Info("Nothing to normalize", "dir", cfg.TargetDir)
		return nil
	}

	logger.Info("Keeping archive files only", "dir", cfg.TargetDir)
	start := time.Now()
	res, err := r.Normalize(ctx, cfg.TargetDir, cfg.archiveExtension())
	if res != nil {
		summary.Moved = append(summary.Moved, res.Moved...)
		for _, f := range res.Failures {
			logger.Error("Normalize failed", "dir", f.Dir, "err", f.Err)
			summary.Failures = append(summary.Failures, NormalizeFailure{Dir: f.Dir, Error: errors.Detail(f.Err)})
		}
	}
	observability.Backup().OnNormalizeComplete(ctx, len(summary.Moved), len(summary.Failures), time.Since(start))

	if err != nil {
		if isCancellation(err) {
			return err
		}
		logger.Error("Normalize failed", "dir", cfg.TargetDir, "err", err)
		summary.Failures = append(summary.Failures, NormalizeFailure{Dir: ".", Error: errors.Detail(err)})
	}
	return nil
}

// collectProblems logs the problems the lister reported and returns them as
// warning strings.
func collectProblems(logger *log.Logger, m *nuget.Manifest) []string {
	var out []string
	report := func(project string, p nuget.Problem) {
		if project == "" {
			project = p.Project
		}
		msg := p.Text
		if project != "" {
			msg = project + ": " + msg
		}
		logger.Warn("Lister reported a problem", "level", p.Level, "text", msg)
		out = append(out, msg)
	}
	for _, p := range m.Problems {
		report("", p)
	}
	for _, proj := range m.Projects {
		for _, p := range proj.Problems {
			report(proj.Path, p)
		}
	}
	return out
}

func isCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
