// Package backup runs the dependency-listing-to-archive pipeline.
//
// A run has four stages, executed strictly one after another:
//
//  1. List: ask the build toolchain for the resolved dependency report
//  2. Parse: decode the report into a [nuget.Manifest]
//  3. Archive: install every selected package version into the target directory
//  4. Normalize: optionally flatten the installer layout to bare archives
//
// Listing and parsing failures abort the run. Archive and normalize failures
// are per item: they are logged, recorded in the [Report], and the run goes on.
//
// # Usage
//
//	runner := backup.NewRunner(lister, archiver, logger)
//	report, err := runner.Run(ctx, backup.Config{
//	    ProjectPath: "App.sln",
//	    TargetDir:   "packages-backup",
//	    IncludeTransitive: true,
//	})
package backup

import (
	"github.com/matzehuels/nugetbackup/pkg/errors"
	"github.com/matzehuels/nugetbackup/pkg/layout"
	"github.com/matzehuels/nugetbackup/pkg/nuget"
)

// Config is the immutable description of one backup run. It is built once
// from the command line and passed by value.
type Config struct {
	ProjectPath string `json:"project_path"`
	TargetDir   string `json:"target_dir"`

	KeepArchiveFilesOnly bool `json:"keep_archive_files_only,omitempty"`
	IncludeTransitive    bool `json:"include_transitive,omitempty"`
	AllFrameworks        bool `json:"all_frameworks,omitempty"`
	Dedupe               bool `json:"dedupe,omitempty"`

	// ArchiveExtension is the file extension Normalize looks for.
	// Empty means layout.DefaultExtension.
	ArchiveExtension string `json:"archive_extension,omitempty"`
}

// Validate reports missing required fields.
func (c Config) Validate() error {
	if c.ProjectPath == "" {
		return errors.New(errors.ErrCodeUsage, "project or solution path is required")
	}
	if c.TargetDir == "" {
		return errors.New(errors.ErrCodeUsage, "target directory is required")
	}
	return nil
}

// Selection returns the target selection rules implied by c.
func (c Config) Selection() nuget.Selection {
	return nuget.Selection{
		IncludeTransitive: c.IncludeTransitive,
		AllFrameworks:     c.AllFrameworks,
		Dedupe:            c.Dedupe,
	}
}

// archiveExtension returns the configured extension or the NuGet default.
func (c Config) archiveExtension() string {
	if c.ArchiveExtension == "" {
		return layout.DefaultExtension
	}
	return c.ArchiveExtension
}
