package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/matzehuels/nugetbackup/pkg/errors"
)

// Outcome is the result of archiving one target.
type Outcome struct {
	ID         string        `json:"id"`
	Version    string        `json:"version"`
	Project    string        `json:"project"`
	Framework  string        `json:"framework"`
	Transitive bool          `json:"transitive,omitempty"`
	OK         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// NormalizeFailure is one subdirectory the normalizer left in place.
type NormalizeFailure struct {
	Dir   string `json:"dir"`
	Error string `json:"error"`
}

// NormalizeSummary describes the layout pass of a run.
type NormalizeSummary struct {
	Moved    []string           `json:"moved"`
	Failures []NormalizeFailure `json:"failures,omitempty"`
}

// Report is the record of one backup run.
type Report struct {
	RunID      string    `json:"run_id"`
	Version    string    `json:"tool_version"`
	Config     Config    `json:"config"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	ManifestVersion int      `json:"manifest_version"`
	Projects        []string `json:"projects"`
	Warnings        []string `json:"warnings,omitempty"`

	Packages  []Outcome         `json:"packages"`
	Normalize *NormalizeSummary `json:"normalize,omitempty"`

	// Cancelled is set when the run stopped before attempting every package.
	Cancelled bool `json:"cancelled,omitempty"`
}

// Archived returns the number of packages installed successfully.
func (r *Report) Archived() int {
	n := 0
	for _, p := range r.Packages {
		if p.OK {
			n++
		}
	}
	return n
}

// ArchiveFailures returns the number of packages that failed to install.
func (r *Report) ArchiveFailures() int {
	return len(r.Packages) - r.Archived()
}

// Normalized returns the number of archives moved by the layout pass.
func (r *Report) Normalized() int {
	if r.Normalize == nil {
		return 0
	}
	return len(r.Normalize.Moved)
}

// NormalizeFailures returns the number of subdirectories left in place.
func (r *Report) NormalizeFailures() int {
	if r.Normalize == nil {
		return 0
	}
	return len(r.Normalize.Failures)
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Marshal encodes the report as JSON, or as YAML when format is "yaml" or "yml".
func (r *Report) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(r)
	case "json", "":
		return json.MarshalIndent(r, "", "  ")
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported report format: %s", format)
	}
}

// WriteFile writes the report to path, choosing the format from the file
// extension (.json, .yaml or .yml).
func (r *Report) WriteFile(path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "report path %s has no extension (use .json or .yaml)", path)
	}
	data, err := r.Marshal(format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
