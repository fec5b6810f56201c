package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/matzehuels/nugetbackup/pkg/errors"
)

func sampleReport() *Report {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Report{
		RunID:      "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		Version:    "dev",
		Config:     Config{ProjectPath: "App.sln", TargetDir: "backup", IncludeTransitive: true},
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Projects:   []string{"App.csproj"},
		Packages: []Outcome{
			{ID: "Newtonsoft.Json", Version: "13.0.1", Project: "App.csproj", Framework: "net8.0", OK: true},
			{ID: "Serilog", Version: "3.1.1", Project: "App.csproj", Framework: "net8.0", Error: "install failed"},
			{ID: "System.Memory", Version: "4.5.5", Project: "App.csproj", Framework: "net8.0", Transitive: true, OK: true},
		},
		Normalize: &NormalizeSummary{
			Moved:    []string{"Newtonsoft.Json.13.0.1.nupkg"},
			Failures: []NormalizeFailure{{Dir: "System.Memory.4.5.5", Error: "archive not found"}},
		},
	}
}

func TestReportCounts(t *testing.T) {
	r := sampleReport()
	if r.Archived() != 2 || r.ArchiveFailures() != 1 {
		t.Errorf("Archived=%d Failures=%d, want 2/1", r.Archived(), r.ArchiveFailures())
	}
	if r.Normalized() != 1 || r.NormalizeFailures() != 1 {
		t.Errorf("Normalized=%d Failures=%d, want 1/1", r.Normalized(), r.NormalizeFailures())
	}
	if r.Duration() != 90*time.Second {
		t.Errorf("Duration() = %v", r.Duration())
	}

	empty := &Report{}
	if empty.Normalized() != 0 || empty.NormalizeFailures() != 0 {
		t.Error("nil Normalize should count as zero")
	}
}

func TestReportMarshal(t *testing.T) {
	r := sampleReport()

	t.Run("json", func(t *testing.T) {
		data, err := r.Marshal("json")
		if err != nil {
			t.Fatalf("Marshal(json) error: %v", err)
		}
		var back Report
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if back.RunID != r.RunID || len(back.Packages) != 3 || back.Config.ProjectPath != "App.sln" {
			t.Errorf("decoded = %+v", back)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		for _, format := range []string{"yaml", "YML"} {
			data, err := r.Marshal(format)
			if err != nil {
				t.Fatalf("Marshal(%s) error: %v", format, err)
			}
			if !strings.Contains(string(data), "run_id: 7c9e6679") {
				t.Errorf("YAML missing run_id:\n%s", data)
			}
			var back Report
			if err := yaml.Unmarshal(data, &back); err != nil {
				t.Fatalf("output is not YAML: %v", err)
			}
			if back.Archived() != 2 {
				t.Errorf("decoded Archived() = %d", back.Archived())
			}
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, err := r.Marshal("xml"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Marshal(xml) error = %v, want INVALID_CONFIG", err)
		}
	})
}

func TestReportWriteFile(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()

	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{"report.json", "{", false},
		{"nested/report.yaml", "cancelled: true", false},
		{"report.yml", "cancelled: true", false},
		{"report", "", true},
		{"report.txt", "", true},
	}
	r.Cancelled = true
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			err := r.WriteFile(path)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("WriteFile() error = %v, want INVALID_CONFIG", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("%s starts with %q, want %q", tt.name, firstBytes(data), tt.prefix)
			}
		})
	}
}

func TestConfigValidateAndSelection(t *testing.T) {
	if err := (Config{ProjectPath: "a", TargetDir: "b"}).Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	c := Config{IncludeTransitive: true, Dedupe: true}
	sel := c.Selection()
	if !sel.IncludeTransitive || !sel.Dedupe || sel.AllFrameworks {
		t.Errorf("Selection() = %+v", sel)
	}
	if c.archiveExtension() != ".nupkg" {
		t.Errorf("archiveExtension() = %q", c.archiveExtension())
	}
	c.ArchiveExtension = ".zip"
	if c.archiveExtension() != ".zip" {
		t.Errorf("archiveExtension() = %q", c.archiveExtension())
	}
}

func firstBytes(b []byte) string {
	if len(b) > 16 {
		b = b[:16]
	}
	return string(b)
}
