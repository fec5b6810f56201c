package nuget

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/nugetbackup/pkg/errors"
)

func TestArchiverCommand(t *testing.T) {
	a := NewArchiver(&fakeRunner{}, "", []string{"-Source", "https://api.nuget.org/v3/index.json"})
	cmd := a.Command(Target{ID: "Newtonsoft.Json", Version: "13.0.1"}, "/backup")

	want := "nuget install Newtonsoft.Json -Version 13.0.1 -o /backup -Source https://api.nuget.org/v3/index.json"
	if got := cmd.String(); got != want {
		t.Errorf("Command() = %q, want %q", got, want)
	}
}

func TestArchiverArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet", "there")
	runner := &fakeRunner{}

	err := NewArchiver(runner, "", nil).Archive(context.Background(), Target{ID: "Newtonsoft.Json", Version: "13.0.1"}, dir)
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(runner.calls))
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("target directory not created: %v", err)
	}
}

func TestArchiverFailure(t *testing.T) {
	runner := &fakeRunner{stdout: "Unable to find version '9.9.9'", exit: 1}

	err := NewArchiver(runner, "", nil).Archive(context.Background(), Target{ID: "Newtonsoft.Json", Version: "9.9.9"}, t.TempDir())
	if !errors.Is(err, errors.ErrCodePackageArchive) {
		t.Fatalf("error = %v, want PACKAGE_ARCHIVE", err)
	}
}

func TestArchiverRejectsBadTargets(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		code   errors.Code
	}{
		{"empty id", Target{Version: "1.0.0"}, errors.ErrCodeInvalidPackage},
		{"traversal id", Target{ID: "../evil", Version: "1.0.0"}, errors.ErrCodeInvalidPackage},
		{"range version", Target{ID: "Serilog", Version: "[3.1.0, )"}, errors.ErrCodeInvalidVersion},
		{"empty version", Target{ID: "Serilog"}, errors.ErrCodeInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			err := NewArchiver(runner, "", nil).Archive(context.Background(), tt.target, t.TempDir())
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if len(runner.calls) != 0 {
				t.Errorf("installer ran for invalid target")
			}
		})
	}
}
