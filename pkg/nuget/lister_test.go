package nuget

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/nugetbackup/pkg/errors"
)

func writeProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "App.csproj")
	if err := os.WriteFile(path, []byte("<Project Sdk=\"Microsoft.NET.Sdk\" />"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListerCommand(t *testing.T) {
	l := NewLister(&fakeRunner{}, "")

	tests := []struct {
		transitive bool
		want       string
	}{
		{false, "dotnet list App.sln package --format json"},
		{true, "dotnet list App.sln package --format json --include-transitive"},
	}
	for _, tt := range tests {
		if got := l.Command("App.sln", tt.transitive).String(); got != tt.want {
			t.Errorf("Command(transitive=%v) = %q, want %q", tt.transitive, got, tt.want)
		}
	}

	custom := NewLister(&fakeRunner{}, "/usr/share/dotnet/dotnet")
	if got := custom.Command("a", false).Name; got != "/usr/share/dotnet/dotnet" {
		t.Errorf("Name = %q", got)
	}
}

func TestListerList(t *testing.T) {
	project := writeProject(t)
	runner := &fakeRunner{stdout: "\n" + string(readTestdata(t, "list-transitive.json")) + "\n"}

	out, err := NewLister(runner, "").List(context.Background(), project, true)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(runner.calls))
	}
	if args := runner.calls[0].Args; args[1] != project || args[len(args)-1] != "--include-transitive" {
		t.Errorf("Args = %q", args)
	}
	if _, err := ParseManifest(out); err != nil {
		t.Errorf("List() output does not parse: %v", err)
	}
}

func TestListerProjectNotFound(t *testing.T) {
	runner := &fakeRunner{stdout: "{}"}
	missing := filepath.Join(t.TempDir(), "Missing.csproj")

	_, err := NewLister(runner, "").List(context.Background(), missing, false)
	if !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Fatalf("error = %v, want PROJECT_NOT_FOUND", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner called %d times, want 0", len(runner.calls))
	}
}

func TestListerFailures(t *testing.T) {
	project := writeProject(t)

	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{"non-zero exit", &fakeRunner{stdout: "error: NU1100", exit: 1}},
		{"not json", &fakeRunner{stdout: "The project has no package references."}},
		{"empty output", &fakeRunner{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLister(tt.runner, "").List(context.Background(), project, false)
			if !errors.Is(err, errors.ErrCodeDependencyListing) {
				t.Fatalf("error = %v, want DEPENDENCY_LISTING", err)
			}
			if got := errors.CommandOutput(err); got != tt.runner.stdout {
				t.Errorf("CommandOutput() = %q, want %q", got, tt.runner.stdout)
			}
		})
	}
}

func TestListerNotJSONMessage(t *testing.T) {
	project := writeProject(t)
	_, err := NewLister(&fakeRunner{stdout: "nope"}, "").List(context.Background(), project, false)
	if err == nil || !strings.Contains(err.Error(), "output is not JSON") {
		t.Errorf("error = %v, want mention of non-JSON output", err)
	}
}
