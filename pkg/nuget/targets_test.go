package nuget

import (
	"testing"
)

func targetKeys(ts []Target) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTargets(t *testing.T) {
	m, err := ParseManifest(readTestdata(t, "list-transitive.json"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{
			name: "top-level, first framework",
			sel:  Selection{},
			want: []string{
				"Newtonsoft.Json:13.0.1", "Serilog:3.1.1",
				"xunit:2.6.2", "newtonsoft.json:13.0.1",
			},
		},
		{
			name: "with transitive",
			sel:  Selection{IncludeTransitive: true},
			want: []string{
				"Newtonsoft.Json:13.0.1", "Serilog:3.1.1", "System.Diagnostics.DiagnosticSource:7.0.2",
				"xunit:2.6.2", "newtonsoft.json:13.0.1", "xunit.core:2.6.2",
			},
		},
		{
			name: "all frameworks",
			sel:  Selection{AllFrameworks: true},
			want: []string{
				"Newtonsoft.Json:13.0.1", "Serilog:3.1.1",
				"Newtonsoft.Json:13.0.1",
				"xunit:2.6.2", "newtonsoft.json:13.0.1",
			},
		},
		{
			name: "all frameworks deduped",
			sel:  Selection{AllFrameworks: true, IncludeTransitive: true, Dedupe: true},
			want: []string{
				"Newtonsoft.Json:13.0.1", "Serilog:3.1.1", "System.Diagnostics.DiagnosticSource:7.0.2",
				"xunit:2.6.2", "xunit.core:2.6.2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := targetKeys(Targets(m, tt.sel))
			if !equalStrings(got, tt.want) {
				t.Errorf("Targets() = %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestTargetsProvenance(t *testing.T) {
	m, err := ParseManifest(readTestdata(t, "list-transitive.json"))
	if err != nil {
		t.Fatal(err)
	}

	ts := Targets(m, Selection{IncludeTransitive: true})
	last := ts[len(ts)-1]
	if last.Project != "/src/App.Tests/App.Tests.csproj" || last.Framework != "net8.0" || !last.Transitive {
		t.Errorf("last target = %+v", last)
	}
	if ts[0].Transitive {
		t.Errorf("first target should be top-level: %+v", ts[0])
	}
}

func TestTargetsSinglePackage(t *testing.T) {
	m := &Manifest{Projects: []Project{{
		Path: "App.csproj",
		Frameworks: []Framework{{
			Name:               "net8.0",
			TopLevelPackages:   []TopLevelPackage{{ID: "Newtonsoft.Json", ResolvedVersion: "13.0.1"}},
			TransitivePackages: []TransitivePackage{},
		}},
	}}}

	ts := Targets(m, Selection{})
	if len(ts) != 1 {
		t.Fatalf("len(Targets) = %d, want 1", len(ts))
	}
	if ts[0].ID != "Newtonsoft.Json" || ts[0].Version != "13.0.1" {
		t.Errorf("target = %+v", ts[0])
	}
}

func TestTargetsEmpty(t *testing.T) {
	tests := []struct {
		name string
		m    *Manifest
	}{
		{"no projects", &Manifest{}},
		{"project without frameworks", &Manifest{Projects: []Project{{Path: "Lib.csproj"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Targets(tt.m, Selection{IncludeTransitive: true, AllFrameworks: true}); len(got) != 0 {
				t.Errorf("Targets() = %v, want none", got)
			}
		})
	}
}
