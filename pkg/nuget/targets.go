package nuget

import "strings"

// Target is one package version to fetch, with where it was found.
type Target struct {
	ID         string
	Version    string
	Project    string
	Framework  string
	Transitive bool
}

// String returns "id:version".
func (t Target) String() string {
	return t.ID + ":" + t.Version
}

// Selection controls which manifest entries become targets.
type Selection struct {
	// IncludeTransitive adds each framework's transitive packages after its
	// top-level packages.
	IncludeTransitive bool

	// AllFrameworks visits every framework of a project. By default only the
	// first one is used.
	AllFrameworks bool

	// Dedupe drops repeats of an id and version already selected earlier in
	// the run. Ids compare case-insensitively, as NuGet does.
	Dedupe bool
}

// Targets flattens m into the ordered list of packages to archive: projects
// in manifest order, then frameworks, then top-level packages before
// transitive ones. Without Dedupe, a package listed by several projects is
// returned once per listing.
func Targets(m *Manifest, sel Selection) []Target {
	var out []Target
	seen := make(map[string]bool)

	add := func(t Target) {
		if sel.Dedupe {
			key := strings.ToLower(t.ID) + "@" + t.Version
			if seen[key] {
				return
			}
			seen[key] = true
		}
		out = append(out, t)
	}

	for _, p := range m.Projects {
		for _, f := range selectFrameworks(p.Frameworks, sel.AllFrameworks) {
			for _, pkg := range f.TopLevelPackages {
				add(Target{ID: pkg.ID, Version: pkg.ResolvedVersion, Project: p.Path, Framework: f.Name})
			}
			if !sel.IncludeTransitive {
				continue
			}
			for _, pkg := range f.TransitivePackages {
				add(Target{ID: pkg.ID, Version: pkg.ResolvedVersion, Project: p.Path, Framework: f.Name, Transitive: true})
			}
		}
	}
	return out
}

func selectFrameworks(fs []Framework, all bool) []Framework {
	if all || len(fs) <= 1 {
		return fs
	}
	return fs[:1]
}
