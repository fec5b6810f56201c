package nuget

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/nugetbackup/pkg/errors"
)

// Manifest is the report printed by "dotnet list package --format json".
type Manifest struct {
	Version    int       `json:"version"`
	Parameters string    `json:"parameters"`
	Problems   []Problem `json:"problems"`
	Projects   []Project `json:"projects"`
}

// Project is one buildable unit in the report.
type Project struct {
	Path       string      `json:"path"`
	Frameworks []Framework `json:"frameworks"`
	Problems   []Problem   `json:"problems"`
}

// Framework is one target framework of a project, e.g. "net8.0".
type Framework struct {
	Name               string              `json:"framework"`
	TopLevelPackages   []TopLevelPackage   `json:"topLevelPackages"`
	TransitivePackages []TransitivePackage `json:"transitivePackages"`
}

// TopLevelPackage is a dependency the project declares directly.
type TopLevelPackage struct {
	ID               string `json:"id"`
	RequestedVersion string `json:"requestedVersion"`
	ResolvedVersion  string `json:"resolvedVersion"`
}

// TransitivePackage is a dependency pulled in by another package.
type TransitivePackage struct {
	ID              string `json:"id"`
	ResolvedVersion string `json:"resolvedVersion"`
}

// Problem is a warning or error the lister attached to its report, such as
// a project that has not been restored yet.
type Problem struct {
	Project string `json:"project,omitempty"`
	Level   string `json:"level"`
	Text    string `json:"text"`
}

// ParseManifest decodes a lister report. Unknown fields are ignored and
// absent lists decode as empty slices. Anything that is not a JSON object of
// the expected shape yields a MANIFEST_PARSE error.
func ParseManifest(data []byte) (*Manifest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeManifestParse, "empty dependency report")
	}
	if trimmed[0] != '{' {
		return nil, errors.New(errors.ErrCodeManifestParse, "dependency report is not a JSON object")
	}

	var m Manifest
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "decode dependency report")
	}
	m.fillEmpty()
	return &m, nil
}

// fillEmpty replaces nil slices so callers never have to nil-check.
func (m *Manifest) fillEmpty() {
	if m.Problems == nil {
		m.Problems = []Problem{}
	}
	if m.Projects == nil {
		m.Projects = []Project{}
	}
	for i := range m.Projects {
		p := &m.Projects[i]
		if p.Frameworks == nil {
			p.Frameworks = []Framework{}
		}
		if p.Problems == nil {
			p.Problems = []Problem{}
		}
		for j := range p.Frameworks {
			f := &p.Frameworks[j]
			if f.TopLevelPackages == nil {
				f.TopLevelPackages = []TopLevelPackage{}
			}
			if f.TransitivePackages == nil {
				f.TransitivePackages = []TransitivePackage{}
			}
		}
	}
}

// PackageCount returns the number of package entries across all projects
// and frameworks, counting repeats.
func (m *Manifest) PackageCount() int {
	n := 0
	for _, p := range m.Projects {
		for _, f := range p.Frameworks {
			n += len(f.TopLevelPackages) + len(f.TransitivePackages)
		}
	}
	return n
}
