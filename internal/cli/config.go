package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"

	"github.com/matzehuels/nugetbackup/pkg/backup"
	"github.com/matzehuels/nugetbackup/pkg/errors"
)

// fileConfig is the TOML config file. Pointer fields distinguish "unset"
// from the zero value.
type fileConfig struct {
	Dotnet           string `toml:"dotnet"`
	NuGet            string `toml:"nuget"`
	InstallerArgs    string `toml:"installer_args"`
	ArchiveExtension string `toml:"archive_extension"`
	Timeout          string `toml:"timeout"`

	Dedupe            *bool `toml:"dedupe"`
	AllFrameworks     *bool `toml:"all_frameworks"`
	IncludeTransitive *bool `toml:"include_transitive"`
	KeepArchivesOnly  *bool `toml:"keep_archives_only"`
}

// configDir returns the config directory using XDG standard (~/.config/nugetbackup/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadFileConfig reads the config file at path. With an empty path the
// default location is tried and a missing file there is not an error.
func loadFileConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return &fileConfig{}, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return &fc, nil
}

// mergeFileConfig fills every option whose flag was not set on the command
// line from the config file.
func (o *options) mergeFileConfig(changed func(flag string) bool) error {
	fc, err := loadFileConfig(o.config)
	if err != nil {
		return err
	}
	return o.apply(fc, changed)
}

func (o *options) apply(fc *fileConfig, changed func(flag string) bool) error {
	setString := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}
	setBool := func(flag string, dst *bool, v *bool) {
		if v != nil && !changed(flag) {
			*dst = *v
		}
	}

	setString("dotnet", &o.dotnet, fc.Dotnet)
	setString("nuget", &o.nuget, fc.NuGet)
	setString("installer-args", &o.installerArgs, fc.InstallerArgs)
	o.archiveExtension = fc.ArchiveExtension

	setBool("dedupe", &o.dedupe, fc.Dedupe)
	setBool("all-frameworks", &o.allFrameworks, fc.AllFrameworks)
	setBool("includetp", &o.includeTransitive, fc.IncludeTransitive)
	setBool("keeppo", &o.keepArchivesOnly, fc.KeepArchivesOnly)

	if fc.Timeout != "" && !changed("timeout") {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid timeout %q", fc.Timeout)
		}
		o.timeout = d
	}
	return nil
}

// backupConfig returns the run description for the two positional arguments.
func (o *options) backupConfig(projectPath, targetDir string) backup.Config {
	return backup.Config{
		ProjectPath:          projectPath,
		TargetDir:            targetDir,
		KeepArchiveFilesOnly: o.keepArchivesOnly,
		IncludeTransitive:    o.includeTransitive,
		AllFrameworks:        o.allFrameworks,
		Dedupe:               o.dedupe,
		ArchiveExtension:     o.archiveExtension,
	}
}

// installerArgv splits the installer-args option the way a POSIX shell would.
func (o *options) installerArgv() ([]string, error) {
	if strings.TrimSpace(o.installerArgs) == "" {
		return nil, nil
	}
	args, err := shlex.Split(o.installerArgs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid installer arguments %q", o.installerArgs)
	}
	return args, nil
}
