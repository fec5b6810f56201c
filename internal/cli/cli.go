package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetbackup/pkg/buildinfo"
	"github.com/matzehuels/nugetbackup/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nugetbackup"

	// configFileName is looked up under the XDG config directory.
	configFileName = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Options
// =============================================================================

// options holds the command-line flags of the root command. After
// mergeFileConfig it is turned into a backup.Config and not touched again.
type options struct {
	includeTransitive bool
	keepArchivesOnly  bool
	allFrameworks     bool
	dedupe            bool

	dotnet           string
	nuget            string
	installerArgs    string
	archiveExtension string
	timeout          time.Duration

	report       string
	mirror       string
	skipExisting bool

	config  string
	verbose bool
}

// RootCommand creates the root cobra command. The root command itself runs
// the backup; completion is the only subcommand.
func (c *CLI) RootCommand() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "nugetbackup <projectOrSolutionPath> <targetDirectory>",
		Short: "Back up the NuGet packages a .NET project depends on",
		Long: `nugetbackup lists the resolved NuGet dependencies of a project or solution
with "dotnet list package" and downloads every package version into a local
directory with "nuget install", so the exact set can be restored offline.

Examples:
  nugetbackup App.sln ./backup
  nugetbackup -i -k src/App/App.csproj ./backup
  nugetbackup -i --dedupe --report backup.yaml App.sln ./backup`,
		Version:       buildinfo.Version,
		Args:          positionalArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.mergeFileConfig(cmd.Flags().Changed); err != nil {
				return err
			}
			return c.runBackup(cmd.Context(), opts, args[0], args[1])
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(errors.ErrCodeUsage, err, "invalid arguments")
	})

	flags := root.Flags()
	flags.BoolVarP(&opts.includeTransitive, "includetp", "i", false, "include transitive packages")
	flags.BoolVarP(&opts.keepArchivesOnly, "keeppo", "k", false, "keep only the package archive (.nupkg) files")
	flags.BoolVarP(&opts.allFrameworks, "all-frameworks", "a", false, "back up every target framework, not only the first")
	flags.BoolVarP(&opts.dedupe, "dedupe", "d", false, "install each id and version at most once")
	flags.StringVar(&opts.dotnet, "dotnet", "", `dependency lister executable (default "dotnet")`)
	flags.StringVar(&opts.nuget, "nuget", "", `package installer executable (default "nuget")`)
	flags.StringVar(&opts.installerArgs, "installer-args", "", `extra installer arguments, e.g. "-Source https://api.nuget.org/v3/index.json"`)
	flags.DurationVar(&opts.timeout, "timeout", 0, "abort the run after this long (0 means no limit)")
	flags.StringVar(&opts.report, "report", "", "write a run report (.json, .yaml or .yml)")
	flags.StringVar(&opts.mirror, "mirror", "", "upload the target directory to s3+http(s)://host/bucket/prefix")
	flags.BoolVar(&opts.skipExisting, "mirror-skip-existing", false, "skip objects already mirrored with the same size")
	flags.StringVar(&opts.config, "config", "", "config file (default $XDG_CONFIG_HOME/nugetbackup/config.toml)")

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.completionCommand())

	return root
}

// positionalArgs requires exactly the project path and the target directory.
func positionalArgs(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.New(errors.ErrCodeUsage, "expected <projectOrSolutionPath> <targetDirectory>, got %d argument(s)", len(args))
	}
	return nil
}
