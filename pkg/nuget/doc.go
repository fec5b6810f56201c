// Package nuget talks to the .NET tooling that knows about NuGet packages.
//
// It covers the three NuGet-specific steps of a backup run:
//
//   - [Lister] runs "dotnet list <path> package --format json" and returns the
//     raw report.
//   - [ParseManifest] decodes that report into a [Manifest].
//   - [Archiver] runs "nuget install <id> -Version <version> -o <dir>" for one
//     resolved package.
//
// [Targets] sits between parsing and archiving: it flattens a manifest into
// the ordered list of packages to fetch, honoring the transitive, framework
// and de-duplication choices in a [Selection].
//
// Both external tools are invoked through a [proc.Runner], so tests can
// substitute a fake and assert exactly which commands would have been run.
package nuget
