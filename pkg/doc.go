// Package pkg holds the libraries behind nugetbackup.
//
// A backup is a short pipeline that shells out to the .NET toolchain:
//
//	dotnet list <project> package --format json
//	         ↓
//	    [nuget] ParseManifest + Targets
//	         ↓
//	nuget install <id> -Version <v> -o <dir>   (once per target)
//	         ↓
//	    [layout] Normalize (optional)
//	         ↓
//	    [mirror] Upload (optional)
//
// # Packages
//
//   - [backup]: runs the pipeline and records a [backup.Report]
//   - [nuget]: dependency report model, target selection, lister and installer wrappers
//   - [layout]: flattens the installer layout to bare archive files
//   - [proc]: runs child processes and captures their output
//   - [mirror]: uploads a backup directory to S3-compatible storage
//   - [errors]: coded errors shared by all packages
//   - [observability]: optional hooks for metrics and tracing
//   - [buildinfo]: version information set at link time
package pkg
