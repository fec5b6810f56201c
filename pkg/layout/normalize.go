// Package layout flattens the directory tree the NuGet installer leaves
// behind.
//
// "nuget install -o <dir>" writes every package into its own subdirectory,
// dir/<id>.<version>/, holding the .nupkg archive next to extracted content,
// tools and metadata. [Normalize] keeps only the archives: each
// dir/<name>/<name>.nupkg is moved up to dir/<name>.nupkg and the
// subdirectory is removed.
//
// A subdirectory whose archive cannot be found is never deleted. It is
// reported as a failure and left exactly as it was.
package layout

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/nugetbackup/pkg/errors"
)

// DefaultExtension is the archive extension NuGet uses.
const DefaultExtension = ".nupkg"

// Failure records one subdirectory that could not be flattened.
type Failure struct {
	Dir string // Subdirectory name, relative to the normalized directory
	Err error
}

// Result lists what Normalize did.
type Result struct {
	Moved    []string  // Archive file names now at the root
	Failures []Failure // Subdirectories left in place or only partly cleaned
}

// Normalize flattens every immediate subdirectory of dir. ext is the archive
// extension with or without the leading dot; empty means [DefaultExtension].
//
// Only failing to read dir itself is returned as an error. Problems with a
// single subdirectory are collected in Result.Failures and the pass carries
// on with its siblings. Running Normalize on an already flat directory does
// nothing.
func Normalize(ctx context.Context, dir, ext string) (*Result, error) {
	ext = normalizeExt(ext)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutNormalization, err, "read %s", dir)
	}

	res := &Result{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		name := e.Name()
		archive, err := flatten(dir, name, ext)
		if archive != "" {
			res.Moved = append(res.Moved, archive)
		}
		if err != nil {
			res.Failures = append(res.Failures, Failure{Dir: name, Err: err})
		}
	}
	return res, nil
}

// flatten moves dir/name/name+ext to dir/name+ext and removes dir/name.
func flatten(dir, name, ext string) (string, error) {
	sub := filepath.Join(dir, name)
	archive := name + ext
	src := filepath.Join(sub, archive)
	dst := filepath.Join(dir, archive)

	info, err := os.Lstat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeLayoutNormalization, "%s: archive %s not found", name, archive)
		}
		return "", errors.Wrap(errors.ErrCodeLayoutNormalization, err, "%s: stat archive", name)
	}
	if !info.Mode().IsRegular() {
		return "", errors.New(errors.ErrCodeLayoutNormalization, "%s: %s is not a regular file", name, archive)
	}

	if existing, err := os.Lstat(dst); err == nil {
		if existing.IsDir() {
			return "", errors.New(errors.ErrCodeLayoutNormalization, "%s: destination %s is a directory", name, archive)
		}
		// os.Rename does not replace an existing file on every platform.
		if err := os.Remove(dst); err != nil {
			return "", errors.Wrap(errors.ErrCodeLayoutNormalization, err, "%s: replace %s", name, archive)
		}
	}

	if err := os.Rename(src, dst); err != nil {
		return "", errors.Wrap(errors.ErrCodeLayoutNormalization, err, "%s: move %s", name, archive)
	}
	if err := os.RemoveAll(sub); err != nil {
		return archive, errors.Wrap(errors.ErrCodeLayoutNormalization, err, "%s: remove directory", name)
	}
	return archive, nil
}

func normalizeExt(ext string) string {
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
