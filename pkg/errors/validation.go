package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks,
// since package ids end up as installer arguments and directory names.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// nugetPackageIDRegex matches valid NuGet package ids.
var nugetPackageIDRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidateNuGetPackageID validates a NuGet package id.
func ValidateNuGetPackageID(id string) error {
	if err := ValidatePackageName(id); err != nil {
		return err
	}

	if !nugetPackageIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPackage, "invalid NuGet package id: %q", id)
	}

	return nil
}

// exactVersionRegex matches a single NuGet version: up to four numeric parts
// with optional prerelease and build metadata labels.
var exactVersionRegex = regexp.MustCompile(`^\d+(\.\d+){0,3}(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// ValidateExactVersion reports an error unless version names exactly one
// release. Ranges ("[1.0,2.0)") and floating versions ("1.*") are rejected.
func ValidateExactVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidVersion, "version cannot be empty")
	}

	if strings.ContainsAny(version, "[]()*, ") {
		return New(ErrCodeInvalidVersion, "version %q is a range, not an exact version", version)
	}

	if !exactVersionRegex.MatchString(version) {
		return New(ErrCodeInvalidVersion, "invalid version: %q", version)
	}

	return nil
}
