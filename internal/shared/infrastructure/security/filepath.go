// Package security validates user-supplied file paths before they are read.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrEmptyPath          = errors.New("file path cannot be empty")
	ErrForbiddenCharacter = errors.New("file path contains a forbidden character")
	ErrUnsupportedType    = errors.New("file type is not supported")
)

// Shell metacharacters are never legitimate in a catalog path.
const forbiddenChars = ";&|$`(){}<>!\n\r"

// ValidateFilePath cleans path, makes it absolute and resolves symlinks. A
// path that does not exist yet is returned cleaned but unresolved.
func ValidateFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	if i := strings.IndexAny(path, forbiddenChars); i >= 0 {
		return "", fmt.Errorf("%w %q: %s", ErrForbiddenCharacter, path[i], path)
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return abs, nil
		}
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// ValidateExtension checks that path ends in one of the allowed extensions
// (compared case-insensitively, with the leading dot) and returns the
// lower-cased extension.
func ValidateExtension(path string, allowed ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(allowed, ext) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedType, ext, strings.Join(allowed, ", "))
	}
	return ext, nil
}

// SafeReadFile reads a file after validating its path.
func SafeReadFile(path string) ([]byte, error) {
	clean, err := ValidateFilePath(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is validated above
	return os.ReadFile(clean)
}
