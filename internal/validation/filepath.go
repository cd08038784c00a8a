package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilePathValidator checks file paths given on the command line: the config
// file to read or write and the log file.
type FilePathValidator struct {
	// AllowHomeExpansion permits a leading "~/".
	AllowHomeExpansion bool
	MaxPathLength      int
}

func NewFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowHomeExpansion: true,
		MaxPathLength:      4096,
	}
}

// ValidateAndSanitize returns path as a clean absolute path. Paths with
// control characters or ".." components are rejected.
func (v *FilePathValidator) ValidateAndSanitize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}

	for _, r := range path {
		if r < 32 && r != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	switch {
	case strings.HasPrefix(path, "~/") && v.AllowHomeExpansion:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	case strings.HasPrefix(path, "~"):
		return "", fmt.Errorf("tilde expansion not allowed or invalid tilde usage")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}
	return abs, nil
}
