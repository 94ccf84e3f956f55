// Package security guards the file paths the CLI writes reports to.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when an output path resolves outside every
// allowed directory.
var ErrPathEscapes = errors.New("path escapes allowed directories")

// ValidateOutputPath checks that path ends in ext and resolves, after
// following symlinks, inside one of dirs. With no dirs the working
// directory and the system temp directory are allowed.
func ValidateOutputPath(path, ext string, dirs ...string) error {
	if got := filepath.Ext(path); !strings.EqualFold(got, ext) {
		return fmt.Errorf("output %s must have %s extension, got %q", path, ext, got)
	}
	if len(dirs) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dirs = []string{cwd, os.TempDir()}
	}

	target, err := resolve(path)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		base, err := resolve(dir)
		if err != nil {
			continue
		}
		if within(target, base) {
			return nil
		}
	}
	return fmt.Errorf("%s: %w %v", path, ErrPathEscapes, dirs)
}

// resolve returns the absolute, symlink-free form of path. A path that does
// not exist yet is resolved through its nearest existing ancestor, so a
// symlinked parent cannot redirect a new file.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	var rest []string
	cur := abs
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// SanitizeFilename makes a safe filename from an arbitrary string. Runs of
// characters other than ASCII letters, digits, dot, underscore and dash
// become a single underscore, and the result is capped at 128 bytes.
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}

// ReportFilename names a report file for one analysis, e.g.
// regions-3f2a....html.
func ReportFilename(kind, analysisID, ext string) string {
	return SanitizeFilename(kind+"-"+analysisID) + ext
}
