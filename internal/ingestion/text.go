// Package ingestion reads and writes the newline-delimited UTF-8 text files
// the pipeline produces, and turns fetched web pages into documents.
package ingestion

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// ErrFileNotFound is returned when an input file does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidEncoding is returned when an input file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
)

var multiSpace = regexp.MustCompile(`[ \t\f\v]+`)

// CleanText normalizes line endings and collapses runs of spaces inside each line.
// Line structure, including blank lines, is preserved.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = multiSpace.ReplaceAllString(strings.TrimSpace(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ReadText reads a whole UTF-8 text file.
func ReadText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, path)
	}
	return string(content), nil
}

// LoadLines reads a text file and returns its lines without line terminators.
// A trailing newline does not produce an extra empty line.
func LoadLines(path string) ([]string, error) {
	content, err := ReadText(path)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, nil
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n"), nil
}

// AppendLines appends each line followed by a newline, creating the file and
// its directory if needed.
func AppendLines(path string, lines ...string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for _, line := range lines {
		_, _ = w.WriteString(line)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return f.Close()
}

// WriteLines replaces path with lines joined by newlines. The content is
// written to a temporary file first and renamed into place, so readers never
// observe a partially written file.
func WriteLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmp)
	for i, line := range lines {
		if i > 0 {
			_ = w.WriteByte('\n')
		}
		_, _ = w.WriteString(line)
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
