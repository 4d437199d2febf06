// =============================================================================
// SmartBill - File Manager Utility
// =============================================================================
//
// This module provides file utilities for the export adapters and the CLI:
//   - Default output path generation from a file name format
//   - Document extension handling
//   - Directory management
//   - Plain-text output (receipts)
//
// NAMING STRATEGY:
//   - When the user gives no path, exports go to OutputDir with a name built
//     from FileNameFormat (default "Invoice_{millis}")
//   - A path that lacks the document extension gets it appended; the check
//     is case-insensitive so "bill.PDF" is left alone
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT MANAGER
// =============================================================================

// OutputManager resolves export paths.
type OutputManager struct {
	// OutputDir is the directory for generated file names.
	OutputDir string

	// FileNameFormat is the generated file name, without extension.
	FileNameFormat string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewOutputManager creates an OutputManager.
func NewOutputManager(outputDir, fileNameFormat string) *OutputManager {
	return &OutputManager{
		OutputDir:      outputDir,
		FileNameFormat: fileNameFormat,
		Now:            time.Now,
	}
}

// Resolve returns the export path for a document.
//
// PARAMETERS:
//   - path: The user-supplied path, or "" to generate one.
//   - ext: The document extension including the dot (".pdf").
//   - customer: The customer name, used by the {customer} placeholder.
//
// RETURNS:
//   - The path with the extension ensured.
func (om *OutputManager) Resolve(path, ext, customer string) string {
	if strings.TrimSpace(path) == "" {
		now := time.Now
		if om.Now != nil {
			now = om.Now
		}
		name := GenerateOutputFileName(om.FileNameFormat, map[string]string{
			"customer": SanitizeFileName(customer),
		}, now())
		path = ResolveOutputPath(om.OutputDir, name)
	}
	return EnsureExtension(path, ext)
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectory creates a directory (and parents) if it doesn't exist.
func EnsureDirectory(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// ResolveOutputPath joins a file name onto the output directory. Absolute
// names and names that already carry a directory are returned unchanged.
func ResolveOutputPath(outputDir, name string) string {
	if filepath.IsAbs(name) || filepath.Dir(name) != "." || outputDir == "" {
		return name
	}
	return filepath.Join(outputDir, name)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Timestamp of now (YYYYMMDD_HHMMSS)
//               {date}      - Date of now (YYYYMMDD)
//               {millis}    - Unix time of now in milliseconds
//               {customer}  - Customer name (from params)
//   - params: A map of placeholder values.
//   - now: The instant the time placeholders expand to.
//
// RETURNS:
//   - The generated file name. No extension is added.
//
// Every placeholder is expanded in a single pass over format, so a value that
// itself looks like a placeholder is copied literally. The time placeholders
// take precedence over params of the same name.
//
// EXAMPLE:
//   format: "Invoice_{millis}"
//   output: "Invoice_1709289000000"
func GenerateOutputFileName(format string, params map[string]string, now time.Time) string {
	pairs := []string{
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{millis}", strconv.FormatInt(now.UnixMilli(), 10),
	}
	if strings.Contains(format, "{uuid}") {
		pairs = append(pairs, "{uuid}", uuid.New().String())
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", params[key])
	}

	return strings.NewReplacer(pairs...).Replace(format)
}

// EnsureExtension appends ext unless path already ends with it, ignoring
// case.
func EnsureExtension(path, ext string) string {
	if strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext)) {
		return path
	}
	return path + ext
}

// SanitizeFileName replaces characters that are unsafe in file names.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "customer"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, name)
}

// =============================================================================
// TEXT OUTPUT
// =============================================================================

// WriteTextFile writes text to path, creating the parent directory.
//
// RETURNS:
//   - The path written.
//   - An error if writing fails.
func WriteTextFile(path, text string) (string, error) {
	if err := EnsureDirectory(filepath.Dir(path)); err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(text); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return path, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
