// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pathcheck turns command arguments into filesystem paths and
// validates them before a conversion touches any file: the JSON source
// must exist as a regular file and the CSV destination's directory must
// be writable.
package pathcheck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrSourceMissing   = errors.New("source does not exist")
	ErrSourceIsDir     = errors.New("source is a directory")
	ErrDestNotWritable = errors.New("destination directory not writable")
)

// Error pairs a sentinel with the diagnostic printed to the user.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes both the sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Role names which argument a path came from.
type Role string

const (
	RoleJSON Role = "JSON"
	RoleCSV  Role = "CSV"
)

// Parse converts a raw argument into a cleaned path. Empty strings and
// strings containing NUL bytes cannot name a file.
func Parse(role Role, arg string) (string, error) {
	if arg == "" || strings.ContainsRune(arg, 0) {
		return "", &Error{
			Kind:    ErrInvalidPath,
			Message: fmt.Sprintf("Couldn't convert %s file argument [%s] into a path!", role, arg),
		}
	}
	return filepath.Clean(arg), nil
}

// CheckSource verifies that path names an existing regular file (or a
// symlink to one).
func CheckSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &Error{
			Kind:    ErrSourceMissing,
			Message: fmt.Sprintf("JSON file [%s] doesn't exist!", path),
			Err:     err,
		}
	}
	if info.IsDir() {
		return &Error{
			Kind:    ErrSourceIsDir,
			Message: fmt.Sprintf("JSON file [%s] is a directory!", path),
		}
	}
	return nil
}

// CheckDestination verifies that the directory holding path exists and is
// writable. It returns that directory.
func CheckDestination(path string) (string, error) {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", dir)
	}
	if err == nil {
		err = writable(dir)
	}
	if err != nil {
		return dir, &Error{
			Kind:    ErrDestNotWritable,
			Message: fmt.Sprintf("Can't write to the directory [%s] to create the CSV file! Does directory exist?", dir),
			Err:     err,
		}
	}
	return dir, nil
}

// Paths holds validated source and destination paths.
type Paths struct {
	JSON   string
	CSV    string
	CSVDir string
}

// Validate runs every check in order: parse both arguments, then check
// the source, then the destination. The first failure is returned.
func Validate(jsonArg, csvArg string) (Paths, error) {
	jsonPath, err := Parse(RoleJSON, jsonArg)
	if err != nil {
		return Paths{}, err
	}
	csvPath, err := Parse(RoleCSV, csvArg)
	if err != nil {
		return Paths{}, err
	}
	if err := CheckSource(jsonPath); err != nil {
		return Paths{}, err
	}
	dir, err := CheckDestination(csvPath)
	if err != nil {
		return Paths{}, err
	}
	return Paths{JSON: jsonPath, CSV: csvPath, CSVDir: dir}, nil
}
