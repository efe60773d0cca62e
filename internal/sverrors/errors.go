// Package sverrors defines the typed error kinds shared across the engine
// and the CLI, so that callers can errors.Is/errors.As instead of matching
// on message text.
package sverrors

import (
	"errors"
	"fmt"
)

var (
	// ErrRepoNotFound means no git repository contains the working directory.
	ErrRepoNotFound = errors.New("no git repository found")
	// ErrBadEncoding means a blob required as text was not valid UTF-8.
	ErrBadEncoding = errors.New("blob is not valid UTF-8")
	// ErrUsageError means the CLI arguments themselves were invalid.
	ErrUsageError = errors.New("usage error")
	// ErrUnsupportedPlatform means a command was invoked on a platform that
	// does not implement it (inspect, Linux only).
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// PathNotFoundError reports a path absent from the repository index.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}

// NewPathNotFound constructs a PathNotFoundError.
func NewPathNotFound(path string) error {
	return &PathNotFoundError{Path: path}
}

// BadSymlinkError reports a symlink whose resolved target escapes the
// repository root.
type BadSymlinkError struct {
	Path string
}

func (e *BadSymlinkError) Error() string {
	return fmt.Sprintf("symlink escapes repository root: %s", e.Path)
}

// NewBadSymlink constructs a BadSymlinkError.
func NewBadSymlink(path string) error {
	return &BadSymlinkError{Path: path}
}

// ParseError reports malformed sver.toml content.
type ParseError struct {
	Path   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Detail)
}

// NewParseError constructs a ParseError.
func NewParseError(path, detail string) error {
	return &ParseError{Path: path, Detail: detail}
}

// GitError reports a failure from the underlying git binary.
type GitError struct {
	Msg string
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git error: %s", e.Msg)
}

// NewGitError constructs a GitError.
func NewGitError(msg string) error {
	return &GitError{Msg: msg}
}

// ExitCode maps an error produced by the engine to a process exit code:
// usage errors exit 2, everything else exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrUsageError) {
		return 2
	}
	return 1
}
