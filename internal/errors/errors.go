// Package errors provides sentinel errors and custom error types for the jf application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrAmbiguousRef indicates that a ref name abbreviation matches more than one ref
	ErrAmbiguousRef = errors.New("ambiguous ref name")

	// ErrUnsupportedVersion indicates a branch declares a jflow version the engine does not implement
	ErrUnsupportedVersion = errors.New("unsupported jflow version")

	// ErrDirtyWorkdir indicates that a mutating operation requires a clean working tree
	ErrDirtyWorkdir = errors.New("workdir is not clean")

	// ErrNotFound indicates that a named branch or ref does not exist
	ErrNotFound = errors.New("not found")

	// ErrMissingRelationship indicates that a required derived ref cannot be resolved
	ErrMissingRelationship = errors.New("missing relationship")

	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrProtectedBranch indicates an invalid operation on a protected branch
	ErrProtectedBranch = errors.New("branch is protected")
)

// AmbiguousRefError reports an abbreviation that resolves to several refs.
type AmbiguousRefError struct {
	Name    string
	Matches []string
}

func (e *AmbiguousRefError) Error() string {
	return fmt.Sprintf("ambiguous ref name %q matches [%s]", e.Name, strings.Join(e.Matches, ", "))
}

// Is returns true if the target error is ErrAmbiguousRef
func (e *AmbiguousRefError) Is(target error) bool {
	return target == ErrAmbiguousRef
}

// NewAmbiguousRefError creates a new AmbiguousRefError
func NewAmbiguousRefError(name string, matches []string) *AmbiguousRefError {
	return &AmbiguousRefError{Name: name, Matches: matches}
}

// UnsupportedVersionError reports a branch configured with a jflow version
// this build does not implement. It is fatal and never recovered from.
type UnsupportedVersionError struct {
	BranchName string
	Version    int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("branch %s: unsupported jflow version %d", e.BranchName, e.Version)
}

// Is returns true if the target error is ErrUnsupportedVersion
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// NewUnsupportedVersionError creates a new UnsupportedVersionError
func NewUnsupportedVersionError(branchName string, version int) *UnsupportedVersionError {
	return &UnsupportedVersionError{BranchName: branchName, Version: version}
}

// NotFoundError reports a branch or ref that does not exist in the repository.
type NotFoundError struct {
	What string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.What, e.Name)
}

// Is returns true if the target error is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(what, name string) *NotFoundError {
	return &NotFoundError{What: what, Name: name}
}

// MissingRelationshipError reports an unresolvable derived ref (fork, upstream, ...).
type MissingRelationshipError struct {
	BranchName string
	Relation   string
}

func (e *MissingRelationshipError) Error() string {
	return fmt.Sprintf("branch %s has no resolvable %s", e.BranchName, e.Relation)
}

// Is returns true if the target error is ErrMissingRelationship
func (e *MissingRelationshipError) Is(target error) bool {
	return target == ErrMissingRelationship
}

// NewMissingRelationshipError creates a new MissingRelationshipError
func NewMissingRelationshipError(branchName, relation string) *MissingRelationshipError {
	return &MissingRelationshipError{BranchName: branchName, Relation: relation}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
