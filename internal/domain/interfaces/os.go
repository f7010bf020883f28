package interfaces

import (
	"context"
	"os"
	"time"
)

// CommandExecutor runs host commands
type CommandExecutor interface {
	// Execute runs the command and returns its stdout
	Execute(ctx context.Context, command string, args ...string) ([]byte, error)

	// ExecuteWithTimeout runs the command with a deadline
	ExecuteWithTimeout(ctx context.Context, timeout time.Duration, command string, args ...string) ([]byte, error)
}

// FileSystem abstracts file access
type FileSystem interface {
	// ReadFile reads a file
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating parent directories
	WriteFile(path string, data []byte, perm os.FileMode) error

	// Exists reports whether a file or directory exists
	Exists(path string) bool

	// MkdirAll creates a directory tree
	MkdirAll(path string, perm os.FileMode) error

	// Remove deletes a file or empty directory
	Remove(path string) error

	// ListFiles lists the regular files of a directory
	ListFiles(path string) ([]string, error)
}

// Clock abstracts time
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// After returns a channel that fires once d has elapsed
	After(d time.Duration) <-chan time.Time
}

// OSDetector detects the host operating system
type OSDetector interface {
	// DetectOS returns the host OS family
	DetectOS() (OSType, error)
}

// OSType is an operating system family
type OSType string

const (
	OSTypeUbuntu OSType = "ubuntu"
	OSTypeRHEL   OSType = "rhel"
)
