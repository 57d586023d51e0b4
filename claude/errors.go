package claude

import (
	"errors"
	"fmt"
)

// ErrStreamClosed is reported by a Stream that was closed before the CLI
// finished.
var ErrStreamClosed = errors.New("stream closed")

// CLINotFoundError indicates the Claude CLI binary was not found.
type CLINotFoundError struct {
	Cause error
	Path  string
}

func (e *CLINotFoundError) Error() string {
	return fmt.Sprintf("CLI binary not found at %q: %v", e.Path, e.Cause)
}

func (e *CLINotFoundError) Unwrap() error {
	return e.Cause
}

// ProcessError represents a process-level error. Stderr holds the tail of
// what the CLI wrote to its standard error.
type ProcessError struct {
	Cause    error
	Message  string
	Stderr   string
	ExitCode int
}

func (e *ProcessError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("process error: %s (exit code %d)", e.Message, e.ExitCode)
	}
	return fmt.Sprintf("process error: %s", e.Message)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// ProtocolError represents output from the CLI that could not be decoded.
type ProtocolError struct {
	Cause   error
	Message string
	Line    string
}

// maxLinePreview is how many characters of the offending line an error
// message shows.
const maxLinePreview = 100

func (e *ProtocolError) Error() string {
	msg := e.Message
	if e.Line != "" {
		line := e.Line
		if r := []rune(line); len(r) > maxLinePreview {
			line = string(r[:maxLinePreview]) + "..."
		}
		msg = fmt.Sprintf("%s: %s", msg, line)
	}
	if e.Cause != nil {
		return fmt.Sprintf("protocol error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("protocol error: %s", msg)
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}
