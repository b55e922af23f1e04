// Package failure defines the error taxonomy surfaced by a count run.
//
// Three kinds of terminal failure exist: a ConfigError raised before any work
// starts, an IOError raised by a worker that could not read one of its input
// files, and a WorkerPanic raised when a worker faults internally. Callers
// inspect them with errors.As, or use Classify and ExitCode.
package failure

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidText is wrapped by an IOError when a file is not valid UTF-8.
var ErrInvalidText = errors.New("file is not valid UTF-8 text")

// ConfigError reports configuration that could not be loaded: the exclusion
// list, the config file, or a segmentation dictionary.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config error: %v", e.Err)
	}
	return fmt.Sprintf("config error: %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IOError reports an input file that could not be read as text.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WorkerPanic reports a panic recovered inside a worker. It indicates a
// programming defect, not an environmental problem.
type WorkerPanic struct {
	Worker int
	Value  any
	Stack  []byte
}

func (e *WorkerPanic) Error() string {
	return fmt.Sprintf("worker %d panicked: %v", e.Worker, e.Value)
}

// Code is the coarse classification of a run failure.
type Code string

const (
	CodeUnknown Code = "unknown"
	CodeConfig  Code = "config"
	CodeIO      Code = "io"
	CodePanic   Code = "panic"
	CodeCancel  Code = "cancel"
)

// Classify maps err to its Code. Panics win over everything else.
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	var wp *WorkerPanic
	if errors.As(err, &wp) {
		return CodePanic
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return CodeConfig
	}
	var ie *IOError
	if errors.As(err, &ie) {
		return CodeIO
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	return CodeUnknown
}

// ExitCode returns the process exit status for err. nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch Classify(err) {
	case CodeIO:
		return 1
	case CodeConfig:
		return 2
	case CodePanic:
		return 3
	case CodeCancel:
		return 130
	default:
		return 1
	}
}

// Severity orders failures so the orchestrator can pick which one to report
// when several workers fail. Higher is more severe.
func Severity(err error) int {
	switch Classify(err) {
	case CodePanic:
		return 3
	case CodeIO, CodeConfig:
		return 2
	case CodeCancel:
		return 1
	default:
		if err == nil {
			return 0
		}
		return 2
	}
}
