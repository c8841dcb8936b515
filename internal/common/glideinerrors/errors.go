// Package glideinerrors contains the errors returned by the glidein client.
// The control loop and the command entrypoint look for the error types defined in this file
// to decide whether a failure ends the run or only the current cycle.
//
// If several configuration problems are found at once, the validating function should return
// an error of type multierror.Error from package github.com/hashicorp/go-multierror that
// encapsulates the individual errors.
package glideinerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrTransientPoll is returned when the scheduler counters or the coordinator state
// could not be read. Only the current cycle is abandoned.
type ErrTransientPoll struct {
	// What was being polled, e.g., "running count"
	Source string
	Err    error
}

func (err *ErrTransientPoll) Error() string {
	return fmt.Sprintf("failed to poll %s: %s", err.Source, err.Err)
}

func (err *ErrTransientPoll) Unwrap() error {
	return err.Err
}

// ErrUnsupportedBackend is returned at startup when the configured scheduler is not one
// of the known backends.
type ErrUnsupportedBackend struct {
	Scheduler string
}

func (err *ErrUnsupportedBackend) Error() string {
	return fmt.Sprintf("scheduler %q not supported", err.Scheduler)
}

// ErrMissingConfig is returned at startup when a mandatory configuration key is absent.
type ErrMissingConfig struct {
	Key     string // Fully qualified key, e.g., "cluster.running_cmd"
	Message string // An optional message to include in the error message
}

func (err *ErrMissingConfig) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("missing required configuration %q", err.Key)
	}
	return fmt.Sprintf("missing required configuration %q; %s", err.Key, err.Message)
}

// ErrInvalidArgument is a generic error to be returned on an invalid configuration value.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the field referred to, e.g., "prioritize_jobs"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message to include with the error message, e.g., explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %q is invalid for field %q", fmt.Sprint(err.Value), err.Name)
	} else {
		return fmt.Sprintf("value %q is invalid for field %q; %s", fmt.Sprint(err.Value), err.Name, err.Message)
	}
}

// ErrSubmission is returned when the scheduler rejected a glidein submission.
// It ends the run without cleanup.
type ErrSubmission struct {
	Scheduler string
	Count     int
	Err       error
}

func (err *ErrSubmission) Error() string {
	return fmt.Sprintf("failed to launch %d glidein(s) on %s: %s", err.Count, err.Scheduler, err.Err)
}

func (err *ErrSubmission) Unwrap() error {
	return err.Err
}

// IsRecoverable reports whether the client may carry on with the next cycle after err.
// Uses errors.As to look through the chain of errors, as opposed to just considering the topmost error in the chain.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	var e *ErrTransientPoll
	return errors.As(err, &e)
}

// ExitCode maps error types to process exit codes.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	{
		var e *ErrSubmission
		if errors.As(err, &e) {
			return 3
		}
	}
	{
		var e *ErrUnsupportedBackend
		if errors.As(err, &e) {
			return 2
		}
	}
	{
		var e *ErrMissingConfig
		if errors.As(err, &e) {
			return 2
		}
	}
	{
		var e *ErrInvalidArgument
		if errors.As(err, &e) {
			return 2
		}
	}
	return 1
}
