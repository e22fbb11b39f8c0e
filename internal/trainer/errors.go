package trainer

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyTestSet is reported when there is nothing to evaluate.
var ErrEmptyTestSet = errors.New("empty test set")

// ConfigError rejects a run before any training work starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("trainer: invalid %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// EvaluationError reports that the classification figure is undefined.
type EvaluationError struct {
	Err error
}

func (e *EvaluationError) Error() string { return "trainer: evaluation: " + e.Err.Error() }

func (e *EvaluationError) Unwrap() error { return e.Err }

// CallbackError records a failing progress reporter. It is logged, never
// returned from Run.
type CallbackError struct {
	Epoch int
	Err   error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("trainer: progress callback at epoch %d: %v", e.Epoch, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
