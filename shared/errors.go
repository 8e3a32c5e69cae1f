// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrPreconditionNotMet is matched by errors raised when a step runs
	// before the state it depends on exists.
	ErrPreconditionNotMet = errors.New("precondition not met")
	// ErrThresholdExceeded is matched by errors raised when a transition
	// completed, but at or after its fail threshold.
	ErrThresholdExceeded = errors.New("threshold exceeded")
	// ErrConditionTimeout is matched by errors raised when a readiness
	// condition was never observed within its wait budget.
	ErrConditionTimeout = errors.New("condition timeout")
	// ErrValueMismatch is matched by errors raised when observed UI state
	// differs from the expectation.
	ErrValueMismatch = errors.New("value mismatch")
	// ErrConfigurationMissing is matched by errors raised when a required
	// configuration value is absent or invalid.
	ErrConfigurationMissing = errors.New("configuration missing")
)

// PreconditionError reports a step invoked out of order.
type PreconditionError struct {
	What string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition not met: %s", e.What)
}

// Is matches ErrPreconditionNotMet.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionNotMet
}

// ThresholdExceededError reports a transition that took at least its fail
// threshold.
type ThresholdExceededError struct {
	Label   string
	Elapsed time.Duration
	Fail    time.Duration
}

func (e *ThresholdExceededError) Error() string {
	return fmt.Sprintf("%s took %s, more than %d s (fail threshold)",
		e.Label, FormatSeconds(e.Elapsed), WholeSeconds(e.Fail))
}

// Is matches ErrThresholdExceeded.
func (e *ThresholdExceededError) Is(target error) bool {
	return target == ErrThresholdExceeded
}

// ConditionTimeoutError reports a readiness condition that never held.
type ConditionTimeoutError struct {
	Label     string
	Condition string
	Timeout   time.Duration
	Elapsed   time.Duration
	// LastErr is the last error returned by the probe, if any.
	LastErr error
}

func (e *ConditionTimeoutError) Error() string {
	msg := fmt.Sprintf("%s: destination not ready within %d s for: %s (elapsed %s)",
		e.Label, WholeSeconds(e.Timeout), e.Condition, FormatSeconds(e.Elapsed))
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

// Is matches ErrConditionTimeout.
func (e *ConditionTimeoutError) Is(target error) bool {
	return target == ErrConditionTimeout
}

func (e *ConditionTimeoutError) Unwrap() error {
	return e.LastErr
}

// ValueMismatchError reports observed UI state that differs from the
// expectation. Collection comparisons fill Missing and Unexpected; single
// value comparisons fill Expected and Observed.
type ValueMismatchError struct {
	What       string
	Expected   string
	Observed   string
	Missing    []string
	Unexpected []string
}

func (e *ValueMismatchError) Error() string {
	if len(e.Missing) > 0 || len(e.Unexpected) > 0 {
		return fmt.Sprintf("%s mismatch: missing [%s], unexpected [%s]",
			e.What, strings.Join(e.Missing, ", "), strings.Join(e.Unexpected, ", "))
	}
	return fmt.Sprintf("%s mismatch: expected %q, got %q", e.What, e.Expected, e.Observed)
}

// Is matches ErrValueMismatch.
func (e *ValueMismatchError) Is(target error) bool {
	return target == ErrValueMismatch
}

// ConfigurationMissingError reports a required configuration key that is
// absent, or present with an unusable value.
type ConfigurationMissingError struct {
	Key    string
	Reason string
}

func (e *ConfigurationMissingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration %q is invalid: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("configuration %q is required", e.Key)
}

// Is matches ErrConfigurationMissing.
func (e *ConfigurationMissingError) Is(target error) bool {
	return target == ErrConfigurationMissing
}

// FormatSeconds renders d as seconds with two decimals, e.g. "25.00 s".
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f s", d.Seconds())
}

// WholeSeconds truncates d to whole seconds.
func WholeSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// MultiError is a convenient wrapper of multiple errors and is itself an
// implementation of the error interface.
type MultiError struct {
	errors []error
	when   string
}

// NewMultiError creates a MultiError from a slice of errors. The "when"
// parameter will be included in the error string in a "when" clause.
// If the slice is empty, nil will be returned.
func NewMultiError(errors []error, when string) error {
	if len(errors) == 0 {
		return nil
	}
	return &MultiError{errors, when}
}

func (e *MultiError) Error() string {
	if e.Count() == 0 {
		return ""
	}
	errStrs := make([]string, len(e.errors))
	for i, err := range e.errors {
		errStrs[i] = err.Error()
	}
	return fmt.Sprintf("%d error(s) occurred when %s:\n%s",
		len(e.errors), e.when, strings.Join(errStrs, "\n"))
}

// Count returns the number of errors in this MultiError.
func (e *MultiError) Count() int {
	return len(e.errors)
}

// Errors returns the inner error slice of a MultiError.
func (e *MultiError) Errors() []error {
	return e.errors
}

// Unwrap lets errors.Is and errors.As look through every inner error.
func (e *MultiError) Unwrap() []error {
	return e.errors
}
