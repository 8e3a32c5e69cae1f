// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package readiness times UI transitions from the moment an action is
// triggered until the destination is observably ready, and classifies the
// elapsed time against warn and fail thresholds.
package readiness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/portalqa/portal-bdd/shared"
)

// DefaultInterval is the poll interval used when a Checker has none.
const DefaultInterval = 250 * time.Millisecond

// Outcome is the classification of one timed transition.
type Outcome string

// Outcomes.
const (
	WithinThreshold Outcome = "within-threshold"
	Warned          Outcome = "warned"
	FailedTimeout   Outcome = "failed-timeout"
	FailedCondition Outcome = "failed-condition"
)

// Predicate reports whether the destination is ready. Errors are treated as
// "not yet" and remembered.
type Predicate func(ctx context.Context) (bool, error)

// Trigger performs the UI action that starts a transition.
type Trigger func(ctx context.Context) error

// Condition is a described readiness predicate.
type Condition struct {
	Description string
	Ready       Predicate
}

// Operation is the token returned by Start and consumed by Stop or Fail.
type Operation struct {
	label   string
	start   time.Time
	stopped bool
}

// Label returns the operation's human-readable label.
func (op *Operation) Label() string {
	return op.label
}

// Readiness is the outcome of polling a condition.
type Readiness struct {
	Ready bool
	Polls int
	// LastErr is the last error returned by the predicate, or the context
	// error if polling was cancelled.
	LastErr error
}

// Result is the classification of one finished operation.
type Result struct {
	Label      string
	Elapsed    time.Duration
	Thresholds shared.Thresholds
	Outcome    Outcome
}

// Checker runs the timed readiness protocol. Sink and Observer are optional.
type Checker struct {
	Clock    shared.Clock
	Interval time.Duration
	Sink     shared.EvidenceSink
	Observer shared.TransitionObserver
}

// NewChecker returns a Checker on the given clock with DefaultInterval.
func NewChecker(clock shared.Clock, sink shared.EvidenceSink, observer shared.TransitionObserver) *Checker {
	return &Checker{
		Clock:    clock,
		Interval: DefaultInterval,
		Sink:     sink,
		Observer: observer,
	}
}

func (c *Checker) clock() shared.Clock {
	if c.Clock == nil {
		return shared.SystemClock()
	}
	return c.Clock
}

func (c *Checker) interval() time.Duration {
	if c.Interval <= 0 {
		return DefaultInterval
	}
	return c.Interval
}

// Start begins timing a transition. It must be called before the trigger
// fires.
func (c *Checker) Start(label string) *Operation {
	return &Operation{label: label, start: c.clock().Now()}
}

// AwaitCondition polls cond until it holds, timeout elapses, or ctx is done.
// It sleeps Interval between polls and always polls at least once.
func (c *Checker) AwaitCondition(ctx context.Context, cond Condition, timeout time.Duration) Readiness {
	clock := c.clock()
	deadline := clock.Now().Add(timeout)
	var r Readiness
	for {
		r.Polls++
		ok, err := cond.Ready(ctx)
		if err != nil {
			r.LastErr = err
		} else if ok {
			r.Ready = true
			return r
		}
		if !clock.Now().Before(deadline) {
			return r
		}
		select {
		case <-ctx.Done():
			r.LastErr = ctx.Err()
			return r
		case <-clock.After(c.interval()):
		}
	}
}

func (c *Checker) finish(op *Operation) (time.Duration, error) {
	if op == nil {
		return 0, &shared.PreconditionError{What: "transition stopped before it was started"}
	}
	if op.stopped {
		return 0, &shared.PreconditionError{What: fmt.Sprintf("transition %q already stopped", op.label)}
	}
	op.stopped = true
	return c.clock().Now().Sub(op.start), nil
}

// Stop finalizes op and classifies its elapsed time. Elapsed at or above
// th.Fail returns a ThresholdExceededError; at or above th.Warn only logs a
// warning and records evidence.
func (c *Checker) Stop(ctx context.Context, op *Operation, th shared.Thresholds) (Result, error) {
	elapsed, err := c.finish(op)
	if err != nil {
		return Result{}, err
	}
	res := Result{Label: op.label, Elapsed: elapsed, Thresholds: th}
	log := shared.GetLogger(ctx)

	switch {
	case elapsed >= th.Fail:
		res.Outcome = FailedTimeout
		err = &shared.ThresholdExceededError{Label: op.label, Elapsed: elapsed, Fail: th.Fail}
		log.Errorf("%s. Failing (SLA %d s)", err.Error(), shared.WholeSeconds(th.Fail))
		c.evidence(ctx, res, shared.EvidenceError, err.Error())
	case elapsed >= th.Warn:
		res.Outcome = Warned
		msg := fmt.Sprintf("%s took %s, more than %d s (warn threshold)",
			op.label, shared.FormatSeconds(elapsed), shared.WholeSeconds(th.Warn))
		log.Warningf("%s", msg)
		c.evidence(ctx, res, shared.EvidenceWarn, msg)
	default:
		res.Outcome = WithinThreshold
		log.Infof("%s completed in %s (<= %d s)", op.label, shared.FormatSeconds(elapsed), shared.WholeSeconds(th.Warn))
	}
	c.observe(res)
	return res, err
}

// Fail finalizes op as a condition that never held. It always returns a
// ConditionTimeoutError; timing classification does not apply.
func (c *Checker) Fail(ctx context.Context, op *Operation, cond Condition, timeout time.Duration, r Readiness) (Result, error) {
	elapsed, err := c.finish(op)
	if err != nil {
		return Result{}, err
	}
	res := Result{Label: op.label, Elapsed: elapsed, Outcome: FailedCondition}
	err = &shared.ConditionTimeoutError{
		Label:     op.label,
		Condition: cond.Description,
		Timeout:   timeout,
		Elapsed:   elapsed,
		LastErr:   r.LastErr,
	}
	shared.GetLogger(ctx).Errorf("%s (after %d polls)", err.Error(), r.Polls)
	c.evidence(ctx, res, shared.EvidenceError, err.Error())
	c.observe(res)
	return res, err
}

// Measure runs the whole protocol: Start, trigger, AwaitCondition, then
// Stop or Fail. A failing trigger is returned as is, without classification.
func (c *Checker) Measure(ctx context.Context, label string, th shared.Thresholds, trigger Trigger, cond Condition, timeout time.Duration) (Result, error) {
	op := c.Start(label)
	if trigger != nil {
		if err := trigger(ctx); err != nil {
			op.stopped = true
			return Result{Label: label}, fmt.Errorf("%s: %w", label, err)
		}
	}
	return c.Complete(ctx, op, th, cond, timeout)
}

// Complete waits for cond on an already started op and classifies it. It is
// the second half of Measure, for transitions whose trigger and readiness
// check happen in different steps.
func (c *Checker) Complete(ctx context.Context, op *Operation, th shared.Thresholds, cond Condition, timeout time.Duration) (Result, error) {
	if op == nil {
		return Result{}, &shared.PreconditionError{What: "transition completed before it was started"}
	}
	if op.stopped {
		return Result{}, &shared.PreconditionError{What: fmt.Sprintf("transition %q already stopped", op.label)}
	}
	r := c.AwaitCondition(ctx, cond, timeout)
	if !r.Ready {
		return c.Fail(ctx, op, cond, timeout, r)
	}
	return c.Stop(ctx, op, th)
}

func (c *Checker) evidence(ctx context.Context, res Result, level shared.EvidenceLevel, msg string) {
	if c.Sink == nil {
		return
	}
	prefix := "Warn_"
	if level == shared.EvidenceError {
		prefix = "Fail_"
	}
	if err := c.Sink.Screenshot(ctx, prefix+strings.ReplaceAll(res.Label, " ", "_")); err != nil {
		shared.GetLogger(ctx).Warningf("Failed to capture screenshot for %s: %s", res.Label, err.Error())
	}
	c.Sink.Record(ctx, shared.EvidenceEntry{
		Kind:    "transition",
		Label:   res.Label,
		Level:   level,
		Message: msg,
		Fields: map[string]interface{}{
			"outcome":   string(res.Outcome),
			"elapsed_s": res.Elapsed.Seconds(),
			"warn_s":    res.Thresholds.Warn.Seconds(),
			"fail_s":    res.Thresholds.Fail.Seconds(),
		},
	})
}

func (c *Checker) observe(res Result) {
	if c.Observer != nil {
		c.Observer.ObserveTransition(res.Label, string(res.Outcome), res.Elapsed)
	}
}
