// Copyright 2018 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package sharedtest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/portalqa/portal-bdd/shared"
	"go.uber.org/mock/gomock"
)

// NewTestContext creates a new context.Context for small tests.
func NewTestContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, shared.DefaultLoggerCtxKey(), shared.NewNilLogger())
	return ctx
}

// FakeClock is a manually driven shared.Clock. After advances the clock by
// the requested duration and fires immediately, so poll loops run without
// real sleeps.
type FakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

// NewFakeClock returns a FakeClock set to start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// After advances the clock by d and returns an already fired channel.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.waits = append(c.waits, d)
	now := c.now
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

// Waits returns every duration passed to After, in order.
func (c *FakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

type labelPrefix struct {
	prefix string
}

func (l labelPrefix) Matches(x interface{}) bool {
	switch v := x.(type) {
	case string:
		return strings.HasPrefix(v, l.prefix)
	case shared.EvidenceEntry:
		return strings.HasPrefix(v.Label, l.prefix)
	}
	return false
}

func (l labelPrefix) String() string {
	return "has label prefix " + l.prefix
}

// LabelPrefix returns a gomock matcher for a screenshot label or evidence
// entry whose label starts with prefix.
func LabelPrefix(prefix string) gomock.Matcher {
	return labelPrefix{prefix: prefix}
}

type evidenceLevel struct {
	level shared.EvidenceLevel
}

func (l evidenceLevel) Matches(x interface{}) bool {
	e, ok := x.(shared.EvidenceEntry)
	return ok && e.Level == l.level
}

func (l evidenceLevel) String() string {
	return "evidence entry at level " + string(l.level)
}

// EvidenceAtLevel returns a gomock matcher for an evidence entry of the
// given level.
func EvidenceAtLevel(level shared.EvidenceLevel) gomock.Matcher {
	return evidenceLevel{level: level}
}
