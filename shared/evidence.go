// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:generate mockgen -destination sharedtest/evidence_mock.go -package sharedtest github.com/portalqa/portal-bdd/shared EvidenceSink,TransitionObserver

package shared

import (
	"context"
	"time"
)

// EvidenceLevel is the severity of an evidence entry.
type EvidenceLevel string

// Evidence levels.
const (
	EvidenceInfo  EvidenceLevel = "info"
	EvidenceWarn  EvidenceLevel = "warn"
	EvidenceError EvidenceLevel = "error"
)

// EvidenceEntry is one structured record attached to a scenario run.
type EvidenceEntry struct {
	Kind    string
	Label   string
	Level   EvidenceLevel
	Message string
	Fields  map[string]interface{}
}

// EvidenceSink records screenshots and structured entries for a scenario.
// Implementations must never change a verdict: failures to record are the
// sink's own concern.
type EvidenceSink interface {
	Screenshot(ctx context.Context, label string) error
	Record(ctx context.Context, entry EvidenceEntry)
}

// TransitionObserver receives the classification of every timed transition.
type TransitionObserver interface {
	ObserveTransition(label, outcome string, elapsed time.Duration)
}
