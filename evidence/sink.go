// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package evidence captures screenshots and structured log entries for a
// scenario, and funnels validation failures through them.
package evidence

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	farm "github.com/dgryski/go-farm"
	"github.com/google/uuid"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/sirupsen/logrus"
)

// Screenshotter is the part of a browser session a Sink needs.
// selenium.WebDriver satisfies it.
type Screenshotter interface {
	Screenshot() ([]byte, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeLabel turns a label into a file name component.
func SanitizeLabel(label string) string {
	return unsafeChars.ReplaceAllString(label, "_")
}

// RunDir returns a per-run directory under root, unique per run id.
func RunDir(root string, started time.Time, runID uuid.UUID) string {
	return filepath.Join(root, fmt.Sprintf("%s_%s", started.Format("20060102-150405"), runID.String()[:8]))
}

// Sink writes numbered PNG screenshots into one directory and logs entries
// through logrus. Consecutive byte-identical snapshots are written once.
type Sink struct {
	shooter Screenshotter
	dir     string
	log     *logrus.Entry

	mu          sync.Mutex
	seq         int
	lastPrint   uint64
	haveLast    bool
	entries     []shared.EvidenceEntry
	screenshots []string
}

// NewSink creates a sink writing into dir. A nil shooter disables
// screenshots but keeps entries.
func NewSink(shooter Screenshotter, dir string, log *logrus.Entry) *Sink {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = logrus.NewEntry(discard)
	}
	return &Sink{shooter: shooter, dir: dir, log: log}
}

// Screenshot captures the current page as "NN_label.png". It always writes,
// so failure and threshold evidence exists even when the page is unchanged.
func (s *Sink) Screenshot(ctx context.Context, label string) error {
	return s.capture(label, false)
}

// Snapshot is Screenshot for informational captures: it skips the write
// when the page is byte-identical to the previous capture.
func (s *Sink) Snapshot(ctx context.Context, label string) error {
	return s.capture(label, true)
}

func (s *Sink) capture(label string, dedup bool) error {
	if s.shooter == nil {
		return nil
	}
	img, err := s.shooter.Screenshot()
	if err != nil {
		return fmt.Errorf("screenshot %s: %w", label, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fp := farm.Fingerprint64(img)
	if dedup && s.haveLast && fp == s.lastPrint {
		s.log.WithField("label", label).Debug("Screenshot unchanged since last capture; skipped")
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("screenshot dir %s: %w", s.dir, err)
	}
	s.seq++
	path := filepath.Join(s.dir, fmt.Sprintf("%02d_%s.png", s.seq, SanitizeLabel(label)))
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("write screenshot %s: %w", path, err)
	}
	s.lastPrint, s.haveLast = fp, true
	s.screenshots = append(s.screenshots, path)
	s.log.WithFields(logrus.Fields{"label": label, "path": path}).Info("Screenshot captured")
	return nil
}

// Record logs entry with its fields and keeps it for Entries.
func (s *Sink) Record(ctx context.Context, entry shared.EvidenceEntry) {
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	fields := logrus.Fields{"kind": entry.Kind, "label": entry.Label}
	for k, v := range entry.Fields {
		fields[k] = v
	}
	s.log.WithFields(fields).Log(logrusLevel(entry.Level), entry.Message)
}

// Entries returns a copy of everything recorded so far.
func (s *Sink) Entries() []shared.EvidenceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shared.EvidenceEntry(nil), s.entries...)
}

// Screenshots returns the paths written so far, in order.
func (s *Sink) Screenshots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.screenshots...)
}

func logrusLevel(l shared.EvidenceLevel) logrus.Level {
	switch l {
	case shared.EvidenceError:
		return logrus.ErrorLevel
	case shared.EvidenceWarn:
		return logrus.WarnLevel
	}
	return logrus.InfoLevel
}
