// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package steps binds the portal's Gherkin steps to page objects. Every
// scenario gets its own browser session, evidence sink and readiness
// checker; nothing is shared between scenarios except the Suite's
// read-only configuration.
package steps

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/portalqa/portal-bdd/evidence"
	"github.com/portalqa/portal-bdd/pages"
	"github.com/portalqa/portal-bdd/readiness"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/portalqa/portal-bdd/webdriver"
	"github.com/sirupsen/logrus"
)

// Suite holds what every scenario is built from.
type Suite struct {
	Config *shared.Config
	// NewSession opens a browser session for one scenario.
	NewSession func() (*webdriver.Session, error)
	// Log is the run logger; scenario loggers derive from it.
	Log *logrus.Entry
	// EvidenceDir is the run's evidence root. Each scenario writes into
	// its own subdirectory.
	EvidenceDir string
	Clock       shared.Clock
	Observer    shared.TransitionObserver
	// Seed seeds each scenario's random source; zero uses the clock.
	Seed int64
	// MailWindowWait bounds how long a mailto click may take to open a
	// window.
	MailWindowWait time.Duration

	seedMu sync.Mutex
}

const defaultMailWindowWait = 1200 * time.Millisecond

// ErrNoSession is returned by steps of a scenario that has no browser
// session, such as one tagged @compatibility.
var ErrNoSession = errors.New("scenario has no browser session")

type scenarioKey struct{}

// scenario is the state of one running scenario.
type scenario struct {
	name    string
	cfg     *shared.Config
	log     *logrus.Entry
	session *webdriver.Session
	sink    *evidence.Sink
	checker *readiness.Checker
	funnel  evidence.Funnel
	rand    *rand.Rand

	login   *pages.LoginPage
	profile *pages.ProfilePanel
	report  *pages.ReportIssuePage

	// pending is the transition a When step started and a Then step
	// completes.
	pending *readiness.Operation

	mailWindowWait time.Duration
	closed         bool
}

func (s *Suite) clock() shared.Clock {
	if s.Clock == nil {
		return shared.SystemClock()
	}
	return s.Clock
}

func (s *Suite) logger() *logrus.Entry {
	if s.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return logrus.NewEntry(l)
	}
	return s.Log
}

func (s *Suite) nextRand() *rand.Rand {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	if s.Seed == 0 {
		return rand.New(rand.NewSource(s.clock().Now().UnixNano()))
	}
	seed := s.Seed
	s.Seed++
	return rand.New(rand.NewSource(seed))
}

func (s *Suite) newScenario(name string, session *webdriver.Session) *scenario {
	log := s.logger().WithField("scenario", name)
	var shooter evidence.Screenshotter
	if session != nil && s.Config.Evidence.Screenshots {
		shooter = session
	}
	sink := evidence.NewSink(shooter, filepath.Join(s.EvidenceDir, evidence.SanitizeLabel(name)), log)
	checker := readiness.NewChecker(s.clock(), sink, s.Observer)
	checker.Interval = s.Config.Waits.PollInterval
	wait := s.MailWindowWait
	if wait <= 0 {
		wait = defaultMailWindowWait
	}
	st := &scenario{
		name:           name,
		cfg:            s.Config,
		log:            log,
		session:        session,
		sink:           sink,
		checker:        checker,
		funnel:         evidence.Funnel{Sink: sink},
		rand:           s.nextRand(),
		mailWindowWait: wait,
	}
	if session != nil {
		st.login = pages.NewLoginPage(session, s.Config.HomeLogoAlt)
		st.profile = pages.NewProfilePanel(session)
		st.report = pages.NewReportIssuePage(session)
	}
	return st
}

func scenarioFrom(ctx context.Context) (*scenario, error) {
	st, ok := ctx.Value(scenarioKey{}).(*scenario)
	if !ok || st == nil {
		return nil, &shared.PreconditionError{What: "step ran outside a scenario"}
	}
	if st.session == nil {
		return nil, ErrNoSession
	}
	return st, nil
}

// run is the step boundary: it resolves the scenario and passes fn through
// the validation funnel.
func run(ctx context.Context, description string, fn func(ctx context.Context, st *scenario) error) error {
	st, err := scenarioFrom(ctx)
	if err != nil {
		return err
	}
	return st.funnel.Guard(ctx, description, func(ctx context.Context) error {
		return fn(ctx, st)
	})
}

func (st *scenario) thresholds(category string) (shared.Thresholds, error) {
	return st.cfg.ThresholdsFor(category)
}

// await waits for cond without timing classification.
func (st *scenario) await(ctx context.Context, label string, cond readiness.Condition, timeout time.Duration) error {
	start := st.checker.Clock.Now()
	r := st.checker.AwaitCondition(ctx, cond, timeout)
	if r.Ready {
		return nil
	}
	return &shared.ConditionTimeoutError{
		Label:     label,
		Condition: cond.Description,
		Timeout:   timeout,
		Elapsed:   st.checker.Clock.Now().Sub(start),
		LastErr:   r.LastErr,
	}
}

// snapshot captures an informational screenshot, skipped when the page is
// unchanged. Failures only warn.
func (st *scenario) snapshot(ctx context.Context, label string) {
	if err := st.sink.Snapshot(ctx, label); err != nil {
		shared.GetLogger(ctx).Warningf("Failed to capture screenshot %s: %s", label, err.Error())
	}
}

// resolve expands "$key" references to configuration values so feature
// files do not carry credentials.
func (st *scenario) resolve(value string) (string, error) {
	if len(value) < 2 || value[0] != '$' {
		return value, nil
	}
	key := value[1:]
	if err := st.cfg.Require(key); err != nil {
		return "", err
	}
	v, _ := st.cfg.Lookup(key)
	return v, nil
}

// InitializeScenario registers hooks and steps; pass it as a godog
// ScenarioInitializer.
func (s *Suite) InitializeScenario(sc *godog.ScenarioContext) {
	sc.Before(s.before)
	sc.After(s.after)

	registerLoginSteps(sc)
	registerProfileSteps(sc)
	registerReportIssueSteps(sc)
}
