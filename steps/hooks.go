// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	mapset "github.com/deckarep/golang-set"
	"github.com/portalqa/portal-bdd/shared"
)

// Scenario tags the hooks act on.
const (
	TagCompatibility = "@compatibility"
	TagNoAutoLogin   = "@noAutoLogin"
)

func scenarioTags(sc *godog.Scenario) mapset.Set {
	tags := mapset.NewThreadUnsafeSet()
	for _, tag := range sc.Tags {
		tags.Add(tag.Name)
	}
	return tags
}

// needsAutoLogin reports whether the Before hook logs in for the scenario.
// Scenarios exercising the login flow itself log in through their own
// steps.
func needsAutoLogin(name string, tags mapset.Set) bool {
	if tags.Contains(TagNoAutoLogin) || tags.Contains(TagCompatibility) {
		return false
	}
	return !strings.Contains(strings.ToLower(name), "login")
}

func (s *Suite) before(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	tags := scenarioTags(sc)
	if tags.Contains(TagCompatibility) {
		st := s.newScenario(sc.Name, nil)
		st.log.Info("Compatibility scenario; skipping browser setup and auto-login")
		ctx = shared.WithLogger(ctx, st.log)
		return context.WithValue(ctx, scenarioKey{}, st), nil
	}

	if s.NewSession == nil {
		return ctx, &shared.PreconditionError{What: "no browser session factory configured"}
	}
	session, err := s.NewSession()
	if err != nil {
		return ctx, fmt.Errorf("start browser for %q: %w", sc.Name, err)
	}
	st := s.newScenario(sc.Name, session)
	ctx = shared.WithLogger(ctx, st.log)
	ctx = context.WithValue(ctx, scenarioKey{}, st)
	st.log.Info("Browser session started")

	if !needsAutoLogin(sc.Name, tags) {
		return ctx, nil
	}
	err = st.funnel.Guard(ctx, "Auto login", func(ctx context.Context) error {
		return st.autoLogin(ctx)
	})
	if err != nil {
		st.closeSession()
	}
	return ctx, err
}

func (s *Suite) after(ctx context.Context, sc *godog.Scenario, stepErr error) (context.Context, error) {
	st, ok := ctx.Value(scenarioKey{}).(*scenario)
	if !ok || st == nil || st.session == nil || st.closed {
		return ctx, nil
	}
	if stepErr != nil {
		st.log.WithError(stepErr).Error("Scenario failed")
		label := "Failure_" + strings.ReplaceAll(sc.Name, " ", "_")
		if err := st.sink.Screenshot(ctx, label); err != nil {
			st.log.WithError(err).Warnf("Failed to capture screenshot %s", label)
		}
	}
	st.closeSession()
	return ctx, nil
}

func (st *scenario) closeSession() {
	if st.closed {
		return
	}
	st.closed = true
	if err := st.session.Quit(); err != nil {
		st.log.WithError(err).Warn("Failed to quit browser session")
	}
}

// autoLogin runs the whole login flow with configured credentials.
func (st *scenario) autoLogin(ctx context.Context) error {
	if err := st.cfg.Require("baseURL", "email", "otp"); err != nil {
		return err
	}
	shared.GetLogger(ctx).Infof("Auto login as %s", shared.MaskEmail(st.cfg.Email))
	if err := st.openLoginPage(ctx); err != nil {
		return err
	}
	if err := st.requestOTP(ctx, st.cfg.Email); err != nil {
		return err
	}
	if err := st.enterOTP(ctx, st.cfg.OTP); err != nil {
		return err
	}
	return st.chooseAccountAndLand(ctx, st.cfg.HomeLogoAlt)
}
