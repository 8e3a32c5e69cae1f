//go:build large
// +build large

// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package steps

import (
	"context"
	"testing"

	"github.com/cucumber/godog"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/portalqa/portal-bdd/webdriver"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesAgainstFixture(t *testing.T) {
	cfg, err := shared.LoadConfig("")
	require.NoError(t, err)
	cfg.Browser.Headless = true
	cfg.Evidence.Dir = t.TempDir()

	log := logrus.NewEntry(logrus.StandardLogger())
	ctx := shared.WithLogger(context.Background(), log)
	app, err := webdriver.NewAppServer(ctx, "", true, log)
	require.NoError(t, err)
	defer app.Close()

	cfg.BaseURL = app.GetPortalURL("/")
	cfg.Email = webdriver.FixtureEmail
	cfg.MobileNumber = webdriver.FixtureMobileNumber
	cfg.OTP = webdriver.FixtureOTP
	cfg.SupportEmail = webdriver.FixtureSupportEmail

	driver, err := webdriver.StartDriver(cfg)
	require.NoError(t, err)
	defer driver.Stop()

	suite := &Suite{
		Config:      cfg,
		NewSession:  driver.NewSession,
		Log:         log,
		EvidenceDir: cfg.Evidence.Dir,
		Seed:        1,
	}
	status := godog.TestSuite{
		Name:                "portal-bdd-fixture",
		ScenarioInitializer: suite.InitializeScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"../features"},
			TestingT: t,
		},
	}.Run()
	assert.Equal(t, 0, status)
}
