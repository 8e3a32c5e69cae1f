// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package steps

import (
	"context"
	"strings"

	"github.com/cucumber/godog"
	"github.com/portalqa/portal-bdd/pages"
	"github.com/portalqa/portal-bdd/readiness"
	"github.com/portalqa/portal-bdd/shared"
)

// Transition labels of the login flow.
const (
	labelOpenLogin   = "Open Login Page"
	labelOTPReady    = "Get OTP -> OTP field ready"
	labelOTPEntered  = "Enter OTP -> digits reflected"
	labelFirstSignal = "Email Choose -> First Signal"
	labelServiceHub  = "Explore Service Hub"
)

func registerLoginSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the user is on the Login page$`, theUserIsOnTheLoginPage)
	sc.Step(`^the user enters "([^"]*)" and click send OTP button$`, theUserEntersEmailAndRequestsOTP)
	sc.Step(`^the user enters valid "([^"]*)"$`, theUserEntersValidOTP)
	sc.Step(`^the user selects email and is redirected to the "([^"]*)" homepage$`, theUserSelectsEmailAndLands)
}

func theUserIsOnTheLoginPage(ctx context.Context) error {
	return run(ctx, "Login page validation", func(ctx context.Context, st *scenario) error {
		return st.openLoginPage(ctx)
	})
}

func theUserEntersEmailAndRequestsOTP(ctx context.Context, email string) error {
	return run(ctx, "email and OTP step", func(ctx context.Context, st *scenario) error {
		resolved, err := st.resolve(email)
		if err != nil {
			return err
		}
		return st.requestOTP(ctx, resolved)
	})
}

func theUserEntersValidOTP(ctx context.Context, otp string) error {
	return run(ctx, "OTP entry", func(ctx context.Context, st *scenario) error {
		resolved, err := st.resolve(otp)
		if err != nil {
			return err
		}
		return st.enterOTP(ctx, resolved)
	})
}

func theUserSelectsEmailAndLands(ctx context.Context, logoAlt string) error {
	return run(ctx, "Homepage Redirection", func(ctx context.Context, st *scenario) error {
		return st.chooseAccountAndLand(ctx, logoAlt)
	})
}

func (st *scenario) openLoginPage(ctx context.Context) error {
	if err := st.cfg.Require("baseURL"); err != nil {
		return err
	}
	th, err := st.thresholds(shared.CategoryLogin)
	if err != nil {
		return err
	}
	open := func(ctx context.Context) error {
		return st.login.Open(ctx, st.cfg.BaseURL)
	}
	if _, err := st.checker.Measure(ctx, labelOpenLogin, th, open, st.login.Loaded(), th.Fail); err != nil {
		return err
	}
	subtitle, err := st.login.Subtitle()
	if err != nil {
		return err
	}
	st.snapshot(ctx, "LoginPage")
	return shared.CompareValue("login subtitle", pages.LoginSubtitle, subtitle, shared.NormalizeLabel)
}

func (st *scenario) requestOTP(ctx context.Context, email string) error {
	th, err := st.thresholds(shared.CategoryLogin)
	if err != nil {
		return err
	}
	if err := st.login.EnterEmail(ctx, email); err != nil {
		return err
	}
	shared.GetLogger(ctx).Infof("Entered email %s", shared.MaskEmail(email))
	st.snapshot(ctx, "Email_Entered")
	_, err = st.checker.Measure(ctx, labelOTPReady, th, st.login.RequestOTP, st.login.OTPReady(), th.Fail)
	return err
}

func (st *scenario) enterOTP(ctx context.Context, otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return &shared.PreconditionError{What: "OTP is blank"}
	}
	th, err := st.thresholds(shared.CategoryLogin)
	if err != nil {
		return err
	}
	if ok, _ := st.login.OTPReady().Ready(ctx); !ok {
		return &shared.PreconditionError{What: "OTP field is not ready"}
	}
	op := st.checker.Start(labelOTPEntered)
	if err := st.login.EnterOTP(ctx, otp); err != nil {
		return err
	}
	shared.GetLogger(ctx).Infof("OTP entered ([REDACTED])")
	if err := st.login.VerifyOTP(otp); err != nil {
		return err
	}
	_, err = st.checker.Stop(ctx, op, th)
	return err
}

// chooseAccountAndLand picks the configured account when the chooser is
// shown, times the first post-login signal, clears any popup and confirms
// the home page.
func (st *scenario) chooseAccountAndLand(ctx context.Context, logoAlt string) error {
	log := shared.GetLogger(ctx)
	loginTh, err := st.thresholds(shared.CategoryLogin)
	if err != nil {
		return err
	}
	if strings.TrimSpace(logoAlt) == "" {
		logoAlt = st.cfg.HomeLogoAlt
	}
	login := pages.NewLoginPage(st.session, logoAlt)

	firstSignal := login.FirstSignal()
	st.checker.AwaitCondition(ctx, readiness.Condition{
		Description: "account chooser or post-login signal",
		Ready: func(ctx context.Context) (bool, error) {
			if login.ChooserOpen() {
				return true, nil
			}
			return firstSignal.Ready(ctx)
		},
	}, st.session.Wait())
	if login.ChooserOpen() {
		if err := st.cfg.Require("email"); err != nil {
			return err
		}
		if err := login.SelectAccount(ctx, st.cfg.Email); err != nil {
			return err
		}
		st.snapshot(ctx, "Chooser_Email_Selected")
	} else {
		log.Infof("Account chooser not open; likely already logged in")
	}

	if _, err := st.checker.Measure(ctx, labelFirstSignal, loginTh, nil, login.FirstSignal(), loginTh.Fail); err != nil {
		return err
	}

	if login.ProfileIncompleteShown() {
		log.Infof("Profile incomplete popup shown; closing it")
		if err := login.ClosePopup(ctx); err != nil {
			return err
		}
	}
	if login.FestivePopupShown() {
		if err := st.visitServiceHub(ctx, login); err != nil {
			return err
		}
	}

	if err := st.await(ctx, "homepage", login.LoggedIn(), loginTh.Fail); err != nil {
		return err
	}
	st.snapshot(ctx, "Homepage_Redirected")
	log.Infof("Logged in; homepage logo %q visible", logoAlt)
	return nil
}

func (st *scenario) visitServiceHub(ctx context.Context, login *pages.LoginPage) error {
	navTh, err := st.thresholds(shared.CategoryNavigation)
	if err != nil {
		return err
	}
	if _, err := st.checker.Measure(ctx, labelServiceHub, navTh, login.ExploreServiceHub, login.ServiceHubLoaded(), navTh.Fail); err != nil {
		return err
	}
	if err := st.session.Back(); err != nil {
		return err
	}
	shared.GetLogger(ctx).Infof("Returned from Service Hub")
	return nil
}
