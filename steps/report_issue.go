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
	"github.com/portalqa/portal-bdd/pages"
	"github.com/portalqa/portal-bdd/readiness"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/sirupsen/logrus"
)

const labelReportIssue = "Report an Issue"

func registerReportIssueSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the user is on the Report an issue page$`, theUserIsOnTheReportIssuePage)
	sc.Step(`^the user opens the Modules dropdown$`, theUserOpensTheModulesDropdown)
	sc.Step(`^the user should see the following options in the Modules dropdown:$`, theModulesDropdownShouldOffer)
	sc.Step(`^the user selects "([^"]*)" from the Modules dropdown$`, theUserSelectsModule)
	sc.Step(`^the selected module should be "([^"]*)"$`, theSelectedModuleShouldBe)
	sc.Step(`^the user enters random feedback into the feedback field$`, theUserEntersRandomFeedback)
	sc.Step(`^the Send button should be enabled$`, theSendButtonShouldBeEnabled)
	sc.Step(`^the user clicks the Send button$`, theUserClicksSend)
	sc.Step(`^the user should see a confirmation message "([^"]*)"$`, theConfirmationShouldRead)
	sc.Step(`^the user closes the confirmation popup$`, theUserClosesTheConfirmation)
	sc.Step(`^the user should see the hyperlink "([^"]*)"$`, theUserShouldSeeTheHyperlink)
	sc.Step(`^the user clicks on the "([^"]*)" hyperlink$`, theUserClicksTheHyperlink)
	sc.Step(`^the default Mail application should open with "([^"]*)" in the "([^"]*)" field$`, theMailApplicationShouldOpen)
}

func theUserIsOnTheReportIssuePage(ctx context.Context) error {
	return run(ctx, "Report an Issue page confirmation", func(ctx context.Context, st *scenario) error {
		th, err := st.thresholds(shared.CategoryNavigation)
		if err != nil {
			return err
		}
		if _, err := st.checker.Measure(ctx, labelReportIssue, th, st.report.ClickTab, st.report.Loaded(), th.Fail); err != nil {
			return err
		}
		st.snapshot(ctx, "ReportAnIssuePage_Confirmation")
		return nil
	})
}

func theUserOpensTheModulesDropdown(ctx context.Context) error {
	return run(ctx, "Modules dropdown opening", func(ctx context.Context, st *scenario) error {
		if err := st.report.OpenModules(ctx); err != nil {
			return err
		}
		st.snapshot(ctx, "ModulesDropdown_Clicked")
		return nil
	})
}

func theModulesDropdownShouldOffer(ctx context.Context, table *godog.Table) error {
	return run(ctx, "Modules dropdown options validation", func(ctx context.Context, st *scenario) error {
		expected := tableValues(table)
		if len(expected) == 0 {
			return &shared.PreconditionError{What: "expected module options table is empty"}
		}
		observed, err := st.report.ModuleOptions()
		if err != nil {
			return err
		}
		if len(observed) == 0 {
			return &shared.ValueMismatchError{What: "modules dropdown options", Missing: expected}
		}
		cmp := shared.Compare(expected, observed, shared.NormalizeLabel)
		shared.GetEntry(ctx).WithFields(logrus.Fields{
			"expected": cmp.Expected,
			"observed": cmp.Observed,
			"verdict":  cmp.Verdict.String(),
		}).Info("Compared modules dropdown options (order ignored)")
		st.snapshot(ctx, "ModulesDropdown_Options")
		return cmp.Err("modules dropdown options")
	})
}

func theUserSelectsModule(ctx context.Context, module string) error {
	return run(ctx, "Module selection", func(ctx context.Context, st *scenario) error {
		if strings.TrimSpace(module) == "" {
			return &shared.PreconditionError{What: "module name is blank"}
		}
		if err := st.report.SelectModule(ctx, module); err != nil {
			return err
		}
		st.snapshot(ctx, "Module_Selected_"+strings.ReplaceAll(module, " ", "_"))
		return nil
	})
}

func theSelectedModuleShouldBe(ctx context.Context, module string) error {
	return run(ctx, "Selected module verification", func(ctx context.Context, st *scenario) error {
		selected, err := st.report.SelectedModule()
		if err != nil {
			return err
		}
		return shared.CompareValue("selected module", module, selected, shared.NormalizeLabel)
	})
}

func theUserEntersRandomFeedback(ctx context.Context) error {
	return run(ctx, "Random feedback entry", func(ctx context.Context, st *scenario) error {
		text := pages.RandomFeedback(st.rand)
		if err := st.report.EnterFeedback(ctx, text); err != nil {
			return err
		}
		value, err := st.report.Feedback()
		if err != nil {
			return err
		}
		if strings.TrimSpace(value) == "" {
			return &shared.ValueMismatchError{What: "feedback field", Expected: text, Observed: value}
		}
		shared.GetLogger(ctx).Infof("Entered feedback: %s", value)
		st.snapshot(ctx, "Feedback_Entered")
		return nil
	})
}

func theSendButtonShouldBeEnabled(ctx context.Context) error {
	return run(ctx, "Send button enabled check", func(ctx context.Context, st *scenario) error {
		enabled, err := st.report.SendEnabled()
		if err != nil {
			return err
		}
		if !enabled {
			return &shared.ValueMismatchError{What: "Send button state", Expected: "enabled", Observed: "disabled"}
		}
		return nil
	})
}

func theUserClicksSend(ctx context.Context) error {
	return run(ctx, "Send button click", func(ctx context.Context, st *scenario) error {
		if err := st.report.Send(ctx); err != nil {
			return err
		}
		st.snapshot(ctx, "Send_Clicked")
		return nil
	})
}

func theConfirmationShouldRead(ctx context.Context, message string) error {
	return run(ctx, "Confirmation message verification", func(ctx context.Context, st *scenario) error {
		got, err := st.report.Confirmation()
		if err != nil {
			return err
		}
		st.snapshot(ctx, "Confirmation_Message")
		return shared.CompareValue("confirmation message", message, got, strings.TrimSpace)
	})
}

func theUserClosesTheConfirmation(ctx context.Context) error {
	return run(ctx, "Confirmation popup close", func(ctx context.Context, st *scenario) error {
		return st.report.CloseConfirmation(ctx)
	})
}

func theUserShouldSeeTheHyperlink(ctx context.Context, email string) error {
	return run(ctx, "Verify support email hyperlink", func(ctx context.Context, st *scenario) error {
		email, err := st.resolve(email)
		if err != nil {
			return err
		}
		text, href, err := st.report.SupportLink(email)
		if err != nil {
			return err
		}
		if err := pages.VerifySupportLink(email, text, href); err != nil {
			return err
		}
		st.snapshot(ctx, "SupportEmail_Link")
		return nil
	})
}

func theUserClicksTheHyperlink(ctx context.Context, email string) error {
	return run(ctx, "Click support email hyperlink", func(ctx context.Context, st *scenario) error {
		email, err := st.resolve(email)
		if err != nil {
			return err
		}
		if err := st.report.ClickSupportLink(ctx, email); err != nil {
			return err
		}
		shared.GetLogger(ctx).Infof("Support email hyperlink clicked: %s", email)
		return nil
	})
}

// theMailApplicationShouldOpen clicks the support link again and accepts
// either a new browser window on a mail handler or no window at all, which
// means the OS handed the link to a native client.
func theMailApplicationShouldOpen(ctx context.Context, email, field string) error {
	return run(ctx, "Validate mailto launch", func(ctx context.Context, st *scenario) error {
		log := shared.GetLogger(ctx)
		email, err := st.resolve(email)
		if err != nil {
			return err
		}
		_, href, err := st.report.SupportLink(email)
		if err != nil {
			return err
		}
		if err := shared.CompareValue("support link href", "mailto:"+email, href, strings.TrimSpace); err != nil {
			return err
		}

		before, err := st.session.WindowHandles()
		if err != nil {
			return err
		}
		if err := st.report.ClickSupportLink(ctx, email); err != nil {
			return err
		}
		known := mapset.NewThreadUnsafeSet()
		for _, h := range before {
			known.Add(h)
		}
		var opened string
		st.checker.AwaitCondition(ctx, readiness.Condition{
			Description: "new window opened",
			Ready: func(context.Context) (bool, error) {
				after, err := st.session.WindowHandles()
				if err != nil {
					return false, err
				}
				for _, h := range after {
					if !known.Contains(h) {
						opened = h
						return true, nil
					}
				}
				return false, nil
			},
		}, st.mailWindowWait)

		if opened == "" {
			log.Infof("No new window; mailto likely handed off to a native client")
			st.sink.Record(ctx, shared.EvidenceEntry{
				Kind:    "mailto",
				Label:   "native client handoff",
				Level:   shared.EvidenceInfo,
				Message: fmt.Sprintf("mailto:%s opened outside the browser", shared.MaskEmail(email)),
				Fields:  map[string]interface{}{"field": field},
			})
			return nil
		}

		if err := st.session.SwitchWindow(opened); err != nil {
			return err
		}
		url, err := st.session.CurrentURL()
		if err != nil {
			return err
		}
		st.snapshot(ctx, "Mail_Handler_Window")
		if !pages.LooksLikeMailHandler(url) {
			return &shared.ValueMismatchError{What: "mail handler window URL", Expected: "mailto: or webmail URL", Observed: url}
		}
		log.Infof("Mailto opened in browser handler %s; requested field %s", url, field)
		return nil
	})
}
