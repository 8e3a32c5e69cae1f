package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/portalqa/portal-bdd/readiness"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/portalqa/portal-bdd/webdriver"
)

var (
	reportIssueTab     = TextIs("p", "Report an issue")
	helpHeader         = TextIs("h2", "Help")
	reportIssueHeader  = TextIs("h2", "Report an Issue")
	modulesControl     = webdriver.CSS("div[class*='-control']")
	modulesMenu        = webdriver.CSS("div[class*='-menu']")
	modulesOptions     = webdriver.XPath("//div[contains(@class,'-menu')]//div[contains(@class,'-option')]")
	selectedModule     = webdriver.CSS("div[class*='-singleValue']")
	feedbackTextarea   = webdriver.XPath("//textarea[@id='query']")
	sendButton         = webdriver.CSS("button.styles_sendBtn__Croyp")
	confirmationText   = webdriver.CSS("div.styles_report__1Kc21 p")
	gotItButton        = webdriver.XPath("//button[normalize-space()='Got it']")
	supportURLSuffixes = []string{"/grc/profile/support", "/profile/support", "/support", "/report-issue"}
)

// ReportIssuePage drives the Help > Report an issue form.
type ReportIssuePage struct {
	s *webdriver.Session
}

// NewReportIssuePage returns the report-an-issue page object.
func NewReportIssuePage(s *webdriver.Session) *ReportIssuePage {
	return &ReportIssuePage{s: s}
}

// ClickTab opens the Report an issue tab.
func (p *ReportIssuePage) ClickTab(ctx context.Context) error {
	return p.s.SafeClick(ctx, reportIssueTab)
}

// Loaded holds once a support header is visible or the URL is a support
// route.
func (p *ReportIssuePage) Loaded() readiness.Condition {
	headers := p.s.AnyVisible(helpHeader, reportIssueHeader)
	onRoute := p.s.URLContains(supportURLSuffixes...)
	return readiness.Condition{
		Description: "support header visible or support URL",
		Ready: func(ctx context.Context) (bool, error) {
			if ok, err := headers(ctx); ok {
				return true, nil
			} else if routeOK, routeErr := onRoute(ctx); routeOK || routeErr != nil {
				return routeOK, routeErr
			} else {
				return false, err
			}
		},
	}
}

// OpenModules expands the modules dropdown and waits for its menu.
func (p *ReportIssuePage) OpenModules(ctx context.Context) error {
	if err := p.s.SafeClick(ctx, modulesControl); err != nil {
		return err
	}
	_, err := p.s.WaitVisible(modulesMenu)
	return err
}

// ModuleOptions returns the labels in the open modules menu.
func (p *ReportIssuePage) ModuleOptions() ([]string, error) {
	return p.s.Texts(modulesOptions)
}

// SelectModule picks an option from the open modules menu.
func (p *ReportIssuePage) SelectModule(ctx context.Context, module string) error {
	option := webdriver.XPath(fmt.Sprintf("//div[contains(@class,'-menu')]//div[contains(@class,'-option') and normalize-space()=%s]",
		Literal(strings.TrimSpace(module))))
	return p.s.SafeClick(ctx, option)
}

// SelectedModule returns the dropdown's current value.
func (p *ReportIssuePage) SelectedModule() (string, error) {
	return p.s.Text(selectedModule)
}

// EnterFeedback replaces the feedback text.
func (p *ReportIssuePage) EnterFeedback(ctx context.Context, text string) error {
	return p.s.Type(feedbackTextarea, text)
}

// Feedback returns the feedback field's current value.
func (p *ReportIssuePage) Feedback() (string, error) {
	return p.s.Attribute(feedbackTextarea, "value")
}

// SendEnabled reports whether the Send button is visible and enabled.
func (p *ReportIssuePage) SendEnabled() (bool, error) {
	e, err := p.s.WaitVisible(sendButton)
	if err != nil {
		return false, err
	}
	return e.IsEnabled()
}

// Send submits the form.
func (p *ReportIssuePage) Send(ctx context.Context) error {
	return p.s.SafeClick(ctx, sendButton)
}

// Confirmation returns the confirmation popup's message.
func (p *ReportIssuePage) Confirmation() (string, error) {
	return p.s.Text(confirmationText)
}

// CloseConfirmation dismisses the confirmation popup.
func (p *ReportIssuePage) CloseConfirmation(ctx context.Context) error {
	return p.s.SafeClick(ctx, gotItButton)
}

func supportLink(email string) webdriver.Locator {
	return webdriver.XPath(fmt.Sprintf("//a[normalize-space()=%s and starts-with(@href,'mailto:')]", Literal(strings.TrimSpace(email))))
}

// SupportLink returns the visible text and href of the support mail link.
func (p *ReportIssuePage) SupportLink(email string) (text, href string, err error) {
	l := supportLink(email)
	if text, err = p.s.Text(l); err != nil {
		return "", "", err
	}
	if href, err = p.s.Attribute(l, "href"); err != nil {
		return "", "", err
	}
	return text, href, nil
}

// ClickSupportLink clicks the support mail link.
func (p *ReportIssuePage) ClickSupportLink(ctx context.Context, email string) error {
	return p.s.SafeClick(ctx, supportLink(email))
}

// VerifySupportLink checks the link shows email and targets mailto:email.
func VerifySupportLink(email, text, href string) error {
	var errs []error
	if err := shared.CompareValue("support link text", email, text, shared.NormalizeEmail); err != nil {
		errs = append(errs, err)
	}
	want := "mailto:" + strings.TrimSpace(email)
	if !strings.HasPrefix(strings.ToLower(href), "mailto:") || shared.NormalizeEmail(href) != shared.NormalizeEmail(want) {
		errs = append(errs, &shared.ValueMismatchError{What: "support link href", Expected: want, Observed: href})
	}
	return shared.NewMultiError(errs, "verifying support link")
}

var mailHandlers = []glob.Glob{
	glob.MustCompile("mailto:*"),
	glob.MustCompile("*outlook*"),
	glob.MustCompile("*office*"),
	glob.MustCompile("*live.com*"),
	glob.MustCompile("*gmail*"),
	glob.MustCompile("*google*"),
}

// LooksLikeMailHandler reports whether a window URL belongs to a mail
// client: a mailto: URL or a known webmail host.
func LooksLikeMailHandler(url string) bool {
	url = strings.ToLower(strings.TrimSpace(url))
	if url == "" {
		return false
	}
	for _, g := range mailHandlers {
		if g.Match(url) {
			return true
		}
	}
	return false
}
