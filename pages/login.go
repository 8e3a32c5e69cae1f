package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/portalqa/portal-bdd/readiness"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/portalqa/portal-bdd/webdriver"
)

// LoginSubtitle is the heading shown on the login page.
const LoginSubtitle = "Log into your account"

var (
	emailInput        = webdriver.XPath("//input[@id='login-id']")
	getOTPButton      = webdriver.XPath("//p[normalize-space()='Get OTP']")
	otpInputs         = webdriver.XPath("//p[text()='Enter OTP']/following-sibling::div//input[@inputmode='numeric' and @maxlength='1']")
	loginSubtitle     = webdriver.XPath("//h1[normalize-space()='Log into your account']")
	chooserHeading    = webdriver.XPath("//p[normalize-space()='Choose an Email to Log In']")
	profileIncomplete = webdriver.XPath("//p[normalize-space()='Action Required: Profile Incomplete']")
	festiveBanner     = webdriver.XPath("//p[normalize-space()='Enjoy exclusive festive savings on services today']")
	exploreServiceHub = webdriver.XPath("//button[.//p[normalize-space()='Explore Service Hub']]")
	serviceHubHeading = webdriver.XPath("//h1[normalize-space()='Service Hub']")
	popupCloseIcon    = webdriver.CSS("svg.cursor-pointer[class*='top-[2rem]'][class*='right-[2rem]']")
)

// LoginPage drives the OTP login flow.
type LoginPage struct {
	s           *webdriver.Session
	homeLogoAlt string
}

// NewLoginPage returns the login page object; homeLogoAlt is the alt text of
// the logo shown once logged in.
func NewLoginPage(s *webdriver.Session, homeLogoAlt string) *LoginPage {
	return &LoginPage{s: s, homeLogoAlt: homeLogoAlt}
}

// Open navigates to the portal's base URL.
func (p *LoginPage) Open(ctx context.Context, baseURL string) error {
	return p.s.Open(ctx, baseURL)
}

// Loaded holds once the login subtitle is visible.
func (p *LoginPage) Loaded() readiness.Condition {
	return readiness.Condition{Description: "login subtitle visible", Ready: p.s.Visible(loginSubtitle)}
}

// Subtitle returns the login heading text.
func (p *LoginPage) Subtitle() (string, error) {
	return p.s.Text(loginSubtitle)
}

// EnterEmail types the login id once the field is visible and enabled.
func (p *LoginPage) EnterEmail(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return &shared.PreconditionError{What: "login email is blank"}
	}
	return p.s.Type(emailInput, strings.TrimSpace(email))
}

// RequestOTP clicks Get OTP.
func (p *LoginPage) RequestOTP(ctx context.Context) error {
	return p.s.SafeClick(ctx, getOTPButton)
}

// OTPReady holds once the OTP digit inputs are visible.
func (p *LoginPage) OTPReady() readiness.Condition {
	return readiness.Condition{Description: "OTP inputs visible", Ready: p.s.Visible(otpInputs)}
}

// EnterOTP types one digit per input box.
func (p *LoginPage) EnterOTP(ctx context.Context, otp string) error {
	inputs, err := p.s.FindAll(otpInputs)
	if err != nil {
		return err
	}
	if len(inputs) < len(otp) {
		return &shared.PreconditionError{What: fmt.Sprintf("found %d OTP inputs for a %d digit OTP", len(inputs), len(otp))}
	}
	for i, digit := range otp {
		if err := inputs[i].SendKeys(string(digit)); err != nil {
			return fmt.Errorf("OTP digit %d: %w", i+1, err)
		}
	}
	return nil
}

// VerifyOTP checks that every OTP box holds the digit typed into it. The
// digits themselves are never included in the error.
func (p *LoginPage) VerifyOTP(otp string) error {
	inputs, err := p.s.FindAll(otpInputs)
	if err != nil {
		return err
	}
	var errs []error
	for i, digit := range otp {
		if i >= len(inputs) {
			errs = append(errs, &shared.ValueMismatchError{What: fmt.Sprintf("OTP digit %d", i+1), Expected: "*", Observed: ""})
			continue
		}
		got, err := inputs[i].GetAttribute("value")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if got != string(digit) {
			errs = append(errs, &shared.ValueMismatchError{What: fmt.Sprintf("OTP digit %d", i+1), Expected: "*", Observed: mask(got)})
		}
	}
	return shared.NewMultiError(errs, "verifying OTP digits")
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "*"
}

// ChooserOpen reports whether the account chooser is shown.
func (p *LoginPage) ChooserOpen() bool {
	return p.s.IsVisible(chooserHeading)
}

// SelectAccount picks email in the account chooser, preferring an exact
// text match over a partial one.
func (p *LoginPage) SelectAccount(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &shared.PreconditionError{What: "account email to select is blank"}
	}
	exact := TextIs("p", email)
	if p.s.IsVisible(exact) {
		return p.s.SafeClick(ctx, exact)
	}
	return p.s.SafeClick(ctx, webdriver.XPath(fmt.Sprintf("//p[contains(normalize-space(),%s)]", Literal(email))))
}

func (p *LoginPage) homeLogo() webdriver.Locator {
	return webdriver.XPath(fmt.Sprintf("//img[@alt=%s]", Literal(p.homeLogoAlt)))
}

// FirstSignal holds as soon as any post-login surface appears: the home
// logo, the profile-incomplete modal or the festive sale popup.
func (p *LoginPage) FirstSignal() readiness.Condition {
	return readiness.Condition{
		Description: "home logo, profile-incomplete modal or festive popup visible",
		Ready:       p.s.AnyVisible(p.homeLogo(), profileIncomplete, festiveBanner),
	}
}

// LoggedIn holds once the home logo is visible.
func (p *LoginPage) LoggedIn() readiness.Condition {
	return readiness.Condition{
		Description: fmt.Sprintf("home logo %q visible", p.homeLogoAlt),
		Ready:       p.s.Visible(p.homeLogo()),
	}
}

// ProfileIncompleteShown reports whether the profile-incomplete modal is up.
func (p *LoginPage) ProfileIncompleteShown() bool {
	return p.s.IsVisible(profileIncomplete)
}

// ClosePopup dismisses the modal via its close icon.
func (p *LoginPage) ClosePopup(ctx context.Context) error {
	return p.s.SafeClick(ctx, popupCloseIcon)
}

// FestivePopupShown reports whether the festive sale popup is up.
func (p *LoginPage) FestivePopupShown() bool {
	return p.s.IsVisible(festiveBanner)
}

// ExploreServiceHub clicks the festive popup's call to action.
func (p *LoginPage) ExploreServiceHub(ctx context.Context) error {
	return p.s.SafeClick(ctx, exploreServiceHub)
}

// ServiceHubLoaded holds once the Service Hub heading is visible.
func (p *LoginPage) ServiceHubLoaded() readiness.Condition {
	return readiness.Condition{Description: "Service Hub heading visible", Ready: p.s.Visible(serviceHubHeading)}
}
