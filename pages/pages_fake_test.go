//go:build small
// +build small

package pages

import (
	"errors"
	"testing"
	"time"

	"github.com/portalqa/portal-bdd/shared"
	"github.com/portalqa/portal-bdd/shared/sharedtest"
	"github.com/portalqa/portal-bdd/webdriver"
	"github.com/portalqa/portal-bdd/webdriver/webdrivertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeSession() (*webdriver.Session, *webdrivertest.Driver) {
	wd := webdrivertest.NewDriver()
	return webdriver.NewSession(wd, time.Second, 10*time.Millisecond), wd
}

func TestLoginPage_OTP(t *testing.T) {
	s, wd := newFakeSession()
	ctx := sharedtest.NewTestContext()
	digits := make([]*webdrivertest.Element, 6)
	for i := range digits {
		digits[i] = webdrivertest.NewElement("")
	}
	wd.Add(otpInputs.Value, digits...)
	p := NewLoginPage(s, "Vakilsearch")

	require.NoError(t, p.EnterOTP(ctx, "123456"))
	assert.NoError(t, p.VerifyOTP("123456"))

	err := p.VerifyOTP("123457")
	var multi *shared.MultiError
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, 1, multi.Count())
	assert.NotContains(t, err.Error(), "7")

	err = p.EnterOTP(ctx, "1234567")
	assert.ErrorIs(t, err, shared.ErrPreconditionNotMet)
}

func TestLoginPage_EnterEmailBlank(t *testing.T) {
	s, _ := newFakeSession()
	err := NewLoginPage(s, "Vakilsearch").EnterEmail(sharedtest.NewTestContext(), "  ")
	assert.ErrorIs(t, err, shared.ErrPreconditionNotMet)
}

func TestLoginPage_SelectAccountPrefersExact(t *testing.T) {
	s, wd := newFakeSession()
	exact := webdrivertest.NewElement("qa@example.com")
	wd.Add(TextIs("p", "qa@example.com").Value, exact)
	p := NewLoginPage(s, "Vakilsearch")

	require.NoError(t, p.SelectAccount(sharedtest.NewTestContext(), " qa@example.com "))
	assert.Equal(t, 1, exact.Clicks())
}

func TestLoginPage_FirstSignal(t *testing.T) {
	s, wd := newFakeSession()
	ctx := sharedtest.NewTestContext()
	p := NewLoginPage(s, "Vakilsearch")

	ok, _ := p.FirstSignal().Ready(ctx)
	assert.False(t, ok)

	wd.Add(festiveBanner.Value, webdrivertest.NewElement("Enjoy exclusive festive savings on services today"))
	ok, err := p.FirstSignal().Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = p.LoggedIn().Ready(ctx)
	assert.False(t, ok)

	wd.Add("//img[@alt='Vakilsearch']", webdrivertest.NewElement(""))
	ok, _ = p.LoggedIn().Ready(ctx)
	assert.True(t, ok)
}

func TestProfilePanel_IdentityField(t *testing.T) {
	s, wd := newFakeSession()
	wd.Add(profileName.Value, webdrivertest.NewElement("Test User"))
	wd.Add(profileMobile.Value, webdrivertest.NewElement("+91 98765 43210"))
	wd.Add(profileEmail.Value, webdrivertest.NewElement("qa@example.com"))
	p := NewProfilePanel(s)

	for field, want := range map[string]string{
		"Name":          "Test User",
		"mobile number": "+91 98765 43210",
		"Email Address": "qa@example.com",
	} {
		got, err := p.IdentityField(field)
		require.NoError(t, err, field)
		assert.Equal(t, want, got, field)
	}
	_, err := p.IdentityField("Date of Birth")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestProfilePanel_ClickIconRequiresIcon(t *testing.T) {
	s, wd := newFakeSession()
	ctx := sharedtest.NewTestContext()
	p := NewProfilePanel(s)
	assert.ErrorIs(t, p.ClickIcon(ctx), shared.ErrPreconditionNotMet)

	icon := webdrivertest.NewElement("")
	wd.Add(profileIcon.Value, icon)
	require.NoError(t, p.ClickIcon(ctx))
	assert.Equal(t, 1, icon.Clicks())
}

func TestProfilePanel_MenuItems(t *testing.T) {
	s, wd := newFakeSession()
	var rows []*webdrivertest.Element
	for _, item := range ProfileMenu[:4] {
		rows = append(rows, webdrivertest.NewElement(item))
	}
	wd.Add(profileMenuItems.Value, rows...)

	items, err := NewProfilePanel(s).MenuItems()
	require.NoError(t, err)
	assert.Equal(t, ProfileMenu[:4], items)
}

func TestProfilePanel_SelectLogout(t *testing.T) {
	s, wd := newFakeSession()
	logout := webdrivertest.NewElement("Log out")
	wd.Add(TextIs("p", "Log out").Value, logout)

	require.NoError(t, NewProfilePanel(s).SelectMenuItem(sharedtest.NewTestContext(), "logout"))
	assert.Equal(t, 1, logout.Clicks())
}

func TestProfilePanel_SelectUnknownItem(t *testing.T) {
	s, wd := newFakeSession()
	settings := webdrivertest.NewElement("account settings")
	wd.Add(TextIs("p", "account settings").Value, settings)

	err := NewProfilePanel(s).SelectMenuItem(sharedtest.NewTestContext(), "Account Settings")
	assert.ErrorIs(t, err, shared.ErrPreconditionNotMet)
	assert.NotErrorIs(t, err, shared.ErrConditionTimeout)
	assert.Equal(t, 0, settings.Clicks())
}

func TestProfilePanel_Destination(t *testing.T) {
	s, wd := newFakeSession()
	ctx := sharedtest.NewTestContext()
	p := NewProfilePanel(s)

	wd.Add(subscriptionsMarker.Value, webdrivertest.NewElement("My Subscriptions"))
	ok, err := p.Destination("my subscriptions").Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = p.Destination("My Quotations").Ready(ctx)
	assert.False(t, ok)

	wd.Add(AnyTextIsFold("faqs").Value, webdrivertest.NewElement("FAQs"))
	ok, err = p.Destination("faqs").Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReportIssuePage_Loaded(t *testing.T) {
	s, wd := newFakeSession()
	ctx := sharedtest.NewTestContext()
	p := NewReportIssuePage(s)

	wd.SetURL("https://portal.example.com/dashboard")
	ok, err := p.Loaded().Ready(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	wd.SetURL("https://portal.example.com/grc/profile/support")
	ok, err = p.Loaded().Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	wd.SetURL("https://portal.example.com/dashboard")
	wd.Add(helpHeader.Value, webdrivertest.NewElement("Help"))
	ok, err = p.Loaded().Ready(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReportIssuePage_Form(t *testing.T) {
	s, wd := newFakeSession()
	ctx := sharedtest.NewTestContext()
	p := NewReportIssuePage(s)

	menu := webdrivertest.NewElement("").Hidden()
	control := webdrivertest.NewElement("Select module")
	control.OnClick = func() { menu.SetDisplayed(true) }
	selected := webdrivertest.NewElement("Select module")
	wd.Add(modulesControl.Value, control)
	wd.Add(modulesMenu.Value, menu)
	wd.Add(selectedModule.Value, selected)
	wd.Add(modulesOptions.Value, webdrivertest.NewElement("Compliance"), webdrivertest.NewElement("Payments"))
	option := webdrivertest.NewElement("Payments")
	option.OnClick = func() { selected.SetText("Payments") }
	wd.Add("//div[contains(@class,'-menu')]//div[contains(@class,'-option') and normalize-space()='Payments']", option)

	require.NoError(t, p.OpenModules(ctx))
	options, err := p.ModuleOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"Compliance", "Payments"}, options)
	require.NoError(t, p.SelectModule(ctx, "Payments"))
	got, err := p.SelectedModule()
	require.NoError(t, err)
	assert.Equal(t, "Payments", got)

	wd.Add(feedbackTextarea.Value, webdrivertest.NewElement(""))
	require.NoError(t, p.EnterFeedback(ctx, "Feedback: form works #auto"))
	value, err := p.Feedback()
	require.NoError(t, err)
	assert.Equal(t, "Feedback: form works #auto", value)

	wd.Add(sendButton.Value, webdrivertest.NewElement("Send").Disabled())
	enabled, err := p.SendEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestReportIssuePage_SupportLink(t *testing.T) {
	s, wd := newFakeSession()
	link := webdrivertest.NewElement("support@example.com").WithAttribute("href", "mailto:support@example.com")
	wd.Add(supportLink("support@example.com").Value, link)

	text, href, err := NewReportIssuePage(s).SupportLink("support@example.com")
	require.NoError(t, err)
	assert.NoError(t, VerifySupportLink("support@example.com", text, href))
}
