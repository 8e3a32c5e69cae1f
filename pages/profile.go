package pages

import (
	"context"
	"fmt"

	"github.com/portalqa/portal-bdd/readiness"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/portalqa/portal-bdd/webdriver"
)

var (
	profileIcon      = webdriver.XPath("(//header//button[.//img[@alt='avatar' or contains(@src,'/profile/Personal.svg')]])[1]")
	viewProfile      = webdriver.XPath("//p[normalize-space()='View Profile']")
	profileName      = webdriver.XPath("//h2[@class='font-semibold truncate']")
	profileMobile    = webdriver.XPath("(//div[@class='styles_emailPhoneSection__0nMhC'])[1]")
	profileEmail     = webdriver.XPath("(//div[@class='styles_emailPhoneSection__0nMhC'])[2]")
	profileMenuItems = webdriver.XPath("//section[contains(@class,'userManageable')]//section[contains(@class,'restProfileContainer')]//div[contains(@class,'restProfile__')]")

	businessMarker      = ContainsFold("business that you are part of")
	servicesTabsMarker  = webdriver.XPath("//*[.//*[normalize-space()='Active'] and .//*[normalize-space()='Pending'] and .//*[normalize-space()='Completed'] and .//*[normalize-space()='Closed']]")
	quotationsMarker    = TextIs("p", "My Quotations")
	subscriptionsMarker = TextIs("h1", "My Subscriptions")
)

// Identity field names, as written in scenario tables.
const (
	FieldName   = "Name"
	FieldMobile = "Mobile Number"
	FieldEmail  = "Email Address"
)

// ProfileMenu lists the customer profile panel entries in display casing.
var ProfileMenu = []string{
	"My Services",
	"My Business",
	"My Quotations",
	"My Subscriptions",
	"Help",
	"FAQs",
	"View Profile",
	"Log out",
}

var menuAliases = map[string]string{
	"logout": "Log out",
}

// CanonicalMenuItem maps a scenario's menu label to the label shown in the
// panel. Labels the panel does not offer are a PreconditionError.
func CanonicalMenuItem(label string) (string, error) {
	key := shared.NormalizeLabel(label)
	if alias, ok := menuAliases[key]; ok {
		return alias, nil
	}
	for _, item := range ProfileMenu {
		if shared.NormalizeLabel(item) == key {
			return item, nil
		}
	}
	return "", &shared.PreconditionError{What: fmt.Sprintf("unknown profile menu item %q", label)}
}

// ProfilePanel drives the customer profile side panel.
type ProfilePanel struct {
	s *webdriver.Session
}

// NewProfilePanel returns the profile panel page object.
func NewProfilePanel(s *webdriver.Session) *ProfilePanel {
	return &ProfilePanel{s: s}
}

// IconVisible reports whether the header profile icon is displayed.
func (p *ProfilePanel) IconVisible() bool {
	return p.s.IsVisible(profileIcon)
}

// ClickIcon opens the panel.
func (p *ProfilePanel) ClickIcon(ctx context.Context) error {
	if !p.IconVisible() {
		return &shared.PreconditionError{What: "profile icon is not visible"}
	}
	return p.s.SafeClick(ctx, profileIcon)
}

// Opened holds once the panel's View Profile entry is visible.
func (p *ProfilePanel) Opened() readiness.Condition {
	return readiness.Condition{Description: "View Profile visible", Ready: p.s.Visible(viewProfile)}
}

// ErrUnknownField is returned for identity fields the panel does not show.
var ErrUnknownField = fmt.Errorf("unknown identity field")

// IdentityField returns the displayed value of a named identity field.
func (p *ProfilePanel) IdentityField(field string) (string, error) {
	var l webdriver.Locator
	switch shared.NormalizeLabel(field) {
	case shared.NormalizeLabel(FieldName):
		l = profileName
	case shared.NormalizeLabel(FieldMobile):
		l = profileMobile
	case shared.NormalizeLabel(FieldEmail):
		l = profileEmail
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return p.s.Text(l)
}

// MenuItems returns the panel's menu labels in display order.
func (p *ProfilePanel) MenuItems() ([]string, error) {
	if _, err := p.s.WaitVisible(profileMenuItems); err != nil {
		return nil, err
	}
	return p.s.Texts(profileMenuItems)
}

// SelectMenuItem clicks a panel entry by label.
func (p *ProfilePanel) SelectMenuItem(ctx context.Context, label string) error {
	item, err := CanonicalMenuItem(label)
	if err != nil {
		return err
	}
	return p.s.SafeClick(ctx, TextIs("p", item))
}

// Destination is the readiness condition for the page a menu entry leads
// to. Pages without a dedicated marker are matched on their visible text,
// exactly first and then ignoring case.
func (p *ProfilePanel) Destination(name string) readiness.Condition {
	switch shared.NormalizeLabel(name) {
	case "my business":
		return readiness.Condition{Description: "My Business subheading visible", Ready: p.s.Visible(businessMarker)}
	case "my services":
		return readiness.Condition{Description: "My Services status tabs visible", Ready: p.s.Visible(servicesTabsMarker)}
	case "my quotations":
		return readiness.Condition{Description: "My Quotations heading visible", Ready: p.s.Visible(quotationsMarker)}
	case "my subscriptions":
		return readiness.Condition{Description: "My Subscriptions heading visible", Ready: p.s.Visible(subscriptionsMarker)}
	}
	return TextVisible(p.s, name)
}

// TextVisible holds once an element showing text is displayed.
func TextVisible(s *webdriver.Session, text string) readiness.Condition {
	return readiness.Condition{
		Description: fmt.Sprintf("text %q visible", text),
		Ready:       s.AnyVisible(AnyTextIs(text), AnyTextIsFold(text)),
	}
}
