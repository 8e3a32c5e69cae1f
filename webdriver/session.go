package webdriver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/portalqa/portal-bdd/shared"
	"github.com/tebeka/selenium"
)

// Locator addresses elements on a page.
type Locator struct {
	By    string
	Value string
}

// XPath returns an XPath locator.
func XPath(value string) Locator {
	return Locator{By: selenium.ByXPATH, Value: value}
}

// CSS returns a CSS selector locator.
func CSS(value string) Locator {
	return Locator{By: selenium.ByCSSSelector, Value: value}
}

func (l Locator) String() string {
	return l.Value
}

// Session is one scenario's browser. It is not safe for concurrent use.
type Session struct {
	wd       selenium.WebDriver
	wait     time.Duration
	interval time.Duration
	clock    shared.Clock
}

// NewSession wraps wd; wait bounds element lookups and interval is their poll
// period.
func NewSession(wd selenium.WebDriver, wait, interval time.Duration) *Session {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Session{wd: wd, wait: wait, interval: interval, clock: shared.SystemClock()}
}

// WebDriver exposes the underlying driver.
func (s *Session) WebDriver() selenium.WebDriver {
	return s.wd
}

// Wait is the explicit element wait.
func (s *Session) Wait() time.Duration {
	return s.wait
}

// Open navigates to url.
func (s *Session) Open(ctx context.Context, url string) error {
	shared.GetLogger(ctx).Debugf("Navigating to %s", url)
	if err := s.wd.Get(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// Screenshot returns a PNG of the current viewport.
func (s *Session) Screenshot() ([]byte, error) {
	return s.wd.Screenshot()
}

// CurrentURL returns the URL of the current window.
func (s *Session) CurrentURL() (string, error) {
	return s.wd.CurrentURL()
}

// Back navigates one entry back in history.
func (s *Session) Back() error {
	return s.wd.Back()
}

// WindowHandles lists the open windows.
func (s *Session) WindowHandles() ([]string, error) {
	return s.wd.WindowHandles()
}

// SwitchWindow focuses the window with the given handle.
func (s *Session) SwitchWindow(handle string) error {
	return s.wd.SwitchWindow(handle)
}

// Quit ends the browser session.
func (s *Session) Quit() error {
	return s.wd.Quit()
}

// FindAll returns every element matching l without waiting.
func (s *Session) FindAll(l Locator) ([]selenium.WebElement, error) {
	return s.wd.FindElements(l.By, l.Value)
}

// firstDisplayed returns the first displayed element matching l, or nil.
func (s *Session) firstDisplayed(l Locator) (selenium.WebElement, error) {
	elements, err := s.FindAll(l)
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		if displayed, err := e.IsDisplayed(); err == nil && displayed {
			return e, nil
		}
	}
	return nil, nil
}

// IsVisible reports whether any element matching l is displayed right now.
func (s *Session) IsVisible(l Locator) bool {
	e, err := s.firstDisplayed(l)
	return err == nil && e != nil
}

// Visible is a readiness predicate for l being displayed.
func (s *Session) Visible(l Locator) func(context.Context) (bool, error) {
	return func(context.Context) (bool, error) {
		e, err := s.firstDisplayed(l)
		return e != nil, err
	}
}

// AnyVisible is a readiness predicate for at least one of ls being
// displayed.
func (s *Session) AnyVisible(ls ...Locator) func(context.Context) (bool, error) {
	return func(context.Context) (bool, error) {
		var lastErr error
		for _, l := range ls {
			e, err := s.firstDisplayed(l)
			if err != nil {
				lastErr = err
				continue
			}
			if e != nil {
				return true, nil
			}
		}
		return false, lastErr
	}
}

// URLContains is a readiness predicate for the current URL containing any of
// the fragments.
func (s *Session) URLContains(fragments ...string) func(context.Context) (bool, error) {
	return func(context.Context) (bool, error) {
		u, err := s.wd.CurrentURL()
		if err != nil {
			return false, err
		}
		for _, f := range fragments {
			if strings.Contains(u, f) {
				return true, nil
			}
		}
		return false, nil
	}
}

func (s *Session) waitFor(l Locator, what string, accept func(selenium.WebElement) bool) (selenium.WebElement, error) {
	var found selenium.WebElement
	var lastErr error
	cond := func(wd selenium.WebDriver) (bool, error) {
		elements, err := wd.FindElements(l.By, l.Value)
		if err != nil {
			lastErr = err
			return false, nil
		}
		for _, e := range elements {
			if accept(e) {
				found = e
				return true, nil
			}
		}
		return false, nil
	}
	start := s.clock.Now()
	if err := s.wd.WaitWithTimeoutAndInterval(cond, s.wait, s.interval); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, &shared.ConditionTimeoutError{
			Label:     "element wait",
			Condition: fmt.Sprintf("%s %s", l, what),
			Timeout:   s.wait,
			Elapsed:   s.clock.Now().Sub(start),
			LastErr:   lastErr,
		}
	}
	return found, nil
}

// WaitVisible waits up to the explicit wait for l to be displayed.
func (s *Session) WaitVisible(l Locator) (selenium.WebElement, error) {
	return s.waitFor(l, "visible", func(e selenium.WebElement) bool {
		displayed, err := e.IsDisplayed()
		return err == nil && displayed
	})
}

// WaitClickable waits up to the explicit wait for l to be displayed and
// enabled.
func (s *Session) WaitClickable(l Locator) (selenium.WebElement, error) {
	return s.waitFor(l, "clickable", func(e selenium.WebElement) bool {
		displayed, err := e.IsDisplayed()
		if err != nil || !displayed {
			return false
		}
		enabled, err := e.IsEnabled()
		return err == nil && enabled
	})
}

// Text waits for l and returns its trimmed visible text.
func (s *Session) Text(l Locator) (string, error) {
	e, err := s.WaitVisible(l)
	if err != nil {
		return "", err
	}
	text, err := e.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Texts returns the text of every element matching l, in document order,
// without waiting.
func (s *Session) Texts(l Locator) ([]string, error) {
	elements, err := s.FindAll(l)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(elements))
	for _, e := range elements {
		text, err := e.Text()
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// Attribute waits for l and returns the named attribute.
func (s *Session) Attribute(l Locator, name string) (string, error) {
	e, err := s.WaitVisible(l)
	if err != nil {
		return "", err
	}
	return e.GetAttribute(name)
}

// Type clears l and types text into it.
func (s *Session) Type(l Locator, text string) error {
	e, err := s.WaitClickable(l)
	if err != nil {
		return err
	}
	if err := e.Clear(); err != nil {
		return fmt.Errorf("clear %s: %w", l, err)
	}
	if err := e.SendKeys(text); err != nil {
		return fmt.Errorf("type into %s: %w", l, err)
	}
	return nil
}

// SafeClick clicks l, falling back to scrolling it into view and then to a
// script click. A stale element is re-resolved once.
func (s *Session) SafeClick(ctx context.Context, l Locator) error {
	for attempt := 0; ; attempt++ {
		e, err := s.WaitClickable(l)
		if err != nil {
			return err
		}
		err = s.click(ctx, e)
		if err == nil {
			return nil
		}
		if !IsStale(err) || attempt > 0 {
			return fmt.Errorf("click %s: %w", l, err)
		}
		shared.GetLogger(ctx).Warningf("%s went stale before click; re-resolving", l)
	}
}

func (s *Session) click(ctx context.Context, e selenium.WebElement) error {
	err := e.Click()
	if err == nil || IsStale(err) {
		return err
	}
	log := shared.GetLogger(ctx)
	log.Debugf("Native click failed (%s); scrolling into view", err.Error())
	args := []interface{}{e}
	if _, scrollErr := s.wd.ExecuteScript("arguments[0].scrollIntoView({block: 'center'});", args); scrollErr == nil {
		if err = e.Click(); err == nil || IsStale(err) {
			return err
		}
	}
	log.Debugf("Click after scroll failed (%s); using script click", err.Error())
	if _, err = s.wd.ExecuteScript("arguments[0].click();", args); err != nil {
		return err
	}
	return nil
}

// IsStale reports whether err is a stale element reference.
func IsStale(err error) bool {
	if err == nil {
		return false
	}
	var serr *selenium.Error
	if errors.As(err, &serr) {
		return serr.Err == "stale element reference"
	}
	return strings.Contains(err.Error(), "stale element reference")
}
