// Package webdrivertest provides an in-memory selenium.WebDriver for small
// tests of page objects and steps.
package webdrivertest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tebeka/selenium"
)

// ErrNotFound is returned by Driver.WaitWithTimeoutAndInterval when the
// condition does not hold.
var ErrNotFound = errors.New("webdrivertest: condition not met")

// PNG is the screenshot returned by Driver.
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

// Driver is a fake selenium.WebDriver. Elements are registered per locator
// value; methods not overridden here panic through the nil embedded
// interface.
type Driver struct {
	selenium.WebDriver

	mu       sync.Mutex
	elements map[string][]*Element
	url      string
	history  []string
	handles  []string
	current  string
	scripts  []string
	shots    int
	quit     bool

	// Screenshots override PNG when set; consumed in order.
	Screenshots [][]byte
	// OnGet runs after Get has updated the URL.
	OnGet func(url string)
}

// NewDriver returns a Driver with a single window.
func NewDriver() *Driver {
	return &Driver{
		elements: map[string][]*Element{},
		handles:  []string{"main"},
		current:  "main",
	}
}

// Add registers elements under a locator value, replacing any before.
func (d *Driver) Add(locator string, elements ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[locator] = elements
}

// Remove drops the elements registered under a locator value.
func (d *Driver) Remove(locator string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, locator)
}

// SetURL sets the current URL without recording history.
func (d *Driver) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
}

// OpenWindow adds a window handle, as a link with a target would.
func (d *Driver) OpenWindow(handle string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handles = append(d.handles, handle)
}

// Scripts returns the scripts executed so far.
func (d *Driver) Scripts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.scripts...)
}

// Current returns the focused window handle.
func (d *Driver) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Quitted reports whether Quit was called.
func (d *Driver) Quitted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quit
}

func (d *Driver) FindElements(by, value string) ([]selenium.WebElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	found := d.elements[value]
	out := make([]selenium.WebElement, len(found))
	for i, e := range found {
		out[i] = e
	}
	return out, nil
}

func (d *Driver) FindElement(by, value string) (selenium.WebElement, error) {
	found, _ := d.FindElements(by, value)
	if len(found) == 0 {
		return nil, &selenium.Error{Err: "no such element", Message: value}
	}
	return found[0], nil
}

// WaitWithTimeoutAndInterval evaluates the condition once; the fake page
// never changes on its own.
func (d *Driver) WaitWithTimeoutAndInterval(condition selenium.Condition, timeout, interval time.Duration) error {
	ok, err := condition(d)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (d *Driver) WaitWithTimeout(condition selenium.Condition, timeout time.Duration) error {
	return d.WaitWithTimeoutAndInterval(condition, timeout, 0)
}

// ExecuteScript records the script. "arguments[0].click();" clicks the
// element argument.
func (d *Driver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	d.mu.Lock()
	d.scripts = append(d.scripts, script)
	d.mu.Unlock()
	if strings.Contains(script, ".click()") && len(args) > 0 {
		if e, ok := args[0].(*Element); ok {
			return nil, e.scriptClick()
		}
	}
	return nil, nil
}

func (d *Driver) Get(url string) error {
	d.mu.Lock()
	if d.url != "" {
		d.history = append(d.history, d.url)
	}
	d.url = url
	onGet := d.OnGet
	d.mu.Unlock()
	if onGet != nil {
		onGet(url)
	}
	return nil
}

func (d *Driver) CurrentURL() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *Driver) Back() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := len(d.history); n > 0 {
		d.url = d.history[n-1]
		d.history = d.history[:n-1]
	}
	return nil
}

func (d *Driver) WindowHandles() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.handles...), nil
}

func (d *Driver) SwitchWindow(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.handles {
		if h == name {
			d.current = name
			return nil
		}
	}
	return &selenium.Error{Err: "no such window", Message: name}
}

func (d *Driver) ResizeWindow(name string, width, height int) error {
	return nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shots < len(d.Screenshots) {
		png := d.Screenshots[d.shots]
		d.shots++
		return png, nil
	}
	d.shots++
	return PNG, nil
}

func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit {
		return fmt.Errorf("webdrivertest: session already quit")
	}
	d.quit = true
	return nil
}

// Element is a fake selenium.WebElement.
type Element struct {
	selenium.WebElement

	mu         sync.Mutex
	displayed  bool
	enabled    bool
	text       string
	attributes map[string]string
	typed      string
	clicks     int
	clickErrs  []error

	// OnClick runs after a successful click of either kind.
	OnClick func()
}

// NewElement returns a displayed, enabled element showing text.
func NewElement(text string) *Element {
	return &Element{displayed: true, enabled: true, text: text, attributes: map[string]string{}}
}

// Hidden marks the element as not displayed.
func (e *Element) Hidden() *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.displayed = false
	return e
}

// Disabled marks the element as not enabled.
func (e *Element) Disabled() *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = false
	return e
}

// WithAttribute sets an attribute.
func (e *Element) WithAttribute(name, value string) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attributes[name] = value
	return e
}

// FailClicks makes the next native clicks return errs, in order.
func (e *Element) FailClicks(errs ...error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clickErrs = append(e.clickErrs, errs...)
	return e
}

// SetText changes the visible text.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

// SetDisplayed changes visibility.
func (e *Element) SetDisplayed(displayed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.displayed = displayed
}

// Clicks counts successful clicks of either kind.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Typed returns what was typed since the last Clear.
func (e *Element) Typed() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.typed
}

func (e *Element) Click() error {
	e.mu.Lock()
	if len(e.clickErrs) > 0 {
		err := e.clickErrs[0]
		e.clickErrs = e.clickErrs[1:]
		e.mu.Unlock()
		return err
	}
	e.clicks++
	onClick := e.OnClick
	e.mu.Unlock()
	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *Element) scriptClick() error {
	e.mu.Lock()
	e.clicks++
	onClick := e.OnClick
	e.mu.Unlock()
	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.typed = ""
	return nil
}

func (e *Element) SendKeys(keys string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.typed += keys
	return nil
}

func (e *Element) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text, nil
}

// GetAttribute returns typed input for "value" unless the attribute was set
// explicitly.
func (e *Element) GetAttribute(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.attributes[name]; ok {
		return v, nil
	}
	if name == "value" {
		return e.typed, nil
	}
	return "", nil
}

func (e *Element) IsDisplayed() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.displayed, nil
}

func (e *Element) IsEnabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled, nil
}
