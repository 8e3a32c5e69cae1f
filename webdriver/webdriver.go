package webdriver

import (
	"fmt"
	"io"
	"os"

	"github.com/phayes/freeport"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/tebeka/selenium"
)

// Driver owns the selenium server for a suite run. Sessions created from it
// belong to one scenario each.
type Driver struct {
	browser  shared.BrowserConfig
	selenium shared.SeleniumConfig
	waits    shared.WaitConfig
	port     int
	service  *selenium.Service
}

// StartDriver starts a local selenium server when cfg.Selenium.Path is set,
// otherwise it targets the already running server at Host:Port.
// Make sure to stop the driver once all sessions have quit, e.g.
//
// driver, err := StartDriver(cfg)
// if err != nil {
//   return err
// }
// defer driver.Stop()
func StartDriver(cfg *shared.Config) (*Driver, error) {
	d := &Driver{
		browser:  cfg.Browser,
		selenium: cfg.Selenium,
		waits:    cfg.Waits,
		port:     cfg.Selenium.Port,
	}
	if d.selenium.Path == "" {
		return d, nil
	}

	if d.port == 0 {
		port, err := freeport.GetFreePort()
		if err != nil {
			return nil, fmt.Errorf("pick selenium port: %w", err)
		}
		d.port = port
	}

	var options []selenium.ServiceOption
	// Start an X frame buffer for the browser to run in.
	if d.selenium.FrameBuffer {
		options = append(options, selenium.StartFrameBuffer())
	}
	var driverOption selenium.ServiceOption
	var err error
	switch d.browser.Name {
	case "firefox":
		driverOption, err = geckoDriverOption(d.browser)
	default:
		driverOption, err = chromeDriverOption(d.browser)
	}
	if err != nil {
		return nil, err
	}
	options = append(options, driverOption)

	var out io.Writer = io.Discard
	if d.selenium.Debug {
		out = os.Stderr
	}
	options = append(options, selenium.Output(out))
	selenium.SetDebug(d.selenium.Debug)

	service, err := selenium.NewSeleniumService(d.selenium.Path, d.port, options...)
	if err != nil {
		return nil, fmt.Errorf("start selenium: %w", err)
	}
	d.service = service
	return d, nil
}

// URL is the WebDriver endpoint sessions connect to.
func (d *Driver) URL() string {
	return fmt.Sprintf("http://%s:%d/wd/hub", d.selenium.Host, d.port)
}

// NewSession opens a fresh browser session.
func (d *Driver) NewSession() (*Session, error) {
	var caps selenium.Capabilities
	var err error
	switch d.browser.Name {
	case "firefox":
		caps, err = firefoxCapabilities(d.browser)
	default:
		caps, err = chromeCapabilities(d.browser)
	}
	if err != nil {
		return nil, err
	}

	wd, err := selenium.NewRemote(caps, d.URL())
	if err != nil {
		return nil, fmt.Errorf("new %s session: %w", d.browser.Name, err)
	}
	if d.browser.Width > 0 && d.browser.Height > 0 {
		if err := wd.ResizeWindow("", d.browser.Width, d.browser.Height); err != nil {
			wd.Quit()
			return nil, fmt.Errorf("resize window: %w", err)
		}
	}
	return NewSession(wd, d.waits.Explicit, d.waits.PollInterval), nil
}

// Stop shuts down the selenium server, if this driver started one.
func (d *Driver) Stop() error {
	if d.service == nil {
		return nil
	}
	return d.service.Stop()
}
