package webdriver

import (
	"fmt"
	"path/filepath"

	"github.com/portalqa/portal-bdd/shared"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// chromeArgs mirrors the flags the portal is exercised with in CI: a fixed
// 1x viewport and no sandbox, optionally headless.
func chromeArgs(b shared.BrowserConfig) []string {
	args := []string{
		"--disable-gpu",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--force-device-scale-factor=1",
		"--hide-scrollbars",
		"--remote-allow-origins=*",
	}
	if b.Width > 0 && b.Height > 0 {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", b.Width, b.Height))
	}
	if b.Headless {
		args = append(args, "--headless=new")
	}
	return append(args, b.Args...)
}

func chromeCapabilities(b shared.BrowserConfig) (selenium.Capabilities, error) {
	seleniumCapabilities := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCapabilities := chrome.Capabilities{Args: chromeArgs(b)}
	if b.Binary != "" {
		chromeAbsPath, err := filepath.Abs(b.Binary)
		if err != nil {
			return nil, err
		}
		chromeCapabilities.Path = chromeAbsPath
	}
	seleniumCapabilities.AddChrome(chromeCapabilities)
	return seleniumCapabilities, nil
}

// chromeDriverOption points the selenium server at chromedriver.
func chromeDriverOption(b shared.BrowserConfig) (selenium.ServiceOption, error) {
	if b.DriverPath == "" {
		return nil, &shared.ConfigurationMissingError{Key: "browser.driverPath", Reason: "chromedriver path required to start selenium"}
	}
	return selenium.ChromeDriver(b.DriverPath), nil
}
