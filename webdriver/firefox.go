package webdriver

import (
	"fmt"
	"path/filepath"

	"github.com/portalqa/portal-bdd/shared"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/firefox"
)

func firefoxArgs(b shared.BrowserConfig) []string {
	var args []string
	if b.Width > 0 && b.Height > 0 {
		args = append(args, fmt.Sprintf("--width=%d", b.Width), fmt.Sprintf("--height=%d", b.Height))
	}
	if b.Headless {
		args = append(args, "-headless")
	}
	return append(args, b.Args...)
}

func firefoxCapabilities(b shared.BrowserConfig) (selenium.Capabilities, error) {
	seleniumCapabilities := selenium.Capabilities{
		"browserName": "firefox",
	}

	firefoxCapabilities := firefox.Capabilities{Args: firefoxArgs(b)}
	if b.Binary != "" {
		firefoxAbsPath, err := filepath.Abs(b.Binary)
		if err != nil {
			return nil, err
		}
		firefoxCapabilities.Binary = firefoxAbsPath
	}
	seleniumCapabilities.AddFirefox(firefoxCapabilities)
	return seleniumCapabilities, nil
}

// geckoDriverOption points the selenium server at geckodriver.
func geckoDriverOption(b shared.BrowserConfig) (selenium.ServiceOption, error) {
	if b.DriverPath == "" {
		return nil, &shared.ConfigurationMissingError{Key: "browser.driverPath", Reason: "geckodriver path required to start selenium"}
	}
	return selenium.GeckoDriver(b.DriverPath), nil
}
