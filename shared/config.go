// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Threshold categories.
const (
	CategoryLogin      = "login"
	CategoryNavigation = "navigation"
)

// Config captures everything a suite run needs: the portal under test, the
// reference values scenarios assert against, and how to reach a browser.
type Config struct {
	BaseURL      string `yaml:"baseURL"`
	Email        string `yaml:"email"`
	MobileNumber string `yaml:"mobileNumber"`
	OTP          string `yaml:"otp"`
	SupportEmail string `yaml:"supportEmail"`
	HomeLogoAlt  string `yaml:"homeLogoAlt"`

	Browser    BrowserConfig    `yaml:"browser"`
	Waits      WaitConfig       `yaml:"waits"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Selenium   SeleniumConfig   `yaml:"selenium"`
	Evidence   EvidenceConfig   `yaml:"evidence"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// BrowserConfig selects and shapes the browser each scenario drives.
type BrowserConfig struct {
	Name       string   `yaml:"name"`
	Headless   bool     `yaml:"headless"`
	Binary     string   `yaml:"binary"`
	DriverPath string   `yaml:"driverPath"`
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Args       []string `yaml:"args"`
}

// WaitConfig bounds element waits outside of timed transitions.
type WaitConfig struct {
	Explicit     time.Duration `yaml:"explicit"`
	PollInterval time.Duration `yaml:"pollInterval"`
}

// ThresholdsConfig holds one warn/fail pair per transition category.
type ThresholdsConfig struct {
	Login      Thresholds `yaml:"login"`
	Navigation Thresholds `yaml:"navigation"`
}

// SeleniumConfig controls the selenium server. An empty Path connects to an
// already running server at Host:Port instead of starting one. Port 0 picks
// a free port.
type SeleniumConfig struct {
	Path        string `yaml:"path"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	FrameBuffer bool   `yaml:"frameBuffer"`
	Debug       bool   `yaml:"debug"`
}

// EvidenceConfig controls where screenshots go.
type EvidenceConfig struct {
	Dir         string `yaml:"dir"`
	Screenshots bool   `yaml:"screenshots"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// LoadConfig initialises Config from defaults, an optional YAML file, and
// PORTAL_* environment overrides, in that order.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("PORTAL_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		HomeLogoAlt: "Vakilsearch",
		Browser: BrowserConfig{
			Name:   "chrome",
			Width:  1920,
			Height: 1080,
		},
		Waits: WaitConfig{
			Explicit:     10 * time.Second,
			PollInterval: 250 * time.Millisecond,
		},
		Thresholds: ThresholdsConfig{
			Login:      Thresholds{Warn: 30 * time.Second, Fail: 60 * time.Second},
			Navigation: Thresholds{Warn: 10 * time.Second, Fail: 60 * time.Second},
		},
		Selenium: SeleniumConfig{
			Host:        "localhost",
			Port:        8888,
			FrameBuffer: false,
		},
		Evidence: EvidenceConfig{Dir: "evidence", Screenshots: true},
		Logging:  LoggingConfig{Level: "info", JSON: false},
	}
}

// applyEnvOverrides sets every PORTAL_* variable present in the environment.
// Values that do not parse are reported, never skipped.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"PORTAL_BASE_URL":        &cfg.BaseURL,
		"PORTAL_EMAIL":           &cfg.Email,
		"PORTAL_MOBILE_NUMBER":   &cfg.MobileNumber,
		"PORTAL_OTP":             &cfg.OTP,
		"PORTAL_SUPPORT_EMAIL":   &cfg.SupportEmail,
		"PORTAL_BROWSER":         &cfg.Browser.Name,
		"PORTAL_BROWSER_BINARY":  &cfg.Browser.Binary,
		"PORTAL_DRIVER_PATH":     &cfg.Browser.DriverPath,
		"PORTAL_SELENIUM_PATH":   &cfg.Selenium.Path,
		"PORTAL_SELENIUM_HOST":   &cfg.Selenium.Host,
		"PORTAL_EVIDENCE_DIR":    &cfg.Evidence.Dir,
		"PORTAL_LOG_LEVEL":       &cfg.Logging.Level,
		"PORTAL_METRICS_ADDRESS": &cfg.Metrics.Address,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	var errs []error
	durations := map[string]*time.Duration{
		"PORTAL_EXPLICIT_WAIT":   &cfg.Waits.Explicit,
		"PORTAL_POLL_INTERVAL":   &cfg.Waits.PollInterval,
		"PORTAL_LOGIN_WARN":      &cfg.Thresholds.Login.Warn,
		"PORTAL_LOGIN_FAIL":      &cfg.Thresholds.Login.Fail,
		"PORTAL_NAVIGATION_WARN": &cfg.Thresholds.Navigation.Warn,
		"PORTAL_NAVIGATION_FAIL": &cfg.Thresholds.Navigation.Fail,
	}
	for _, key := range sortedKeys(durations) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, &ConfigurationMissingError{Key: key, Reason: err.Error()})
				continue
			}
			*durations[key] = d
		}
	}

	if v := os.Getenv("PORTAL_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, &ConfigurationMissingError{Key: "PORTAL_HEADLESS", Reason: err.Error()})
		} else {
			cfg.Browser.Headless = headless
		}
	}
	if v := os.Getenv("PORTAL_SELENIUM_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 {
			errs = append(errs, &ConfigurationMissingError{
				Key:    "PORTAL_SELENIUM_PORT",
				Reason: fmt.Sprintf("%q is not a port number", v),
			})
		} else {
			cfg.Selenium.Port = port
		}
	}
	if v := os.Getenv("PORTAL_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	return NewMultiError(errs, "reading PORTAL_* environment overrides")
}

func sortedKeys(m map[string]*time.Duration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the values that every run depends on, regardless of which
// scenarios are selected.
func (c *Config) Validate() error {
	var errs []error
	switch c.Browser.Name {
	case "chrome", "firefox":
	default:
		errs = append(errs, &ConfigurationMissingError{
			Key:    "browser.name",
			Reason: fmt.Sprintf("unsupported browser %q", c.Browser.Name),
		})
	}
	for _, category := range []string{CategoryLogin, CategoryNavigation} {
		if _, err := c.ThresholdsFor(category); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Waits.PollInterval <= 0 {
		errs = append(errs, &ConfigurationMissingError{Key: "waits.pollInterval", Reason: "must be positive"})
	}
	return NewMultiError(errs, "validating configuration")
}

// ThresholdsFor returns the validated warn/fail pair for a category.
func (c *Config) ThresholdsFor(category string) (Thresholds, error) {
	var t Thresholds
	switch category {
	case CategoryLogin:
		t = c.Thresholds.Login
	case CategoryNavigation:
		t = c.Thresholds.Navigation
	default:
		return t, &ConfigurationMissingError{Key: "thresholds." + category}
	}
	if err := t.Validate(); err != nil {
		return t, &ConfigurationMissingError{Key: "thresholds." + category, Reason: err.Error()}
	}
	return t, nil
}

// Lookup returns the reference value stored under a scenario-facing key.
func (c *Config) Lookup(key string) (string, bool) {
	switch key {
	case "baseURL":
		return c.BaseURL, true
	case "email":
		return c.Email, true
	case "mobileNumber":
		return c.MobileNumber, true
	case "otp":
		return c.OTP, true
	case "supportEmail":
		return c.SupportEmail, true
	case "homeLogoAlt":
		return c.HomeLogoAlt, true
	}
	return "", false
}

// Require fails with one ConfigurationMissingError per key that is unknown or
// blank. Callers use it before the first UI interaction of a step.
func (c *Config) Require(keys ...string) error {
	var errs []error
	for _, key := range keys {
		if v, ok := c.Lookup(key); !ok || strings.TrimSpace(v) == "" {
			errs = append(errs, &ConfigurationMissingError{Key: key})
		}
	}
	return NewMultiError(errs, "reading required configuration")
}
