//go:build small
// +build small

// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "baseURL: https://portal.example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.com", cfg.BaseURL)
	assert.Equal(t, "chrome", cfg.Browser.Name)
	assert.Equal(t, 10*time.Second, cfg.Waits.Explicit)

	login, err := cfg.ThresholdsFor(CategoryLogin)
	require.NoError(t, err)
	assert.Equal(t, Thresholds{Warn: 30 * time.Second, Fail: 60 * time.Second}, login)
	nav, err := cfg.ThresholdsFor(CategoryNavigation)
	require.NoError(t, err)
	assert.Equal(t, Thresholds{Warn: 10 * time.Second, Fail: 60 * time.Second}, nav)
}

func TestLoadConfig_partial_threshold_override(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
thresholds:
  navigation:
    warn: 5s
browser:
  name: firefox
  headless: true
`))
	require.NoError(t, err)
	assert.Equal(t, Thresholds{Warn: 5 * time.Second, Fail: 60 * time.Second}, cfg.Thresholds.Navigation)
	assert.Equal(t, "firefox", cfg.Browser.Name)
	assert.True(t, cfg.Browser.Headless)
}

func TestLoadConfig_env_overrides(t *testing.T) {
	t.Setenv("PORTAL_EMAIL", "qa@example.com")
	t.Setenv("PORTAL_LOGIN_WARN", "12s")
	t.Setenv("PORTAL_LOGIN_FAIL", "20s")
	t.Setenv("PORTAL_HEADLESS", "1")
	t.Setenv("PORTAL_SELENIUM_PORT", "4444")
	cfg, err := LoadConfig(writeConfig(t, "email: file@example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "qa@example.com", cfg.Email)
	assert.Equal(t, Thresholds{Warn: 12 * time.Second, Fail: 20 * time.Second}, cfg.Thresholds.Login)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 4444, cfg.Selenium.Port)
}

func TestLoadConfig_malformed_env_overrides(t *testing.T) {
	t.Setenv("PORTAL_LOGIN_FAIL", "sixty")
	t.Setenv("PORTAL_EXPLICIT_WAIT", "10")
	t.Setenv("PORTAL_SELENIUM_PORT", "44x4")
	t.Setenv("PORTAL_HEADLESS", "maybe")
	_, err := LoadConfig(writeConfig(t, "baseURL: https://portal.example.com\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigurationMissing))

	var multi *MultiError
	require.True(t, errors.As(err, &multi))
	var keys []string
	for _, e := range multi.Errors() {
		var cfgErr *ConfigurationMissingError
		require.True(t, errors.As(e, &cfgErr))
		assert.NotEmpty(t, cfgErr.Reason)
		keys = append(keys, cfgErr.Key)
	}
	assert.ElementsMatch(t, []string{
		"PORTAL_LOGIN_FAIL", "PORTAL_EXPLICIT_WAIT", "PORTAL_SELENIUM_PORT", "PORTAL_HEADLESS",
	}, keys)
}

func TestLoadConfig_warn_above_fail(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
thresholds:
  login:
    warn: 90s
    fail: 60s
`))
	assert.True(t, errors.Is(err, ErrConfigurationMissing))
	var cfgErr *ConfigurationMissingError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "thresholds.login", cfgErr.Key)
}

func TestLoadConfig_unsupported_browser(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "browser:\n  name: lynx\n"))
	assert.True(t, errors.Is(err, ErrConfigurationMissing))
}

func TestLoadConfig_missing_file(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NotNil(t, err)
}

func TestConfig_Require(t *testing.T) {
	cfg := defaultConfig()
	cfg.Email = "qa@example.com"
	cfg.MobileNumber = "   "

	assert.Nil(t, cfg.Require("email"))

	err := cfg.Require("email", "mobileNumber", "otp", "bogus")
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrConfigurationMissing))
	multi, ok := err.(*MultiError)
	require.True(t, ok)
	assert.Equal(t, 3, multi.Count())
}

func TestThresholdsFor_unknown_category(t *testing.T) {
	cfg := defaultConfig()
	_, err := cfg.ThresholdsFor("checkout")
	assert.True(t, errors.Is(err, ErrConfigurationMissing))
}

func TestThresholds_Validate(t *testing.T) {
	assert.Nil(t, Thresholds{Warn: time.Second, Fail: time.Second}.Validate())
	assert.NotNil(t, Thresholds{Warn: 2 * time.Second, Fail: time.Second}.Validate())
	assert.NotNil(t, Thresholds{}.Validate())
	assert.Equal(t, "warn 12 s / fail 20 s", Thresholds{Warn: 12 * time.Second, Fail: 20 * time.Second}.String())
}
