//go:build small
// +build small

// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalizeLabel(t *testing.T) {
	for input, want := range map[string]string{
		"  My   Services ": "my services",
		"View Profile ›":   "view profile",
		"Help >":           "help",
		"Log\tOut":         "log out",
		"":                 "",
		" › ":              "",
	} {
		assert.Equal(t, want, NormalizeLabel(input), "input %q", input)
	}
}

func TestNormalizePhone(t *testing.T) {
	for input, want := range map[string]string{
		"+1 (555) 123-4567": "5551234567",
		"15551234567":       "5551234567",
		"+91 98765 43210":   "9876543210",
		"09876543210":       "9876543210",
		"000":               "0",
		"n/a":               "",
		"10123456789":       "123456789",
	} {
		assert.Equal(t, want, NormalizePhone(input), "input %q", input)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "qa.user@example.com", NormalizeEmail("  QA.User@Example.COM "))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "****210", MaskPhone("+91 98765 43210"))
	assert.Equal(t, "****12", MaskPhone("12"))
	assert.Equal(t, "***", MaskPhone(""))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "q***@example.com", MaskEmail("qa.user@example.com"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
	assert.Equal(t, "***", MaskEmail("@example.com"))
}

func TestNormalizers_idempotent(t *testing.T) {
	normalizers := map[string]Normalizer{
		"label": NormalizeLabel,
		"phone": NormalizePhone,
		"email": NormalizeEmail,
	}
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom([]string{"label", "phone", "email"}).Draw(t, "normalizer")
		s := rapid.StringMatching(`[ \t+()\-.@a-zA-Z0-9>›]{0,24}`).Draw(t, "s")
		normalize := normalizers[name]
		once := normalize(s)
		if twice := normalize(once); twice != once {
			t.Fatalf("%s normalizer not idempotent: %q -> %q -> %q", name, s, once, twice)
		}
	})
}
