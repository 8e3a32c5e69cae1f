// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Normalizer maps a raw UI string to the canonical form it is compared in.
// Every Normalizer must be idempotent.
type Normalizer func(string) string

// maxPhoneDigits is the national number length kept by NormalizePhone.
const maxPhoneDigits = 10

// NormalizeLabel trims, drops navigation chevrons, collapses internal
// whitespace and case-folds.
func NormalizeLabel(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '>' || r == '›' {
			return ' '
		}
		return r
	}, s)
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// NormalizeEmail trims and case-folds.
func NormalizeEmail(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// NormalizePhone keeps the last ten digits with leading zeros removed, so
// "+1 (555) 123-4567", "15551234567" and "05551234567" all compare equal.
// A string of only zeros normalizes to "0"; one without digits to "".
func NormalizePhone(s string) string {
	digits := onlyDigits(s)
	if len(digits) > maxPhoneDigits {
		digits = digits[len(digits)-maxPhoneDigits:]
	}
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" && digits != "" {
		return "0"
	}
	return trimmed
}

// Identity returns s unchanged.
func Identity(s string) string {
	return s
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskPhone keeps only the last three digits, e.g. "****567".
func MaskPhone(s string) string {
	digits := onlyDigits(s)
	if digits == "" {
		return "***"
	}
	if len(digits) > 3 {
		digits = digits[len(digits)-3:]
	}
	return "****" + digits
}

// MaskEmail keeps the first character of the local part and the domain,
// e.g. "j***@example.com".
func MaskEmail(s string) string {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 {
		return "***"
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size] + "***" + s[at:]
}
