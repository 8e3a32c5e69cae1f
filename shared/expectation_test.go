//go:build small
// +build small

// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCompare_reordered_menu_matches(t *testing.T) {
	c := Compare([]string{"Profile", "Orders", "Logout"}, []string{"Logout", "Profile", "Orders"}, NormalizeLabel)
	assert.Equal(t, Match, c.Verdict)
	assert.Empty(t, c.Missing)
	assert.Empty(t, c.Unexpected)
	assert.Nil(t, c.Err("menu items"))
}

func TestCompare_missing_item(t *testing.T) {
	c := Compare([]string{"A", "B", "C"}, []string{"A", "B"}, NormalizeLabel)
	assert.Equal(t, Mismatch, c.Verdict)
	assert.Equal(t, []string{"c"}, c.Missing)
	assert.Empty(t, c.Unexpected)
}

func TestCompare_reports_missing_and_unexpected_together(t *testing.T) {
	c := Compare([]string{"Help", "FAQs", "Log out"}, []string{"help", "Log Out", "Refer & Earn"}, NormalizeLabel)
	assert.Equal(t, Mismatch, c.Verdict)
	assert.Equal(t, []string{"faqs"}, c.Missing)
	assert.Equal(t, []string{"refer & earn"}, c.Unexpected)

	err := c.Err("menu items")
	assert.True(t, errors.Is(err, ErrValueMismatch))
	var mismatch *ValueMismatchError
	assert.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"faqs"}, mismatch.Missing)
	assert.Equal(t, []string{"refer & earn"}, mismatch.Unexpected)
}

func TestCompare_duplicates_count(t *testing.T) {
	c := Compare([]string{"Help"}, []string{"Help", "help "}, NormalizeLabel)
	assert.Equal(t, Mismatch, c.Verdict)
	assert.Empty(t, c.Missing)
	assert.Equal(t, []string{"help"}, c.Unexpected)
}

func TestCompare_blank_observed_filtered(t *testing.T) {
	c := Compare([]string{"My Services", "Help"}, []string{"", "  ", "Help", " my  services "}, NormalizeLabel)
	assert.Equal(t, Match, c.Verdict)
	assert.Equal(t, []string{"help", "my services"}, sortedCopy(c.Observed))
}

func TestCompare_chevrons_ignored(t *testing.T) {
	c := Compare([]string{"View Profile"}, []string{"View Profile ›"}, NormalizeLabel)
	assert.Equal(t, Match, c.Verdict)
}

func TestCompare_inputs_not_mutated(t *testing.T) {
	expected := []string{"B ", "A"}
	observed := []string{" a", "b", ""}
	Compare(expected, observed, NormalizeLabel)
	assert.Equal(t, []string{"B ", "A"}, expected)
	assert.Equal(t, []string{" a", "b", ""}, observed)
}

func TestCompare_phone_identity(t *testing.T) {
	c := Compare([]string{"+1 (555) 123-4567"}, []string{"15551234567"}, NormalizePhone)
	assert.Equal(t, Match, c.Verdict)
}

func TestExpectationSet_subset_mode(t *testing.T) {
	s := ExpectationSet{Labels: []string{"Compliance"}, Normalize: NormalizeLabel, Mode: MatchSubset}
	c := s.Compare([]string{"Compliance", "Documents"})
	assert.Equal(t, Match, c.Verdict)
	assert.Equal(t, []string{"documents"}, c.Unexpected)

	c = s.Compare([]string{"Documents"})
	assert.Equal(t, Mismatch, c.Verdict)
	assert.Equal(t, []string{"compliance"}, c.Missing)
}

func TestExpectationSet_default_normalizer(t *testing.T) {
	c := ExpectationSet{Labels: []string{"HELP"}}.Compare([]string{"help"})
	assert.Equal(t, Match, c.Verdict)
}

func TestCompareValue(t *testing.T) {
	assert.Nil(t, CompareValue("email", " User@Example.com", "user@example.com", NormalizeEmail))
	err := CompareValue("email", "a@example.com", "b@example.com", NormalizeEmail)
	assert.True(t, errors.Is(err, ErrValueMismatch))
}

var labelGen = rapid.StringMatching(`[ a-zA-Z0-9>›]{0,12}`)

func TestCompare_verdict_ignores_order(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		expected := rapid.SliceOf(labelGen).Draw(t, "expected")
		observed := rapid.SliceOf(labelGen).Draw(t, "observed")
		shuffledExpected := rapid.Permutation(expected).Draw(t, "shuffledExpected")
		shuffledObserved := rapid.Permutation(observed).Draw(t, "shuffledObserved")

		a := Compare(expected, observed, NormalizeLabel)
		b := Compare(shuffledExpected, shuffledObserved, NormalizeLabel)
		if a.Verdict != b.Verdict {
			t.Fatalf("verdict changed under reordering: %v vs %v", a.Verdict, b.Verdict)
		}
		assert.Equal(t, a.Missing, b.Missing)
		assert.Equal(t, a.Unexpected, b.Unexpected)
	})
}

func TestCompare_self_matches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		labels := rapid.SliceOf(labelGen).Draw(t, "labels")
		var nonBlank []string
		for _, l := range labels {
			if NormalizeLabel(l) != "" {
				nonBlank = append(nonBlank, l)
			}
		}
		c := Compare(nonBlank, rapid.Permutation(labels).Draw(t, "observed"), NormalizeLabel)
		if c.Verdict != Match {
			t.Fatalf("expected match, got missing %v unexpected %v", c.Missing, c.Unexpected)
		}
	})
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
