// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"sort"

	mapset "github.com/deckarep/golang-set"
)

// Verdict is the outcome of comparing observed labels to an expectation.
type Verdict int

const (
	// Match means the observed labels satisfy the expectation.
	Match Verdict = iota
	// Mismatch means at least one label is missing, or unexpected under
	// MatchExact.
	Mismatch
)

func (v Verdict) String() string {
	if v == Match {
		return "match"
	}
	return "mismatch"
}

// MatchMode selects how strict a comparison is.
type MatchMode int

const (
	// MatchExact requires multiset equality after normalization. Duplicates
	// count.
	MatchExact MatchMode = iota
	// MatchSubset only requires every expected label to be present; extra
	// observed labels are still reported as unexpected.
	MatchSubset
)

// ExpectationSet is the expected collection of UI labels for one assertion,
// typically the first column of a scenario table.
type ExpectationSet struct {
	Labels    []string
	Normalize Normalizer
	Mode      MatchMode
}

// Comparison is the full result of an order-agnostic comparison. Missing and
// Unexpected are sorted, in normalized form, and repeat a label once per
// surplus occurrence.
type Comparison struct {
	Verdict    Verdict
	Expected   []string
	Observed   []string
	Missing    []string
	Unexpected []string
}

// Compare checks observed against expected under MatchExact.
func Compare(expected, observed []string, normalize Normalizer) Comparison {
	return ExpectationSet{Labels: expected, Normalize: normalize}.Compare(observed)
}

// Compare normalizes both sides, drops blank observed entries, and reports
// every difference at once. Neither input slice is modified.
func (s ExpectationSet) Compare(observed []string) Comparison {
	normalize := s.Normalize
	if normalize == nil {
		normalize = NormalizeLabel
	}

	c := Comparison{
		Expected: make([]string, 0, len(s.Labels)),
		Observed: make([]string, 0, len(observed)),
	}
	want := make(map[string]int)
	got := make(map[string]int)
	keys := mapset.NewThreadUnsafeSet()
	for _, label := range s.Labels {
		n := normalize(label)
		c.Expected = append(c.Expected, n)
		want[n]++
		keys.Add(n)
	}
	for _, label := range observed {
		n := normalize(label)
		if n == "" {
			continue
		}
		c.Observed = append(c.Observed, n)
		got[n]++
		keys.Add(n)
	}

	for _, k := range keys.ToSlice() {
		key := k.(string)
		diff := want[key] - got[key]
		for ; diff > 0; diff-- {
			c.Missing = append(c.Missing, key)
		}
		for ; diff < 0; diff++ {
			c.Unexpected = append(c.Unexpected, key)
		}
	}
	sort.Strings(c.Missing)
	sort.Strings(c.Unexpected)

	c.Verdict = Match
	if len(c.Missing) > 0 || (s.Mode == MatchExact && len(c.Unexpected) > 0) {
		c.Verdict = Mismatch
	}
	return c
}

// Err returns nil on Match, or a ValueMismatchError carrying both the
// missing and the unexpected labels.
func (c Comparison) Err(what string) error {
	if c.Verdict == Match {
		return nil
	}
	return &ValueMismatchError{
		What:       what,
		Missing:    c.Missing,
		Unexpected: c.Unexpected,
	}
}

// CompareValue checks a single observed value against the expected one
// after normalization.
func CompareValue(what, expected, observed string, normalize Normalizer) error {
	if normalize(expected) == normalize(observed) {
		return nil
	}
	return &ValueMismatchError{What: what, Expected: expected, Observed: observed}
}
