// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"fmt"
	"time"
)

// Thresholds is the warn/fail pair a timed transition is classified against.
type Thresholds struct {
	Warn time.Duration `yaml:"warn"`
	Fail time.Duration `yaml:"fail"`
}

// Validate requires positive bounds with Warn <= Fail.
func (t Thresholds) Validate() error {
	if t.Warn <= 0 || t.Fail <= 0 {
		return fmt.Errorf("thresholds must be positive (warn %v, fail %v)", t.Warn, t.Fail)
	}
	if t.Warn > t.Fail {
		return fmt.Errorf("warn %v exceeds fail %v", t.Warn, t.Fail)
	}
	return nil
}

func (t Thresholds) String() string {
	return fmt.Sprintf("warn %d s / fail %d s", WholeSeconds(t.Warn), WholeSeconds(t.Fail))
}
