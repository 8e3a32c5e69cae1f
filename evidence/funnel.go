// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package evidence

import (
	"context"
	"fmt"
	"strings"

	"github.com/portalqa/portal-bdd/shared"
)

// Funnel is the single place validation failures pass through on their way
// to the step boundary.
type Funnel struct {
	Sink shared.EvidenceSink
}

// Guard runs fn. If fn fails, Guard captures an "Error_<description>"
// screenshot, records a failure entry and returns the error wrapped so that
// errors.Is and errors.As still see the original. A panic gets the same
// evidence and is re-raised unchanged.
func (f Funnel) Guard(ctx context.Context, description string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			f.capture(ctx, description, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err = fn(ctx); err != nil {
		f.capture(ctx, description, err)
		return fmt.Errorf("validation error during %s: %w", description, err)
	}
	return nil
}

func (f Funnel) capture(ctx context.Context, description string, cause error) {
	log := shared.GetLogger(ctx)
	log.Errorf("Exception during %s: %s", description, cause.Error())
	if f.Sink == nil {
		return
	}
	if err := f.Sink.Screenshot(ctx, "Error_"+strings.ReplaceAll(description, " ", "_")); err != nil {
		log.Warningf("Failed to capture error screenshot for %s: %s", description, err.Error())
	}
	f.Sink.Record(ctx, shared.EvidenceEntry{
		Kind:    "failure",
		Label:   description,
		Level:   shared.EvidenceError,
		Message: cause.Error(),
	})
}
