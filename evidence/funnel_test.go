//go:build small
// +build small

// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package evidence_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/portalqa/portal-bdd/evidence"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/portalqa/portal-bdd/shared/sharedtest"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestGuard_success_records_nothing(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	sink := sharedtest.NewMockEvidenceSink(mockCtrl)
	f := evidence.Funnel{Sink: sink}
	err := f.Guard(sharedtest.NewTestContext(), "Verify Send button", func(context.Context) error { return nil })
	assert.Nil(t, err)
}

func TestGuard_preserves_error_identity(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	sink := sharedtest.NewMockEvidenceSink(mockCtrl)
	sink.EXPECT().Screenshot(gomock.Any(), "Error_Verify_selected_module").Return(nil)
	sink.EXPECT().Record(gomock.Any(), sharedtest.EvidenceAtLevel(shared.EvidenceError))

	cause := &shared.ThresholdExceededError{Label: "Navigate", Elapsed: 61 * time.Second, Fail: 60 * time.Second}
	f := evidence.Funnel{Sink: sink}
	err := f.Guard(sharedtest.NewTestContext(), "Verify selected module", func(context.Context) error { return cause })

	assert.True(t, errors.Is(err, shared.ErrThresholdExceeded))
	var target *shared.ThresholdExceededError
	assert.True(t, errors.As(err, &target))
	assert.Same(t, cause, target)
	assert.Contains(t, err.Error(), "Verify selected module")
}

func TestGuard_screenshot_failure_keeps_original(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	sink := sharedtest.NewMockEvidenceSink(mockCtrl)
	sink.EXPECT().Screenshot(gomock.Any(), gomock.Any()).Return(errors.New("session gone"))
	sink.EXPECT().Record(gomock.Any(), gomock.Any())

	cause := &shared.ValueMismatchError{What: "confirmation message"}
	err := evidence.Funnel{Sink: sink}.Guard(sharedtest.NewTestContext(), "Confirm", func(context.Context) error { return cause })
	assert.True(t, errors.Is(err, shared.ErrValueMismatch))
	assert.NotContains(t, err.Error(), "session gone")
}

func TestGuard_repanics(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	sink := sharedtest.NewMockEvidenceSink(mockCtrl)
	sink.EXPECT().Screenshot(gomock.Any(), "Error_Open_panel").Return(nil)
	sink.EXPECT().Record(gomock.Any(), gomock.Any())

	f := evidence.Funnel{Sink: sink}
	assert.PanicsWithValue(t, "boom", func() {
		_ = f.Guard(sharedtest.NewTestContext(), "Open panel", func(context.Context) error { panic("boom") })
	})
}

func TestGuard_nil_sink(t *testing.T) {
	cause := errors.New("no such element")
	err := evidence.Funnel{}.Guard(sharedtest.NewTestContext(), "Find tab", func(context.Context) error { return cause })
	assert.True(t, errors.Is(err, cause))
}

type sameShooter struct{}

func (sameShooter) Screenshot() ([]byte, error) {
	return []byte("unchanged page"), nil
}

func TestGuard_failure_after_warn_on_unchanged_page(t *testing.T) {
	dir := t.TempDir()
	sink := evidence.NewSink(sameShooter{}, dir, nil)
	ctx := sharedtest.NewTestContext()
	assert.Nil(t, sink.Screenshot(ctx, "Warn_Open_Customer_Profile_panel"))

	cause := &shared.ValueMismatchError{What: "profile menu items", Missing: []string{"help"}}
	err := evidence.Funnel{Sink: sink}.Guard(ctx, "Validate menu items", func(context.Context) error { return cause })
	assert.True(t, errors.Is(err, shared.ErrValueMismatch))

	assert.Equal(t, []string{
		filepath.Join(dir, "01_Warn_Open_Customer_Profile_panel.png"),
		filepath.Join(dir, "02_Error_Validate_menu_items.png"),
	}, sink.Screenshots())
	_, statErr := os.Stat(filepath.Join(dir, "02_Error_Validate_menu_items.png"))
	assert.Nil(t, statErr)
}
