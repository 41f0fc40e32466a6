// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestEngineErrorIsMatchesByCode(t *testing.T) {
	err := &EngineError{Code: ErrCodeInsufficientData, Message: "nothing usable"}

	if !errors.Is(err, ErrInsufficientData) {
		t.Error("same-code errors did not match")
	}
	if errors.Is(err, ErrModelNotLoaded) {
		t.Error("different-code errors matched")
	}
}

func TestEngineErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := &EngineError{Code: ErrCodeModelNotLoaded, Message: "backend unreachable", Cause: cause}

	wrapped := fmt.Errorf("request failed: %w", err)
	if !errors.Is(wrapped, ErrModelNotLoaded) {
		t.Error("wrapped engine error lost its identity")
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap chain broken")
	}
}

func TestEngineErrorMessage(t *testing.T) {
	err := &EngineError{Code: ErrCodeEngineSaturated, Message: "slots full"}
	if err.Error() != "engine_saturated: slots full" {
		t.Errorf("Error() = %q", err.Error())
	}

	withCause := &EngineError{Code: ErrCodeEngineSaturated, Message: "slots full", Cause: errors.New("x")}
	if withCause.Error() == err.Error() {
		t.Error("cause not reflected in message")
	}
}
