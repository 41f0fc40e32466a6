// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import "fmt"

// Engine error codes. Callers only ever see model_not_loaded,
// insufficient_data, or engine_saturated as hard failures; everything else
// degrades to a still-valid insight.
const (
	// ErrCodeModelNotLoaded indicates the orchestrator is not configured
	// or not ready. Fatal to the request, not retried.
	ErrCodeModelNotLoaded = "model_not_loaded"

	// ErrCodeInsufficientData indicates every required provider failed or
	// returned no data. Fatal to the request.
	ErrCodeInsufficientData = "insufficient_data"

	// ErrCodeEngineSaturated indicates the concurrency gate stayed full
	// for the whole bounded retry window.
	ErrCodeEngineSaturated = "engine_saturated"
)

// EngineError represents a hard request failure.
type EngineError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Sentinel instances for errors.Is checks.
var (
	ErrModelNotLoaded = &EngineError{
		Code:    ErrCodeModelNotLoaded,
		Message: "orchestrator not configured or backend not ready",
	}

	ErrInsufficientData = &EngineError{
		Code:    ErrCodeInsufficientData,
		Message: "no provider returned usable context",
	}

	ErrEngineSaturated = &EngineError{
		Code:    ErrCodeEngineSaturated,
		Message: "generation slots stayed full past the retry bound",
	}
)

// Is matches engine errors by code so wrapped copies still compare equal
// to the sentinels.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
