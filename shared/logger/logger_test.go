// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
)

// captureOutput redirects the standard logger during fn and returns
// what was written.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	prevFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(prev)
		log.SetFlags(prevFlags)
	}()
	fn()
	return buf.String()
}

func TestNew(t *testing.T) {
	t.Setenv("INSTANCE_ID", "instance-123")
	l := New("engine")
	if l.Component != "engine" {
		t.Errorf("component = %q", l.Component)
	}
	if l.InstanceID != "instance-123" {
		t.Errorf("instance id = %q", l.InstanceID)
	}
}

func TestNewDefaultsInstanceID(t *testing.T) {
	t.Setenv("INSTANCE_ID", "")
	if l := New("engine"); l.InstanceID != "unknown" {
		t.Errorf("instance id = %q, want unknown", l.InstanceID)
	}
}

func TestLogEmitsJSON(t *testing.T) {
	l := &Logger{Component: "engine", InstanceID: "i-1", Container: "c-1"}

	out := captureOutput(t, func() {
		l.Info("req-42", "insight generated", map[string]interface{}{"feature": "daily_card"})
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if entry.Level != INFO {
		t.Errorf("level = %q", entry.Level)
	}
	if entry.Component != "engine" || entry.RequestID != "req-42" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Message != "insight generated" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Fields["feature"] != "daily_card" {
		t.Errorf("fields = %v", entry.Fields)
	}
	if entry.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestLogLevels(t *testing.T) {
	l := &Logger{Component: "engine"}

	tests := []struct {
		name string
		emit func()
		want LogLevel
	}{
		{"debug", func() { l.Debug("", "msg", nil) }, DEBUG},
		{"info", func() { l.Info("", "msg", nil) }, INFO},
		{"warn", func() { l.Warn("", "msg", nil) }, WARN},
		{"error", func() { l.Error("", "msg", nil) }, ERROR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.emit)
			var entry LogEntry
			if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if entry.Level != tt.want {
				t.Errorf("level = %q, want %q", entry.Level, tt.want)
			}
		})
	}
}

func TestInfoWithDuration(t *testing.T) {
	l := &Logger{Component: "engine"}

	out := captureOutput(t, func() {
		l.InfoWithDuration("req-1", "request complete", 12.5, nil)
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry.Fields["duration_ms"] != 12.5 {
		t.Errorf("duration_ms = %v", entry.Fields["duration_ms"])
	}
}

func TestWarnWithError(t *testing.T) {
	l := &Logger{Component: "engine"}

	out := captureOutput(t, func() {
		l.WarnWithError("req-1", "provider degraded", errors.New("timeout"), nil)
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry.Fields["error"] != "timeout" {
		t.Errorf("error field = %v", entry.Fields["error"])
	}
}
