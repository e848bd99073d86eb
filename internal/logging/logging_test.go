package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	cases := []struct {
		mode, level string
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{mode: "release", level: "warn", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{mode: "debug", level: "", enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{mode: "release", level: "", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
	}
	for _, tc := range cases {
		logger, err := New(tc.mode, tc.level)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tc.mode, tc.level, err)
		}
		core := logger.Core()
		if !core.Enabled(tc.enabled) || core.Enabled(tc.disabled) {
			t.Errorf("New(%q, %q): unexpected level gate", tc.mode, tc.level)
		}
	}

	if _, err := New("debug", "loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
