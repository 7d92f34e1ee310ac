package logging

import "testing"

func TestNewAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "warning", "error", "DEBUG"} {
		logger, err := New(level)
		if err != nil {
			t.Fatalf("level %q rejected: %v", level, err)
		}
		if logger == nil {
			t.Fatalf("level %q produced a nil logger", level)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Fatalf("unknown level should be rejected")
	}
}
