package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"short", "***"},
		{"auth=authcookie_1234567890;", "aut***90;"},
	}

	for _, test := range tests {
		if got := MaskToken(test.in); got != test.expected {
			t.Errorf("MaskToken(%q) = %q, expected %q", test.in, got, test.expected)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("Warn message should be written: %s", out)
	}
}
