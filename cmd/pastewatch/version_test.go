package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version resolution.
func TestGetVersion(t *testing.T) {
	t.Run("uses ldflags value when set", func(t *testing.T) {
		orig := version
		defer func() { version = orig }()

		version = "1.2.3"
		if got := getVersion(); got != "1.2.3" {
			t.Errorf("getVersion() = %q, want %q", got, "1.2.3")
		}
	})

	t.Run("falls back without ldflags", func(t *testing.T) {
		orig := version
		defer func() { version = orig }()

		version = ""
		if got := getVersion(); got == "" {
			t.Error("getVersion() should never be empty")
		}
	})
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "pastewatch version") {
		t.Errorf("output missing version line: %q", out)
	}
	if !strings.Contains(out, "commit:") || !strings.Contains(out, "built:") {
		t.Errorf("output missing commit/build info: %q", out)
	}
}
