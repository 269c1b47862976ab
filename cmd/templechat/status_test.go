package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestStatusCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"status", "--config", filepath.Join(t.TempDir(), "absent.yml")})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "Online") && !strings.HasPrefix(got, "Offline") {
		t.Errorf("unexpected status output %q", got)
	}
	if !strings.Contains(got, "America/Chicago") {
		t.Errorf("expected timezone in output, got %q", got)
	}
}
