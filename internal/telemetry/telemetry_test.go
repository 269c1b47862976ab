package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	prev := slog.Default()
	defer slog.SetDefault(prev)

	logger, closeLog, err := InitLogger(dir, true)
	if err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}
	logger.Debug("probe", "key", "value")
	if err := closeLog(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "templechat.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"probe"`) {
		t.Errorf("expected JSON debug record, got %q", data)
	}
}

func TestInitTelemetry(t *testing.T) {
	dir := t.TempDir()
	tracer, meter, cleanup, err := InitTelemetry(context.Background(), dir)
	if err != nil {
		t.Fatalf("InitTelemetry failed: %v", err)
	}
	defer cleanup()

	_, span := tracer.Start(context.Background(), "probe")
	span.End()
	if _, err := meter.Int64Counter("probe.count"); err != nil {
		t.Errorf("expected counter creation to succeed: %v", err)
	}
}
