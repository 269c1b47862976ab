package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Timezone != "America/Chicago" {
		t.Errorf("expected default timezone America/Chicago, got %q", cfg.Timezone)
	}
	if cfg.Topics[0] != DefaultTopic {
		t.Errorf("expected first topic %q, got %q", DefaultTopic, cfg.Topics[0])
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("expected request_timeout 60s, got %v", cfg.RequestTimeout)
	}
	if cfg.Enabled() {
		t.Error("expected widget disabled without feed_base")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultWeeklySchedule(t *testing.T) {
	week, err := Default().WeeklySchedule()
	if err != nil {
		t.Fatalf("WeeklySchedule failed: %v", err)
	}
	if len(week[time.Sunday]) != 0 {
		t.Errorf("expected sunday closed, got %v", week[time.Sunday])
	}
	if got := week[time.Saturday]; len(got) != 1 || got[0].Open != 9 || got[0].Close != 13 {
		t.Errorf("unexpected saturday hours %v", got)
	}
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		if got := week[d]; len(got) != 1 || got[0].Open != 9 || got[0].Close != 17 {
			t.Errorf("unexpected %s hours %v", d, got)
		}
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templechat.yml")
	data := `feed_base: https://example.test/exec
timezone: America/New_York
request_timeout: 15s
schedule:
  sun: [[10, 12]]
topics:
  - General
  - Ceremony
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TEMPLECHAT_LOG_DIR", filepath.Join(dir, "logs"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FeedBase != "https://example.test/exec" {
		t.Errorf("feed_base: got %q", cfg.FeedBase)
	}
	if !cfg.Enabled() {
		t.Error("expected widget enabled")
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("timezone: got %q", cfg.Timezone)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("request_timeout: got %v", cfg.RequestTimeout)
	}
	if cfg.LogDir != filepath.Join(dir, "logs") {
		t.Errorf("log_dir: got %q", cfg.LogDir)
	}
	if len(cfg.Topics) != 2 || cfg.Topics[1] != "Ceremony" {
		t.Errorf("topics: got %v", cfg.Topics)
	}

	week, err := cfg.WeeklySchedule()
	if err != nil {
		t.Fatalf("WeeklySchedule failed: %v", err)
	}
	if got := week[time.Sunday]; len(got) != 1 || got[0].Open != 10 {
		t.Errorf("sunday override not applied: %v", got)
	}
	if got := week[time.Monday]; len(got) != 0 {
		t.Errorf("expected monday closed once the file sets a schedule, got %v", got)
	}
}

func TestLoad_NumericDayKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templechat.yml")
	data := `schedule:
  "1": [[10, 12]]
  "6": [[9, 11]]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Schedule) != 2 {
		t.Errorf("expected schedule replaced by the file's two days, got %v", cfg.Schedule)
	}

	// Repeat to catch any dependence on map iteration order.
	for i := 0; i < 20; i++ {
		week, err := cfg.WeeklySchedule()
		if err != nil {
			t.Fatalf("WeeklySchedule failed: %v", err)
		}
		if got := week[time.Monday]; len(got) != 1 || got[0].Open != 10 || got[0].Close != 12 {
			t.Fatalf("monday: got %v, want [10,12)", got)
		}
		if got := week[time.Saturday]; len(got) != 1 || got[0].Close != 11 {
			t.Fatalf("saturday: got %v, want [9,11)", got)
		}
		for _, d := range []time.Weekday{time.Sunday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
			if got := week[d]; len(got) != 0 {
				t.Fatalf("expected %s closed, got %v", d, got)
			}
		}
	}
}

func TestWeeklySchedule_DuplicateDay(t *testing.T) {
	cfg := Default()
	cfg.Schedule["1"] = [][]int{{10, 12}}
	if _, err := cfg.WeeklySchedule(); err == nil {
		t.Error("expected error when mon and 1 both name Monday")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject duplicate weekday keys")
	}
}

func TestLoad_EnvTopics(t *testing.T) {
	t.Setenv("TEMPLECHAT_TOPICS", "General, Other,,Ceremony ")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"General", "Other", "Ceremony"}
	if len(cfg.Topics) != len(want) {
		t.Fatalf("topics: got %v, want %v", cfg.Topics, want)
	}
	for i := range want {
		if cfg.Topics[i] != want[i] {
			t.Errorf("topics[%d]: got %q, want %q", i, cfg.Topics[i], want[i])
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("env topics should validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Errorf("expected default timezone, got %q", cfg.Timezone)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }},
		{"empty timezone", func(c *Config) { c.Timezone = "" }},
		{"unknown day", func(c *Config) { c.Schedule["someday"] = [][]int{{9, 10}} }},
		{"short pair", func(c *Config) { c.Schedule["mon"] = [][]int{{9}} }},
		{"overlap", func(c *Config) { c.Schedule["mon"] = [][]int{{9, 12}, {11, 13}} }},
		{"no topics", func(c *Config) { c.Topics = nil }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
