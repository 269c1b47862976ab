package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"TempleChat/internal/schedule"
)

// EnvPrefix is the prefix of environment variables that override file settings.
const EnvPrefix = "TEMPLECHAT_"

// DefaultTopic is sent when no topic has been chosen.
const DefaultTopic = "General"

// Config holds application configuration
type Config struct {
	FeedBase       string             `yaml:"feed_base" koanf:"feed_base"`
	Timezone       string             `yaml:"timezone" koanf:"timezone"`
	Schedule       map[string][][]int `yaml:"schedule" koanf:"schedule"`
	Topics         []string           `yaml:"topics" koanf:"topics"`
	RequestTimeout time.Duration      `yaml:"request_timeout" koanf:"request_timeout"`
	LogDir         string             `yaml:"log_dir" koanf:"log_dir"`
	JournalPath    string             `yaml:"journal_path" koanf:"journal_path"`
	Debug          bool               `yaml:"debug" koanf:"debug"`
}

// Default returns the configuration used when nothing is overridden.
// Staff hours are Mon-Fri 9:00-17:00 and Sat 9:00-13:00, America/Chicago.
func Default() *Config {
	return &Config{
		Timezone: "America/Chicago",
		Schedule: map[string][][]int{
			"sun": {},
			"mon": {{9, 17}},
			"tue": {{9, 17}},
			"wed": {{9, 17}},
			"thu": {{9, 17}},
			"fri": {{9, 17}},
			"sat": {{9, 13}},
		},
		Topics: []string{
			DefaultTopic,
			"Visit / Directions",
			"Intro Meeting",
			"Ceremony",
			"Schedule / Calendar",
			"Other",
		},
		RequestTimeout: 60 * time.Second,
		LogDir:         "logs",
		JournalPath:    ":memory:",
	}
}

// Load reads .env (if present), the YAML file at path (if present), then
// overlays TEMPLECHAT_* environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// TEMPLECHAT_FEED_BASE -> feed_base, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	// A configured schedule or topic list replaces the defaults rather
	// than merging into them.
	if k.Exists("schedule") {
		sched := map[string][][]int{}
		if err := k.Unmarshal("schedule", &sched); err != nil {
			return nil, fmt.Errorf("unmarshalling schedule: %w", err)
		}
		cfg.Schedule = sched
	}
	if k.Exists("topics") {
		cfg.Topics = topicList(k)
	}

	return cfg, nil
}

// topicList reads topics either as a list (YAML) or as a comma-separated
// string (TEMPLECHAT_TOPICS).
func topicList(k *koanf.Koanf) []string {
	raw, ok := k.Get("topics").(string)
	if !ok {
		return k.Strings("topics")
	}
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// Enabled reports whether a feed endpoint is configured. Without one the
// chat widget stays disabled.
func (c *Config) Enabled() bool {
	return strings.TrimSpace(c.FeedBase) != ""
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if _, err := schedule.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if _, err := c.WeeklySchedule(); err != nil {
		return err
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("at least one topic is required")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative")
	}
	return nil
}

// WeeklySchedule converts the day-keyed hour pairs into a schedule.Weekly.
func (c *Config) WeeklySchedule() (schedule.Weekly, error) {
	week := schedule.Weekly{}
	seen := make(map[time.Weekday]string, len(c.Schedule))
	for key, pairs := range c.Schedule {
		day, ok := schedule.ParseWeekday(key)
		if !ok {
			return nil, fmt.Errorf("schedule: unknown day %q", key)
		}
		if prev, dup := seen[day]; dup {
			return nil, fmt.Errorf("schedule: keys %q and %q both name %s", prev, key, day)
		}
		seen[day] = key
		intervals := make([]schedule.Interval, 0, len(pairs))
		for _, p := range pairs {
			if len(p) != 2 {
				return nil, fmt.Errorf("schedule %s: interval %v must have exactly two hours", key, p)
			}
			intervals = append(intervals, schedule.Interval{Open: p[0], Close: p[1]})
		}
		week[day] = intervals
	}
	if err := week.Validate(); err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return week, nil
}
