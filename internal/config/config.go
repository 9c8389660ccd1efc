package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines tracker configuration, shared by trackerd and the
// host application.
type Config struct {
	Link    LinkConfig    `yaml:"link"`
	Tracker TrackerConfig `yaml:"tracker"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
}

// LinkConfig describes the host link. Mode is "serial" or "stdio".
type LinkConfig struct {
	Mode string `yaml:"mode"`
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// TrackerConfig describes the core state machine. Durations are plain
// milliseconds so they read the same in YAML and env.
type TrackerConfig struct {
	AdminTag       string `yaml:"admin_tag"`
	Capacity       int    `yaml:"capacity"`
	FreezeMS       int    `yaml:"freeze_ms"`
	PollIntervalMS int    `yaml:"poll_interval_ms"`
}

// Freeze returns the confirmation freeze window as a duration.
func (t TrackerConfig) Freeze() time.Duration {
	return time.Duration(t.FreezeMS) * time.Millisecond
}

// PollInterval returns the loop cadence as a duration.
func (t TrackerConfig) PollInterval() time.Duration {
	return time.Duration(t.PollIntervalMS) * time.Millisecond
}

// JournalConfig describes the host-side event journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment
// variables. Environment wins over the file, the file over defaults.
func Load() (Config, error) {
	cfg := Config{
		Link: LinkConfig{
			Mode: "serial",
			Port: "/dev/ttyUSB0",
			Baud: 9600,
		},
		Tracker: TrackerConfig{
			AdminTag:       "74:8a:71:16",
			Capacity:       10,
			FreezeMS:       3000,
			PollIntervalMS: 50,
		},
		Journal: JournalConfig{
			Path: "tagtrack.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("TAGTRACK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if mode := os.Getenv("TAGTRACK_LINK_MODE"); mode != "" {
		cfg.Link.Mode = mode
	}
	if port := os.Getenv("TAGTRACK_LINK_PORT"); port != "" {
		cfg.Link.Port = port
	}
	if baudStr := os.Getenv("TAGTRACK_LINK_BAUD"); baudStr != "" {
		baud, err := strconv.Atoi(baudStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TAGTRACK_LINK_BAUD: %w", err)
		}
		cfg.Link.Baud = baud
	}
	if tag := os.Getenv("TAGTRACK_ADMIN_TAG"); tag != "" {
		cfg.Tracker.AdminTag = tag
	}
	if capStr := os.Getenv("TAGTRACK_CAPACITY"); capStr != "" {
		capacity, err := strconv.Atoi(capStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TAGTRACK_CAPACITY: %w", err)
		}
		cfg.Tracker.Capacity = capacity
	}
	if journalPath := os.Getenv("TAGTRACK_JOURNAL_PATH"); journalPath != "" {
		cfg.Journal.Path = journalPath
	}
	if level := os.Getenv("TAGTRACK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
