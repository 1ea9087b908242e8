package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// config controls the collector. All fields have working defaults for a
// stock NE5000E; a YAML file overrides them.
type config struct {
	SSH struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Port     int    `yaml:"port"`
	} `yaml:"ssh"`
	// SlotPattern extracts the slot identifier from `display device` lines.
	SlotPattern string `yaml:"slot_pattern"`
	// CommandTimeout bounds each per-slot query, e.g. "10s".
	CommandTimeout string `yaml:"command_timeout"`
}

const defaultSlotPattern = `^(\S+)\s+.*\bMPU`

func defaultConfig() config {
	var cfg config
	cfg.SSH.Username = "root"
	cfg.SSH.Password = "root"
	cfg.SSH.Port = 22
	cfg.SlotPattern = defaultSlotPattern
	cfg.CommandTimeout = "10s"
	return cfg
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if _, err := cfg.commandTimeout(); err != nil {
		return cfg, fmt.Errorf("invalid command_timeout: %w", err)
	}
	return cfg, nil
}

func (c config) commandTimeout() (time.Duration, error) {
	if c.CommandTimeout == "" {
		return 10 * time.Second, nil
	}
	return time.ParseDuration(c.CommandTimeout)
}
