package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdfcos/core"
)

// config holds the settings read from the YAML configuration file.
type config struct {
	MaxDepth      int  `yaml:"max_depth"`
	MaxBytes      int  `yaml:"max_bytes"`
	DecodeStreams bool `yaml:"decode_streams"`
	Verbose       bool `yaml:"verbose"`
	HTML          bool `yaml:"html"`
}

func defaultConfig() config {
	return config{MaxDepth: core.DefaultMaxDepth}
}

// loadConfig reads the configuration file at path. Keys missing from the
// file keep their defaults; unknown keys are an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return parseConfig(buf)
}

func parseConfig(buf []byte) (config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.MaxDepth < 0 || cfg.MaxBytes < 0 {
		return cfg, fmt.Errorf("max_depth and max_bytes must not be negative")
	}
	return cfg, nil
}
