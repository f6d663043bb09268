// Package config loads csvtrim job files.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/oleg578/csvtrim"
)

// DefaultMaxDescriptionLength applies when a job file or flag does not set one.
const DefaultMaxDescriptionLength = 30

// Config is the on-disk form of a transformation job.
type Config struct {
	// Input and Output are resolved against the directory of the job file when relative.
	Input                string `yaml:"input,omitempty"`
	Output               string `yaml:"output,omitempty"`
	MaxDescriptionLength *int   `yaml:"max_description_length,omitempty"`
	Delimiter            string `yaml:"delimiter,omitempty"`
	Strict               bool   `yaml:"strict,omitempty"`
	Graphemes            bool   `yaml:"graphemes,omitempty"`
}

// Load reads the job file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.Input = resolve(dir, cfg.Input)
	cfg.Output = resolve(dir, cfg.Output)
	return &cfg, nil
}

// Save writes c to path, replacing any previous file atomically.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// Job converts c into a transformation job, filling in defaults.
func (c *Config) Job() csvtrim.Job {
	job := csvtrim.Job{
		Input:                c.Input,
		Output:               c.Output,
		MaxDescriptionLength: DefaultMaxDescriptionLength,
		Delimiter:            c.Delimiter,
		Strict:               c.Strict,
		Graphemes:            c.Graphemes,
	}
	if c.MaxDescriptionLength != nil {
		job.MaxDescriptionLength = *c.MaxDescriptionLength
	}
	if job.Delimiter == "" {
		job.Delimiter = csvtrim.DefaultDelimiter
	}
	return job
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
