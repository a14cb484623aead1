// Package config loads engine configuration from an optional YAML file in
// the document directory, with INTROSPECT_* environment variables taking
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file looked up in the document
// directory.
const FileName = "introspect.yaml"

// Config holds the recognized engine options.
type Config struct {
	// MaxWords bounds the narrative word count.
	MaxWords int `yaml:"max_words" env:"INTROSPECT_MAX_WORDS"`

	// DocumentPath is the directory holding the persisted documents.
	DocumentPath string `yaml:"document_path" env:"INTROSPECT_DOCUMENT_PATH"`

	// PreviewChars bounds the narrative preview in history rows.
	PreviewChars int `yaml:"preview_chars" env:"INTROSPECT_PREVIEW_CHARS"`

	// SchemeDefault is the scoring scheme applied to new records that
	// carry no scheme tag.
	SchemeDefault string `yaml:"scheme_default" env:"INTROSPECT_SCHEME_DEFAULT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxWords:      10000,
		DocumentPath:  ".",
		PreviewChars:  50,
		SchemeDefault: "dissonance",
	}
}

// Load reads configuration for the given document directory: defaults,
// then the YAML file if present, then environment overrides. Unknown YAML
// keys are ignored.
func Load(dir string) (Config, error) {
	cfg := Default()
	if dir != "" {
		cfg.DocumentPath = dir
	}

	path := filepath.Join(cfg.DocumentPath, FileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file; defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxWords <= 0 {
		return fmt.Errorf("max_words must be positive, got %d", c.MaxWords)
	}
	if c.PreviewChars <= 0 {
		return fmt.Errorf("preview_chars must be positive, got %d", c.PreviewChars)
	}
	if c.DocumentPath == "" {
		return fmt.Errorf("document_path must not be empty")
	}
	return nil
}
