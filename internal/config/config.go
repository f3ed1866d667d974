// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the gate policy: built-in defaults for the chirp
// tree, overlaid by an optional YAML file, a .env file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the policy file looked up at the repository root.
const DefaultFile = ".checkcommit.yaml"

// Config holds the gate policy.
type Config struct {
	// Base is the reference the range starts from when none is given.
	Base string `yaml:"base"`
	// SourceExtensions selects the files whose added lines are policed.
	SourceExtensions []string `yaml:"source_extensions"`
	// Skip lists check IDs that never run.
	Skip []string `yaml:"skip"`
	// FailOpen treats inconclusive checks (tooling errors) as passing.
	FailOpen bool `yaml:"fail_open"`

	BannedCalls []BannedCall      `yaml:"banned_calls"`
	Translation TranslationConfig `yaml:"translation"`
	License     LicenseConfig     `yaml:"license"`
	EmptyFiles  EmptyFilesConfig  `yaml:"empty_files"`
	Locale      LocaleConfig      `yaml:"locale"`
	Drivers     DriversConfig     `yaml:"drivers"`
	Duplicates  DuplicatesConfig  `yaml:"duplicates"`
	Log         LogConfig         `yaml:"log"`
}

// BannedCall is a forbidden invocation and what to use instead.
type BannedCall struct {
	// Name is shown in the failure message; the pattern is used when empty.
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// TranslationConfig describes calls to the gettext marker that must take literals.
type TranslationConfig struct {
	Pattern string `yaml:"pattern"`
}

// LicenseConfig lists phrases an added line mentioning "license" must carry.
type LicenseConfig struct {
	AllowedPhrases []string `yaml:"allowed_phrases"`
}

// EmptyFilesConfig lists base names that may be zero-length.
type EmptyFilesConfig struct {
	Allow []string `yaml:"allow"`
}

// LocaleConfig describes the generated translation templates.
type LocaleConfig struct {
	Dir            string   `yaml:"dir"`
	Build          []string `yaml:"build"`
	IgnorePrefixes []string `yaml:"ignore_prefixes"`
}

// DriversConfig maps driver sources to their test fixtures.
type DriversConfig struct {
	Dir           string `yaml:"dir"`
	TestImagesDir string `yaml:"test_images_dir"`
}

// DuplicatesConfig tunes the near-duplicate detector.
type DuplicatesConfig struct {
	Dir string `yaml:"dir"`
	// Threshold is the highest shared percentage that still passes.
	Threshold int    `yaml:"threshold"`
	Engine    string `yaml:"engine"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Default returns the policy of the chirp repository.
func Default() *Config {
	return &Config{
		Base:             "origin/master",
		SourceExtensions: []string{".py"},
		BannedCalls: []BannedCall{
			{Name: "MemoryMap", Pattern: `MemoryMap\(`, Replacement: "MemoryMapBytes"},
		},
		Translation: TranslationConfig{
			Pattern: `[^_]_\([^"']`,
		},
		License: LicenseConfig{
			AllowedPhrases: []string{
				"GNU General Public License",
				"Free Software Foundation",
				"gnu.org/licenses",
			},
		},
		EmptyFiles: EmptyFilesConfig{
			Allow: []string{"__init__.py"},
		},
		Locale: LocaleConfig{
			Dir:            "chirp/locale",
			Build:          []string{"make", "-C", "chirp/locale", "clean", "all"},
			IgnorePrefixes: []string{"#", `"POT-Creation-Date:`},
		},
		Drivers: DriversConfig{
			Dir:           "chirp/drivers",
			TestImagesDir: "tests/images",
		},
		Duplicates: DuplicatesConfig{
			Dir:       "chirp/drivers",
			Threshold: 51,
			Engine:    "auto",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load builds the configuration. path may be empty; a missing file is only
// an error when required is set. envFile is loaded with godotenv when present
// and never overrides variables already set.
func Load(path string, required bool, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Base = getEnv("CHECKCOMMIT_BASE", c.Base)
	c.Duplicates.Engine = getEnv("CHECKCOMMIT_ENGINE", c.Duplicates.Engine)
	c.Log.Level = getEnv("CHECKCOMMIT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("CHECKCOMMIT_LOG_FORMAT", c.Log.Format)
	c.Skip = getEnvAsSlice("CHECKCOMMIT_SKIP", c.Skip)

	if v := os.Getenv("CHECKCOMMIT_FAIL_OPEN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHECKCOMMIT_FAIL_OPEN: %w", err)
		}
		c.FailOpen = b
	}
	return nil
}

// Validate reports the first problem found.
func (c *Config) Validate() error {
	if c.Base == "" {
		return fmt.Errorf("base must not be empty")
	}
	for _, ext := range c.SourceExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("source extension %q must start with '.'", ext)
		}
	}
	for i, b := range c.BannedCalls {
		if b.Replacement == "" {
			return fmt.Errorf("banned call %d (%s) missing replacement", i, b.Pattern)
		}
		if _, err := regexp.Compile(b.Pattern); err != nil {
			return fmt.Errorf("banned call %d: %w", i, err)
		}
	}
	if c.Translation.Pattern != "" {
		if _, err := regexp.Compile(c.Translation.Pattern); err != nil {
			return fmt.Errorf("translation pattern: %w", err)
		}
	}
	if len(c.License.AllowedPhrases) == 0 {
		return fmt.Errorf("license.allowed_phrases must not be empty")
	}
	if c.Locale.Dir == "" {
		return fmt.Errorf("locale.dir must not be empty")
	}
	if c.Drivers.Dir == "" || c.Drivers.TestImagesDir == "" {
		return fmt.Errorf("drivers.dir and drivers.test_images_dir are required")
	}
	if c.Duplicates.Dir == "" {
		return fmt.Errorf("duplicates.dir must not be empty")
	}
	if c.Duplicates.Threshold < 0 || c.Duplicates.Threshold > 100 {
		return fmt.Errorf("duplicates.threshold must be within 0..100, got %d", c.Duplicates.Threshold)
	}
	switch c.Duplicates.Engine {
	case "auto", "wdiff", "builtin":
	default:
		return fmt.Errorf("duplicates.engine must be auto, wdiff or builtin, got %q", c.Duplicates.Engine)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// DisplayName returns the name used in messages.
func (b BannedCall) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Pattern
}

// Skipped reports whether the check id is disabled.
func (c *Config) Skipped(id string) bool {
	for _, s := range c.Skip {
		if s == id {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
