// Package config loads presquile settings from defaults, an optional YAML
// file and PRESQUILE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/presquile/internal/chapters"
	"github.com/simonhull/presquile/internal/id3"
	"github.com/simonhull/presquile/internal/timecode"
	"github.com/simonhull/presquile/internal/types"
)

// DefaultPath is read when no config file is named.
const DefaultPath = "presquile.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PRESQUILE_"

// Config holds the raw settings as written in YAML or the environment.
type Config struct {
	Mode            string `yaml:"mode"`
	TimeCodeLayout  string `yaml:"timecode_layout"`
	ChapterEnd      string `yaml:"chapter_end"`
	TextEncoding    string `yaml:"text_encoding"`
	LogLevel        string `yaml:"log_level"`
	CopyToClipboard bool   `yaml:"copy_to_clipboard"`

	path string
}

// Settings are the validated, typed form of a Config.
type Settings struct {
	Mode            types.Mode
	TimeCodeLayout  timecode.Layout
	ChapterEnd      chapters.EndSource
	TextEncoding    id3.TextEncoding
	LogLevel        zapcore.Level
	CopyToClipboard bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode:           types.Sequential.String(),
		TimeCodeLayout: timecode.Flexible.String(),
		ChapterEnd:     chapters.EndFromNextStart.String(),
		TextEncoding:   id3.EncodingUTF8.String(),
		LogLevel:       zapcore.InfoLevel.String(),
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		// Fields absent from the file keep their defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.path = path
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was read from, or "" if none was found.
func (c *Config) Path() string {
	return c.path
}

// applyEnv overrides fields from PRESQUILE_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"MODE":            &c.Mode,
		"TIMECODE_LAYOUT": &c.TimeCodeLayout,
		"CHAPTER_END":     &c.ChapterEnd,
		"TEXT_ENCODING":   &c.TextEncoding,
		"LOG_LEVEL":       &c.LogLevel,
	}
	for key, field := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*field = v
		}
	}

	if v, ok := lookup(EnvPrefix + "COPY_TO_CLIPBOARD"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCOPY_TO_CLIPBOARD: %w", EnvPrefix, err)
		}
		c.CopyToClipboard = b
	}
	return nil
}

func (c *Config) normalize() {
	for _, s := range []*string{&c.Mode, &c.TimeCodeLayout, &c.ChapterEnd, &c.TextEncoding, &c.LogLevel} {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
	if c.LogLevel == "" {
		c.LogLevel = zapcore.InfoLevel.String()
	}
}

// Validate reports every setting that does not parse.
func (c *Config) Validate() error {
	_, err := c.Settings()
	return err
}

// Settings parses the raw values.
func (c *Config) Settings() (Settings, error) {
	var (
		s    Settings
		errs []error
		err  error
	)

	if s.Mode, err = types.ParseMode(c.Mode); err != nil {
		errs = append(errs, fmt.Errorf("mode: %w", err))
	}
	if s.TimeCodeLayout, err = timecode.ParseLayoutName(c.TimeCodeLayout); err != nil {
		errs = append(errs, fmt.Errorf("timecode_layout: %w", err))
	}
	if s.ChapterEnd, err = chapters.ParseEndSource(c.ChapterEnd); err != nil {
		errs = append(errs, fmt.Errorf("chapter_end: %w", err))
	}
	if s.TextEncoding, err = id3.ParseTextEncoding(c.TextEncoding); err != nil {
		errs = append(errs, fmt.Errorf("text_encoding: %w", err))
	}
	if s.LogLevel, err = zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	s.CopyToClipboard = c.CopyToClipboard

	if len(errs) > 0 {
		return Settings{}, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return s, nil
}
