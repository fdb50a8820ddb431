// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tutor configuration.
type Config struct {
	// API configuration
	API APIConfig `toml:"api"`

	// Tutoring configuration
	Tutor TutorConfig `toml:"tutor"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// APIConfig contains chat-completions endpoint configuration.
type APIConfig struct {
	// BaseURL is the API base URL.
	BaseURL string `toml:"base_url"`
	// ChatModel is the model used for streaming replies.
	ChatModel string `toml:"chat_model"`
	// CorrectionModel is the model used for correction requests.
	CorrectionModel string `toml:"correction_model"`
	// CorrectionTimeoutSecs bounds the best-effort correction request.
	CorrectionTimeoutSecs int `toml:"correction_timeout_secs"`
}

// TutorConfig contains tutoring behavior configuration.
type TutorConfig struct {
	// Language is the language being practiced.
	Language string `toml:"language"`
	// Persona overrides the built-in system instruction. Empty uses the
	// default persona for the configured language.
	Persona string `toml:"persona"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light".
	Theme string `toml:"theme"`
	// ShowTimestamps toggles per-entry timestamps in the transcript.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// defaultPersona is the built-in tutoring instruction, parameterized by
// language.
const defaultPersona = "You are a friendly %s tutor. Hold a natural " +
	"conversation in %s, matching the student's level. Keep replies short " +
	"and conversational. Gently steer the conversation to give the student " +
	"practice; do not correct their mistakes in your replies."

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:               "https://api.openai.com/v1",
			ChatModel:             "gpt-4o-mini",
			CorrectionModel:       "gpt-4o-mini",
			CorrectionTimeoutSecs: 20,
		},
		Tutor: TutorConfig{
			Language: "Spanish",
		},
		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: false,
		},
	}
}

// Persona returns the effective persona instruction: the configured
// override, or the built-in persona for the configured language.
func (c *Config) Persona() string {
	if c.Tutor.Persona != "" {
		return c.Tutor.Persona
	}
	return fmt.Sprintf(defaultPersona, c.Tutor.Language, c.Tutor.Language)
}

// =============================================================================
// LOADING
// =============================================================================

// DefaultPath returns the default config file location, ~/.tutor/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tutor", "config.toml"), nil
}

// Load reads configuration from the default path. A missing file is not an
// error; defaults apply. Environment variables override file values.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from the given path, applying defaults,
// environment overrides, and validation.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies TUTOR_* environment variables on top of the
// loaded configuration.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TUTOR_API_BASE"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TUTOR_CHAT_MODEL"); v != "" {
		c.API.ChatModel = v
	}
	if v := os.Getenv("TUTOR_CORRECTION_MODEL"); v != "" {
		c.API.CorrectionModel = v
	}
	if v := os.Getenv("TUTOR_CORRECTION_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.CorrectionTimeoutSecs = secs
		}
	}
	if v := os.Getenv("TUTOR_LANGUAGE"); v != "" {
		c.Tutor.Language = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", c.API.BaseURL, err)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.ChatModel == "" {
		return fmt.Errorf("api.chat_model must not be empty")
	}
	if c.API.CorrectionModel == "" {
		return fmt.Errorf("api.correction_model must not be empty")
	}
	if c.API.CorrectionTimeoutSecs <= 0 {
		return fmt.Errorf("api.correction_timeout_secs must be positive, got %d", c.API.CorrectionTimeoutSecs)
	}
	if c.Tutor.Language == "" {
		return fmt.Errorf("tutor.language must not be empty")
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	return nil
}

// Save writes the configuration to the given path in TOML format.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
