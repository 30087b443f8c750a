// Package config loads the relay configuration once at start-up from defaults,
// an optional TOML file, an optional .env file, the process environment and
// the platform's VCAP_SERVICES service bindings, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/papercomputeco/weatherrelay/pkg/conversation"
)

// WorkspacePlaceholder is the value shipped in sample configuration. It counts
// as "not configured".
const WorkspacePlaceholder = "<workspace-id>"

// Config is the relay configuration.
type Config struct {
	// Address to listen on (e.g., ":3000")
	ListenAddr string `toml:"listen"`

	// WorkspaceID selects the trained dialog. It is checked per request, not at
	// start-up, so the UI can explain how to set it.
	WorkspaceID string `toml:"workspace_id"`

	// StaticDir, when set, is served at / (the chat UI).
	StaticDir string `toml:"static_dir"`

	Debug     bool   `toml:"debug"`
	LogFormat string `toml:"log_format"`

	Conversation ConversationConfig `toml:"conversation"`
	Weather      WeatherConfig      `toml:"weather"`
}

// ConversationConfig describes the conversation service.
type ConversationConfig struct {
	URL         string        `toml:"url"`
	Username    string        `toml:"username"`
	Password    string        `toml:"password"`
	VersionDate string        `toml:"version_date"`
	Timeout     time.Duration `toml:"timeout"`
}

// WeatherConfig describes the weather service.
type WeatherConfig struct {
	// URL is the service base URL, credentials included in its userinfo.
	URL     string        `toml:"url"`
	Timeout time.Duration `toml:"timeout"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:  ":3000",
		WorkspaceID: WorkspacePlaceholder,
		LogFormat:   "console",
		Conversation: ConversationConfig{
			URL:         conversation.DefaultURL,
			VersionDate: conversation.DefaultVersionDate,
		},
	}
}

// WorkspaceConfigured reports whether a real workspace id is set.
func (c *Config) WorkspaceConfigured() bool {
	return IsWorkspaceID(c.WorkspaceID)
}

// IsWorkspaceID reports whether id is neither empty nor the placeholder.
func IsWorkspaceID(id string) bool {
	return id != "" && id != WorkspacePlaceholder
}

// ConversationClientConfig adapts the section for conversation.NewClient.
func (c *Config) ConversationClientConfig() conversation.ClientConfig {
	return conversation.ClientConfig{
		URL:         c.Conversation.URL,
		Username:    c.Conversation.Username,
		Password:    c.Conversation.Password,
		VersionDate: c.Conversation.VersionDate,
		Timeout:     c.Conversation.Timeout,
	}
}

// Validate checks the values the relay cannot start without.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address is required")
	}

	if c.Weather.URL == "" {
		return errors.New("weather service URL is required: bind a weatherinsights service or set WEATHER_URL")
	}
	if u, err := url.Parse(c.Weather.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid weather service URL %q", redact(c.Weather.URL))
	}

	if c.Conversation.URL == "" {
		return errors.New("conversation service URL is required")
	}
	if _, err := url.Parse(c.Conversation.URL); err != nil {
		return fmt.Errorf("invalid conversation service URL: %w", err)
	}

	if c.Conversation.Timeout < 0 || c.Weather.Timeout < 0 {
		return errors.New("timeouts must be non-negative")
	}

	return nil
}

// redact hides userinfo so credentials do not end up in logs.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}

// RedactedWeatherURL is the weather URL safe to log.
func (c *Config) RedactedWeatherURL() string {
	return redact(c.Weather.URL)
}
