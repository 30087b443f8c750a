package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Loader assembles a Config. Zero values are valid: no file, no .env file and
// the process environment.
type Loader struct {
	// ConfigPath is an optional TOML file. A missing file is not an error.
	ConfigPath string

	// EnvFile is an optional dotenv file. Process variables take precedence
	// over its entries. A missing file is not an error.
	EnvFile string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv LookupFunc
}

// Load reads the configuration from path, ./.env and the process environment.
func Load(path string) (*Config, error) {
	l := Loader{ConfigPath: path, EnvFile: ".env"}
	return l.Load()
}

// Load builds and validates the configuration.
func (l Loader) Load() (*Config, error) {
	lookup, err := l.lookup()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// Service bindings first so explicit settings override them.
	if raw, ok := lookup("VCAP_SERVICES"); ok && raw != "" {
		services, err := ParseServices(raw)
		if err != nil {
			return nil, err
		}
		cfg.applyServices(services)
	}

	if l.ConfigPath != "" {
		if _, err := toml.DecodeFile(l.ConfigPath, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", l.ConfigPath, err)
			}
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// lookup layers the process environment over the dotenv file.
func (l Loader) lookup() (LookupFunc, error) {
	processEnv := l.LookupEnv
	if processEnv == nil {
		processEnv = os.LookupEnv
	}

	if l.EnvFile == "" {
		return processEnv, nil
	}

	dotenv, err := godotenv.Read(l.EnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return processEnv, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", l.EnvFile, err)
	}

	return func(key string) (string, bool) {
		if v, ok := processEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// applyEnv overlays the environment variables the hosting platform and the
// sample .env use.
func (c *Config) applyEnv(lookup LookupFunc) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		c.ListenAddr = ":" + port
	}
	set("LISTEN_ADDR", &c.ListenAddr)
	set("WORKSPACE_ID", &c.WorkspaceID)
	set("STATIC_DIR", &c.StaticDir)
	set("LOG_FORMAT", &c.LogFormat)

	set("CONVERSATION_URL", &c.Conversation.URL)
	set("CONVERSATION_USERNAME", &c.Conversation.Username)
	set("CONVERSATION_PASSWORD", &c.Conversation.Password)
	set("CONVERSATION_VERSION_DATE", &c.Conversation.VersionDate)

	set("WEATHER_URL", &c.Weather.URL)

	durations := map[string]*time.Duration{
		"CONVERSATION_TIMEOUT": &c.Conversation.Timeout,
		"WEATHER_TIMEOUT":      &c.Weather.Timeout,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := lookup("DEBUG"); ok {
		c.Debug = v == "1" || v == "true"
	}

	return nil
}
