package config

import (
	"encoding/json"
	"fmt"
)

// Service binding keys inside VCAP_SERVICES.
const (
	WeatherServiceKey      = "weatherinsights"
	ConversationServiceKey = "conversation"
)

// ServiceBinding is one bound service instance.
type ServiceBinding struct {
	Name        string      `json:"name"`
	Label       string      `json:"label"`
	Plan        string      `json:"plan"`
	Credentials Credentials `json:"credentials"`
}

// Credentials are the connection details of a bound service.
type Credentials struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
}

// Services is the decoded VCAP_SERVICES blob, keyed by service label.
type Services map[string][]ServiceBinding

// ParseServices decodes a VCAP_SERVICES value.
func ParseServices(raw string) (Services, error) {
	var services Services
	if err := json.Unmarshal([]byte(raw), &services); err != nil {
		return nil, fmt.Errorf("parse VCAP_SERVICES: %w", err)
	}
	return services, nil
}

// First returns the credentials of the first instance bound under key.
func (s Services) First(key string) (Credentials, bool) {
	bindings := s[key]
	if len(bindings) == 0 {
		return Credentials{}, false
	}
	return bindings[0].Credentials, true
}

// applyServices fills connection settings from the bindings. It runs before
// the file and environment layers, so explicit settings win.
func (c *Config) applyServices(services Services) {
	if creds, ok := services.First(WeatherServiceKey); ok && creds.URL != "" {
		c.Weather.URL = creds.URL
	}

	if creds, ok := services.First(ConversationServiceKey); ok {
		if creds.URL != "" {
			c.Conversation.URL = creds.URL
		}
		if creds.Username != "" {
			c.Conversation.Username = creds.Username
		}
		if creds.Password != "" {
			c.Conversation.Password = creds.Password
		}
	}
}
