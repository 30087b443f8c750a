package relay

import "github.com/papercomputeco/weatherrelay/pkg/config"

// Config is the relay server configuration.
type Config struct {
	// Address to listen on (e.g., ":3000")
	ListenAddr string

	// WorkspaceID is the dialog workspace messages are sent to.
	// Empty or config.WorkspacePlaceholder means not configured.
	WorkspaceID string

	// StaticDir is served at / when set.
	StaticDir string
}

// NewConfig narrows the process configuration to what the server reads.
func NewConfig(cfg *config.Config) Config {
	return Config{
		ListenAddr:  cfg.ListenAddr,
		WorkspaceID: cfg.WorkspaceID,
		StaticDir:   cfg.StaticDir,
	}
}

func (c Config) workspaceConfigured() bool {
	return config.IsWorkspaceID(c.WorkspaceID)
}
