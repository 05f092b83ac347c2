package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/snake-arena/internal/arena"
)

//go:embed defaults/server.yaml
var defaultServerYAML []byte

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultServerYAML...)
}

// DefaultServerConfig returns the hardcoded default configuration.
// Kept in sync with defaults/server.yaml.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTP: HTTPConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"*"},
		},
		SSH: SSHConfig{
			Enabled:     true,
			Addr:        ":23234",
			HostKeyPath: "~/.snake-arena/ssh_host_ed25519",
			IdleTimeout: 10 * time.Minute,
			Tick:        150 * time.Millisecond,
		},
		Arena: ArenaConfig{
			Width:  arena.DefaultWidth,
			Height: arena.DefaultHeight,
			Wrap:   "bounded",
			SpawnX: arena.DefaultSpawnX,
		},
		Leaderboard: LeaderboardConfig{
			DBPath: "~/.snake-arena/scores.db",
			Size:   10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
