// Package config provides YAML-based server configuration loading and
// validation for the snake arena.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/arena"
	"github.com/vovakirdan/snake-arena/internal/core"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// ServerConfig contains all configuration for the arena server.
type ServerConfig struct {
	HTTP        HTTPConfig        `yaml:"http"`
	SSH         SSHConfig         `yaml:"ssh"`
	Arena       ArenaConfig       `yaml:"arena"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Log         LogConfig         `yaml:"log"`
}

// HTTPConfig configures the HTTP and WebSocket listener.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SSHConfig configures the terminal listener.
type SSHConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Addr        string        `yaml:"addr"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	Tick        time.Duration `yaml:"tick"` // Auto-move interval for terminal players
}

// ArenaConfig describes the shared board.
type ArenaConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Wrap   string `yaml:"wrap"` // bounded or toroidal
	SpawnX int    `yaml:"spawn_x"`
	Seed   int64  `yaml:"seed"`
}

// LeaderboardConfig configures score persistence.
type LeaderboardConfig struct {
	DBPath string `yaml:"db_path"`
	Size   int    `yaml:"size"`
}

// LogConfig configures the server logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate checks the config for values the server cannot start with.
func (c ServerConfig) Validate() error {
	if c.HTTP.Addr == "" {
		return invalid("http.addr is empty")
	}
	if c.SSH.Enabled {
		if c.SSH.Addr == "" {
			return invalid("ssh.addr is empty")
		}
		if c.SSH.Tick <= 0 {
			return invalid("ssh.tick must be positive, got %s", c.SSH.Tick)
		}
	}
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return invalid("arena size %dx%d must be positive", c.Arena.Width, c.Arena.Height)
	}
	if c.Arena.SpawnX < 0 || c.Arena.SpawnX >= c.Arena.Width {
		return invalid("arena.spawn_x %d is outside width %d", c.Arena.SpawnX, c.Arena.Width)
	}
	if _, err := core.ParseWrapPolicy(c.Arena.Wrap); err != nil {
		return invalid("arena.wrap: %v", err)
	}
	if c.Leaderboard.DBPath == "" {
		return invalid("leaderboard.db_path is empty")
	}
	if c.Leaderboard.Size <= 0 {
		return invalid("leaderboard.size must be positive, got %d", c.Leaderboard.Size)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	return nil
}

// ArenaSettings converts the arena section into arena.Config.
func (c ServerConfig) ArenaSettings() (arena.Config, error) {
	wrap, err := core.ParseWrapPolicy(c.Arena.Wrap)
	if err != nil {
		return arena.Config{}, fmt.Errorf("config: %w", err)
	}
	return arena.Config{
		Board:  core.Board{Width: c.Arena.Width, Height: c.Arena.Height},
		Wrap:   wrap,
		SpawnX: c.Arena.SpawnX,
		Seed:   c.Arena.Seed,
	}, nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c ServerConfig) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config: %s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
}
