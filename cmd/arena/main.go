// arena is a multiplayer snake server: many players share one board over
// WebSocket or SSH, and final scores go to a persistent leaderboard.
//
// Usage:
//
//	arena serve              - Start the HTTP/WebSocket and SSH servers
//	arena scores             - Show the leaderboard
//	arena config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>  - Config file (default: search ~/.snake-arena, ./configs)
//	--db <path>      - Leaderboard database path, overrides the config
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-arena/internal/config"
)

// envConfig names a config file when --config is not given.
const envConfig = "ARENA_CONFIG"

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
)

func main() {
	// A missing .env is normal; only report files that exist but do not parse.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: cannot load .env: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Snake Arena - multiplayer snake server",
	Long: `Snake Arena runs one shared snake board. Browsers connect over
WebSocket, terminals over SSH, and every round's final score is offered
to a persistent top-10 leaderboard.

Available commands:
  serve    - Start the servers
  scores   - View high scores
  config   - Print the effective configuration

Examples:
  arena serve
  arena serve --http :9000 --no-ssh
  arena scores -i
  ARENA_CONFIG=./server.yaml arena config`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config file (env "+envConfig+")")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the config file from flags and environment, then
// applies the global overrides.
func loadConfig() (config.ServerConfig, error) {
	path := flagConfigPath
	if path == "" {
		path = os.Getenv(envConfig)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Leaderboard.DBPath = flagDBPath
	}
	return cfg, nil
}
