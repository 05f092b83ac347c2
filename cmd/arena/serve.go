package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-arena/internal/arena"
	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/platform/tui"
	"github.com/vovakirdan/snake-arena/internal/session"
	"github.com/vovakirdan/snake-arena/internal/storage"
	"github.com/vovakirdan/snake-arena/internal/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

var (
	flagHTTPAddr string
	flagSSHAddr  string
	flagNoSSH    bool
	flagLogLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arena servers",
	Long: `Start the HTTP/WebSocket server and, unless disabled, the SSH server.
Both feed the same arena: browser and terminal players see each other.

Endpoints:
  GET /              - banner
  GET /top-scores    - leaderboard JSON
  GET /healthz       - liveness and player count
  GET /ws/{id}       - WebSocket game connection

Examples:
  arena serve                         # :8000 HTTP, :23234 SSH
  arena serve --http :9000 --no-ssh
  arena serve --db ./scores.db --log-level debug

Terminal players connect with:
  ssh -t localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (overrides config)")
	serveCmd.Flags().BoolVar(&flagNoSSH, "no-ssh", false, "Disable the SSH server")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "arena",
		Level:           cfg.LogLevel(),
	})

	arenaCfg, err := cfg.ArenaSettings()
	if err != nil {
		return err
	}
	a, err := arena.New(arenaCfg)
	if err != nil {
		return err
	}

	manager := session.NewManager(a, session.ManagerConfig{
		LeaderboardSize: cfg.Leaderboard.Size,
	}, logger.WithPrefix("session"))

	// The game still runs without a leaderboard.
	store, err := storage.Open(cfg.Leaderboard.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", cfg.Leaderboard.DBPath, "err", err)
	} else {
		defer store.Close()
		store.SetTopN(cfg.Leaderboard.Size)
		manager.SetScoreKeeper(store)
	}

	wsServer := websocket.NewServer(manager, websocket.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         logger.WithPrefix("ws"),
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           wsServer,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sshServer *tui.SSHServer
	if cfg.SSH.Enabled {
		sshServer, err = tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.SSH.Addr,
			HostKeyPath: config.ExpandPath(cfg.SSH.HostKeyPath),
			IdleTimeout: cfg.SSH.IdleTimeout,
			Tick:        cfg.SSH.Tick,
		}, manager, logger.WithPrefix("ssh"))
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("starting HTTP server",
			"address", cfg.HTTP.Addr,
			"board", fmt.Sprintf("%dx%d", arenaCfg.Board.Width, arenaCfg.Board.Height),
			"wrap", arenaCfg.Wrap,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	if sshServer != nil {
		go func() {
			if err := sshServer.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("ssh server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case runErr = <-errCh:
		logger.Error("server failed", "err", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	wsServer.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}
	if sshServer != nil {
		if err := sshServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("ssh shutdown", "err", err)
		}
	}
	return runErr
}

// applyServeFlags lets command-line flags override the config file.
func applyServeFlags(cfg *config.ServerConfig) {
	if flagHTTPAddr != "" {
		cfg.HTTP.Addr = flagHTTPAddr
	}
	if flagSSHAddr != "" {
		cfg.SSH.Addr = flagSSHAddr
	}
	if flagNoSSH {
		cfg.SSH.Enabled = false
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
}
