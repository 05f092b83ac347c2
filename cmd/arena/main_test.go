package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/snake-arena/internal/config"
)

func TestApplyServeFlags(t *testing.T) {
	t.Cleanup(func() {
		flagHTTPAddr, flagSSHAddr, flagNoSSH, flagLogLevel = "", "", false, ""
	})

	cfg := config.DefaultServerConfig()
	flagHTTPAddr = ":9000"
	flagNoSSH = true
	flagLogLevel = "debug"
	applyServeFlags(&cfg)

	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("http.addr = %q", cfg.HTTP.Addr)
	}
	if cfg.SSH.Enabled {
		t.Error("ssh still enabled")
	}
	if cfg.SSH.Addr != ":23234" {
		t.Errorf("ssh.addr changed without flag: %q", cfg.SSH.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("arena:\n  width: 12\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	t.Setenv(envConfig, path)
	flagConfigPath = ""
	flagDBPath = "/tmp/override.db"
	t.Cleanup(func() { flagDBPath = "" })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	if cfg.Arena.Width != 12 {
		t.Errorf("width = %d, want 12", cfg.Arena.Width)
	}
	if cfg.Leaderboard.DBPath != "/tmp/override.db" {
		t.Errorf("db_path = %q", cfg.Leaderboard.DBPath)
	}
}

func TestConfigCommandDefaults(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "--defaults"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		flagConfigDefaults = false
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(out.String(), "arena:") {
		t.Errorf("output missing arena section:\n%s", out.String())
	}
}
