package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loomworks/tubewatch/internal/memstore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Memory.Path != memstore.DefaultFile {
		t.Errorf("memory path = %q, want %q", cfg.Memory.Path, memstore.DefaultFile)
	}
	if cfg.Heartbeat.IntervalMinutes != DefaultHeartbeatInterval {
		t.Errorf("interval = %d, want %d", cfg.Heartbeat.IntervalMinutes, DefaultHeartbeatInterval)
	}
	if cfg.Notify.Telegram.Enabled {
		t.Error("telegram should default to disabled")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // no config file on disk
	t.Setenv("TUBEWATCH_YOUTUBE_API_KEY", "key-a")
	t.Setenv("YOUTUBE_API_KEY", "key-b")
	t.Setenv("TUBEWATCH_MEMORY_PATH", "/tmp/state.json")
	t.Setenv("TUBEWATCH_TELEGRAM_TOKEN", "tok")
	t.Setenv("TUBEWATCH_TELEGRAM_CHAT_ID", "99")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.YouTube.APIKey != "key-a" {
		t.Errorf("api key = %q, TUBEWATCH_ prefix should win", cfg.YouTube.APIKey)
	}
	if cfg.Memory.Path != "/tmp/state.json" {
		t.Errorf("memory path = %q", cfg.Memory.Path)
	}
	if !cfg.Notify.Telegram.Enabled || cfg.Notify.Telegram.ChatID != 99 {
		t.Errorf("telegram = %+v, want enabled with chat 99", cfg.Notify.Telegram)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.YouTube.APIKey = "persisted-key"
	cfg.Heartbeat.IntervalMinutes = 60
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(ConfigDir(), "config.json")); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if loaded.YouTube.APIKey != "persisted-key" {
		t.Errorf("api key = %q", loaded.YouTube.APIKey)
	}
	if loaded.Heartbeat.IntervalMinutes != 60 {
		t.Errorf("interval = %d, want 60", loaded.Heartbeat.IntervalMinutes)
	}
}

func TestLoadConfig_CorruptFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := os.MkdirAll(ConfigDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte("{bad"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Error("corrupt config should be an error")
	}
}
