package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/loomworks/tubewatch/internal/memstore"
)

const (
	DefaultHeartbeatInterval = 30
	MinHeartbeatInterval     = 5
	MaxHeartbeatInterval     = 120
)

type Config struct {
	YouTube   YouTubeConfig   `json:"youtube"`
	Memory    MemoryConfig    `json:"memory"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
	Notify    NotifyConfig    `json:"notify"`
}

type YouTubeConfig struct {
	APIKey string `json:"apiKey"`
}

type MemoryConfig struct {
	Path string `json:"path"`
}

type HeartbeatConfig struct {
	// AutoStart arms the heartbeat on serve startup instead of waiting for
	// a heartbeat tool call.
	AutoStart       bool `json:"autoStart"`
	IntervalMinutes int  `json:"intervalMinutes"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

type TelegramConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token,omitempty"`
	ChatID  int64  `json:"chatId,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Memory: MemoryConfig{
			Path: memstore.DefaultFile,
		},
		Heartbeat: HeartbeatConfig{
			IntervalMinutes: DefaultHeartbeatInterval,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".tubewatch")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if key := os.Getenv("TUBEWATCH_YOUTUBE_API_KEY"); key != "" {
		cfg.YouTube.APIKey = key
	}
	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" && cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = key
	}
	if path := os.Getenv("TUBEWATCH_MEMORY_PATH"); path != "" {
		cfg.Memory.Path = path
	}
	if interval := os.Getenv("TUBEWATCH_HEARTBEAT_INTERVAL"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil {
			cfg.Heartbeat.IntervalMinutes = parsed
		}
	}
	if token := os.Getenv("TUBEWATCH_TELEGRAM_TOKEN"); token != "" {
		cfg.Notify.Telegram.Token = token
		cfg.Notify.Telegram.Enabled = true
	}
	if chatID := os.Getenv("TUBEWATCH_TELEGRAM_CHAT_ID"); chatID != "" {
		if parsed, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			cfg.Notify.Telegram.ChatID = parsed
		}
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
