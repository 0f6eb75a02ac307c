package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/tomz197/space-shooter/internal/persist"
)

// Config is the process configuration shared by the commands. Values come
// from defaults, then an optional TOML file, then environment variables.
type Config struct {
	SSH     SSHConfig      `toml:"ssh"`
	Web     WebConfig      `toml:"web"`
	Storage persist.Config `toml:"storage"`
	Log     LogConfig      `toml:"log"`
}

type SSHConfig struct {
	Host            string        `toml:"host"`
	Port            string        `toml:"port"`
	HostKeyPath     string        `toml:"host_key_path"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"` // wait for players to leave
}

type WebConfig struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	DisplayHost string `toml:"display_host"` // SSH host shown on the landing page

	// Embedded makes the SSH server also serve the web endpoints, so the
	// page can show the live lobby.
	Embedded bool `toml:"embedded"`
}

type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json, logfmt
}

// Load reads the TOML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// FromEnv loads the file named by SHOOTER_CONFIG, if any.
func FromEnv() (*Config, error) {
	return Load(GetEnv("SHOOTER_CONFIG", ""))
}

func defaults() *Config {
	return &Config{
		SSH: SSHConfig{
			Host:            "::",
			Port:            "2222",
			HostKeyPath:     "/app/keys/host_key",
			ShutdownTimeout: 15 * time.Second,
		},
		Web: WebConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: "your-server.com",
		},
		Storage: persist.Config{
			Backend: persist.BackendFile,
			Path:    "data/shooter.yaml",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.SSH.Host = GetEnv("SSH_HOST", cfg.SSH.Host)
	cfg.SSH.Port = GetEnv("SSH_PORT", cfg.SSH.Port)
	cfg.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", cfg.SSH.HostKeyPath)

	cfg.Web.Host = GetEnv("WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = GetEnv("WEB_PORT", cfg.Web.Port)
	cfg.Web.DisplayHost = GetEnv("SSH_DISPLAY_HOST", cfg.Web.DisplayHost)
	if v, err := strconv.ParseBool(GetEnv("WEB_EMBEDDED", "")); err == nil {
		cfg.Web.Embedded = v
	}

	cfg.Storage.Backend = GetEnv("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Path = GetEnv("STORAGE_PATH", cfg.Storage.Path)
	cfg.Storage.DSN = GetEnv("DATABASE_URL", cfg.Storage.DSN)

	cfg.Log.Level = GetEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = GetEnv("LOG_FORMAT", cfg.Log.Format)
}

// NewLogger builds a structured logger writing to w. Unknown levels fall
// back to info.
func (c LogConfig) NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	switch strings.ToLower(c.Format) {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}
