// Package config loads server settings from file, environment and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the listeners
type ServerConfig struct {
	Address           string          `mapstructure:"address"`
	MaxLineBytes      int             `mapstructure:"max_line_bytes"`
	OutboundQueueSize int             `mapstructure:"outbound_queue_size"`
	WebSocket         WebSocketConfig `mapstructure:"websocket"`
}

// WebSocketConfig controls the optional WebSocket listener
type WebSocketConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Path    string `mapstructure:"path"`
}

// GameConfig holds match rules
type GameConfig struct {
	PlayersPerMatch int    `mapstructure:"players_per_match"`
	StartingMoney   int    `mapstructure:"starting_money"`
	JailTurns       int    `mapstructure:"jail_turns"`
	BoardFile       string `mapstructure:"board_file"`
	DebugActions    bool   `mapstructure:"debug_actions"`
}

// LoggingConfig selects level and encoding
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const envPrefix = "MONOPOLY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("server.max_line_bytes", 64*1024)
	v.SetDefault("server.outbound_queue_size", 64)
	v.SetDefault("server.websocket.enabled", false)
	v.SetDefault("server.websocket.address", "127.0.0.1:8081")
	v.SetDefault("server.websocket.path", "/ws")

	v.SetDefault("game.players_per_match", 2)
	v.SetDefault("game.starting_money", 1500)
	v.SetDefault("game.jail_turns", 3)
	v.SetDefault("game.board_file", "")
	v.SetDefault("game.debug_actions", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// defaults alone always validate
		panic(err)
	}
	return cfg
}

// Load reads path if it exists, applies MONOPOLY_* environment overrides and validates.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Server.MaxLineBytes < 256 {
		errs = append(errs, fmt.Errorf("server.max_line_bytes must be at least 256, got %d", c.Server.MaxLineBytes))
	}
	if c.Server.OutboundQueueSize < 1 {
		errs = append(errs, fmt.Errorf("server.outbound_queue_size must be positive, got %d", c.Server.OutboundQueueSize))
	}
	if c.Server.WebSocket.Enabled {
		if c.Server.WebSocket.Address == "" {
			errs = append(errs, errors.New("server.websocket.address is required when websocket is enabled"))
		}
		if !strings.HasPrefix(c.Server.WebSocket.Path, "/") {
			errs = append(errs, fmt.Errorf("server.websocket.path must start with /, got %q", c.Server.WebSocket.Path))
		}
	}
	if c.Game.PlayersPerMatch < 2 {
		errs = append(errs, fmt.Errorf("game.players_per_match must be at least 2, got %d", c.Game.PlayersPerMatch))
	}
	if c.Game.StartingMoney < 0 {
		errs = append(errs, fmt.Errorf("game.starting_money must not be negative, got %d", c.Game.StartingMoney))
	}
	if c.Game.JailTurns < 1 {
		errs = append(errs, fmt.Errorf("game.jail_turns must be positive, got %d", c.Game.JailTurns))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
