// Monopoly Server - Main Entry Point
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"monopoly/internal/config"
	"monopoly/internal/game"
	"monopoly/internal/server"
)

var (
	version    = "1.0.0"
	buildTime  = "dev"
	configPath = flag.String("config", "config/config.yaml", "Config file path")
	address    = flag.String("address", "", "Override server.address")
	logLevel   = flag.String("log-level", "", "Override logging.level (debug, info, warn, error)")
	logFile    = flag.String("log-file", "", "Also write logs to this file")
	help       = flag.Bool("help", false, "Show help information")
	ver        = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *help {
		showHelp()
		return
	}
	if *ver {
		showVersion()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting monopoly server", zap.String("version", version), zap.String("build_time", buildTime))

	board := game.ClassicBoard()
	if cfg.Game.BoardFile != "" {
		board, err = game.LoadBoard(cfg.Game.BoardFile)
		if err != nil {
			logger.Fatal("failed to load board", zap.String("path", cfg.Game.BoardFile), zap.Error(err))
		}
	}
	logger.Info("board ready", zap.Int("tiles", len(board)), zap.String("source", boardSource(cfg.Game.BoardFile)))

	registry := server.NewRegistry(server.RegistryConfig{
		MatchSize: cfg.Game.PlayersPerMatch,
		Board:     board,
		Rules: game.Rules{
			JailTurns:    cfg.Game.JailTurns,
			DebugActions: cfg.Game.DebugActions,
		},
	}, logger)
	gameServer := server.NewServer(cfg, registry, logger)

	if err := gameServer.Listen(); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}

	done := setupGracefulShutdown(gameServer, logger)

	if err := gameServer.Serve(); err != nil {
		logger.Fatal("server stopped accepting", zap.Error(err))
	}
	<-done
}

func boardSource(path string) string {
	if path == "" {
		return "classic"
	}
	return path
}

// initLogger builds a zap logger from the logging section
func initLogger(cfg config.LoggingConfig, file string) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if file != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, file)
	}

	return zapCfg.Build()
}

// setupGracefulShutdown stops the server on SIGINT or SIGTERM; the returned channel closes once it has
func setupGracefulShutdown(gameServer *server.Server, logger *zap.Logger) <-chan struct{} {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		sig := <-c
		logger.Info("received shutdown signal, stopping server", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := gameServer.Stop(ctx); err != nil {
			logger.Error("unclean shutdown", zap.Error(err))
		}
	}()
	return done
}

func showHelp() {
	fmt.Printf(`Monopoly Server v%s

USAGE:
    %s [OPTIONS]

OPTIONS:
    -config string       Config file path (default "config/config.yaml")
    -address string      Listen address, overrides server.address
    -log-level string    debug, info, warn or error, overrides logging.level
    -log-file string     Also write logs to this file
    -help                Show this help message
    -version             Show version information

ENVIRONMENT:
    Every config key can be set as MONOPOLY_<SECTION>_<KEY>, for example
    MONOPOLY_GAME_PLAYERS_PER_MATCH=4 or MONOPOLY_SERVER_WEBSOCKET_ENABLED=true

EXAMPLES:
    # Start with defaults on 127.0.0.1:8080
    %s

    # Four-player matches on all interfaces
    MONOPOLY_GAME_PLAYERS_PER_MATCH=4 %s -address 0.0.0.0:8080

    # Debug logging
    %s -log-level debug
`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func showVersion() {
	fmt.Printf("Monopoly Server\nVersion: %s\nBuild Time: %s\n", version, buildTime)
}
