// Monopoly Client - Main Entry Point
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"monopoly/internal/client"
)

var (
	version    = "1.0.0"
	serverAddr = flag.String("server", "localhost:8080", "Server address (host:port)")
	logLevel   = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	logFile    = flag.String("log-file", "", "Write logs to this file instead of stderr")
)

func main() {
	flag.Parse()

	logger, err := initLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting monopoly client", zap.String("version", version), zap.String("server", *serverAddr))

	gameClient := client.NewClient(*serverAddr, os.Stdin, nil, logger)
	setupGracefulShutdown(gameClient, logger)

	if err := gameClient.Start(); err != nil {
		logger.Error("client stopped", zap.Error(err))
		os.Exit(1)
	}
}

func initLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(*logLevel)
	if err != nil {
		return nil, err
	}
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if *logFile != "" {
		zapCfg.OutputPaths = []string{*logFile}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapCfg.Build()
}

// setupGracefulShutdown closes the connection on interrupt so the server frees the seat
func setupGracefulShutdown(gameClient *client.Client, logger *zap.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("received shutdown signal, closing client")
		gameClient.Close()
		os.Exit(0)
	}()
}
