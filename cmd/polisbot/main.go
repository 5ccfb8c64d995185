// ABOUTME: Entry point for polisbot
// ABOUTME: Wires config, logging, adapters, the engine, and the Matrix bridge

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quillcover/polisbot/internal/config"
	"github.com/quillcover/polisbot/internal/dedupe"
	"github.com/quillcover/polisbot/internal/engine"
	"github.com/quillcover/polisbot/internal/extract"
	"github.com/quillcover/polisbot/internal/narrative"
	"github.com/quillcover/polisbot/internal/policy"
	"github.com/quillcover/polisbot/internal/session"
)

const banner = `
             _ _     _           _
  _ __   ___ | (_)___| |__   ___ | |_
 | '_ \ / _ \| | / __| '_ \ / _ \| __|
 | |_) | (_) | | \__ \ |_) | (_) | |_
 | .__/ \___/|_|_|___/_.__/ \___/ \__|
 |_|
`

// getConfigPath returns the path to the polisbot config file.
// Priority: POLISBOT_CONFIG env var > XDG_CONFIG_HOME/polisbot/config.yaml > ~/.config/polisbot/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("POLISBOT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "polisbot", "config.yaml")
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; secrets referenced as ${VAR} in the config
	_ = godotenv.Load()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:     %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Homeserver: %s\n", cfg.Matrix.Homeserver)
	green.Print("    ▶ ")
	fmt.Printf("User:       %s\n", cfg.Matrix.UserID)
	green.Print("    ▶ ")
	fmt.Printf("Narrative:  %s\n", cfg.Narrative.Provider)
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := os.MkdirAll(cfg.Bot.PolicyDir, 0755); err != nil {
		return fmt.Errorf("creating policy directory: %w", err)
	}

	generator, err := buildGenerator(cfg, logger)
	if err != nil {
		return fmt.Errorf("configuring narrative generator: %w", err)
	}

	sessions := session.NewStore()
	extractor := extract.NewCannedClient(cfg.Extraction.Latency, logger)
	assembler := policy.NewAssembler(nil, nil)
	eng := engine.New(sessions, extractor, generator, assembler, cfg.Bot.ResetCommand, logger)

	seen := dedupe.New(dedupeTTL, dedupeMaxSize)
	defer seen.Close()

	if cfg.Metrics.Enabled {
		go serveMetrics(ctx, cfg.Metrics.Addr, logger)
	}

	bridge, err := NewBridge(cfg, eng, seen, logger)
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}

	logger.Info("starting polisbot")
	return bridge.Run(ctx)
}

// Dedupe window for redelivered Matrix events.
const (
	dedupeTTL     = 10 * time.Minute
	dedupeMaxSize = 10000
)

// buildGenerator selects the narrative backend from config and wraps it with
// the topic cache when a TTL is configured.
func buildGenerator(cfg *config.Config, logger *slog.Logger) (narrative.Generator, error) {
	var gen narrative.Generator
	switch cfg.Narrative.Provider {
	case "gemini":
		gen = narrative.NewGeminiClient(
			cfg.Narrative.Gemini.BaseURL,
			cfg.Narrative.Gemini.Model,
			cfg.Narrative.Gemini.APIKey,
			logger)
	case "openai":
		client, err := narrative.NewOpenAIClient(
			cfg.Narrative.OpenAI.Endpoint,
			cfg.Narrative.OpenAI.APIKey,
			cfg.Narrative.OpenAI.Deployment,
			logger)
		if err != nil {
			return nil, err
		}
		gen = client
	default:
		gen = narrative.Disabled{}
	}

	if cfg.Narrative.CacheTTL > 0 {
		gen = narrative.NewCachedGenerator(gen, cfg.Narrative.CacheTTL)
	}
	return gen, nil
}

// serveMetrics runs the prometheus endpoint until the context is cancelled.
func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics endpoint failed", "error", err)
	}
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var logLevel slog.Level
	switch cfg.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
