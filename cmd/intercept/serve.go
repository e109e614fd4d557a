package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/priceflex/intercept"
	httpAdapter "github.com/priceflex/intercept/internal/adapters/http"
	"github.com/priceflex/intercept/internal/logging"
	"github.com/priceflex/intercept/internal/observability"
	"github.com/priceflex/intercept/internal/presentation/tui"
	"github.com/priceflex/intercept/pkg/adapters/crmrest"
	"github.com/priceflex/intercept/pkg/adapters/file"
	"github.com/priceflex/intercept/pkg/adapters/memory"
	redisstore "github.com/priceflex/intercept/pkg/adapters/redis"
	"github.com/priceflex/intercept/pkg/crm"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/persistence/middleware"
	"github.com/priceflex/intercept/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo host HTTP server",
	Long: `Starts a demo host around the intercept engine, exposing the trigger API,
the lifecycle event stream and Prometheus metrics over HTTP. Records are
applied at startup and hot-reloaded when the repository changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := loadServeConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("port") {
			port, _ := cmd.Flags().GetString("port")
			cfg.Addr = ":" + port
		}
		if cmd.Flags().Changed("records") {
			cfg.Records, _ = cmd.Flags().GetString("records")
		}

		logger := buildLogger(cfg.Log)
		slog.SetDefault(logger)

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner()
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		reg.MustRegister(collectors.NewGoCollector())
		metrics := observability.NewMetrics(reg)
		events := httpAdapter.NewEventStream()

		engine, err := buildEngine(cfg, logger, domain.JoinHooks(metrics.Hooks(), events.Hooks()))
		if err != nil {
			fmt.Printf("Error initializing intercept: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := engine.ApplyRecords(ctx); err != nil {
			logger.Warn("records not applied", "error", err)
		}
		go watchRecords(ctx, engine, logger)

		handler := httpAdapter.NewHandler(httpAdapter.Config{
			Engine:  engine,
			Events:  events,
			Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		})

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting intercept server on %s\n", srv.Addr)
			fmt.Printf("Serving records from: %s\n", cfg.Records)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)
			cancel() // stops the record watcher

			// Give outstanding requests a deadline for completion.
			shutdownCtx, timeout := context.WithTimeout(context.Background(), 5*time.Second)
			defer timeout()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("intercept server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().StringP("config", "c", "", "Path to the YAML host config")
}

// serveConfig is the demo host configuration file.
type serveConfig struct {
	Addr    string        `yaml:"addr"`
	Records string        `yaml:"records"`
	Log     logConfig     `yaml:"log"`
	CRM     crmConfig     `yaml:"crm"`
	Session sessionConfig `yaml:"session"`
}

type logConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

type crmConfig struct {
	Backend       string            `yaml:"backend"` // standalone, salesforce, c4c, dynamics, sugarCRM
	BaseURL       string            `yaml:"baseUrl"`
	BearerToken   string            `yaml:"bearerToken"`
	BasicUser     string            `yaml:"basicUser"`
	BasicPassword string            `yaml:"basicPassword"`
	Headers       map[string]string `yaml:"headers,omitempty"`
}

type sessionConfig struct {
	Store string      `yaml:"store"` // memory, file, redis
	Path  string      `yaml:"path"`  // file store directory
	Redis redisConfig `yaml:"redis"`

	// EncryptionKey is a hex-encoded 32-byte key. When set, session
	// snapshots are sealed with AES-GCM before they reach the store.
	EncryptionKey string `yaml:"encryptionKey"`

	// MaskKeys are regexes; override keys matching one are masked at rest.
	MaskKeys []string `yaml:"maskKeys"`
}

type redisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func loadServeConfig(path string) (*serveConfig, error) {
	cfg := &serveConfig{
		Addr:    ":8080",
		Records: ".",
		Log:     logConfig{Level: "info", Format: "text"},
		CRM:     crmConfig{Backend: string(domain.BackendStandalone)},
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

func buildLogger(cfg logConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if strings.ToLower(cfg.Format) == "json" {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

// buildEngine assembles the demo host engine: records from the configured
// repository, a demo runner standing in for the hosted application, and the
// configured CRM backend.
func buildEngine(cfg *serveConfig, logger *slog.Logger, hooks domain.LifecycleHooks) (*intercept.Engine, error) {
	opts := []intercept.Option{
		intercept.WithLogger(logger),
		intercept.WithRecordsPath(cfg.Records),
		intercept.WithRunner(demoRunner(logger)),
		intercept.WithLifecycleHooks(hooks),
	}

	store, err := buildSessionStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts = append(opts, intercept.WithSessionStore(store))
	}

	if cfg.CRM.Backend != "" && cfg.CRM.Backend != string(domain.BackendStandalone) {
		backend, err := domain.ParseBackend(cfg.CRM.Backend)
		if err != nil {
			return nil, err
		}
		transport, err := crmrest.NewClient(crmrest.Config{
			BaseURL:       cfg.CRM.BaseURL,
			BearerToken:   cfg.CRM.BearerToken,
			BasicUser:     cfg.CRM.BasicUser,
			BasicPassword: cfg.CRM.BasicPassword,
			Headers:       cfg.CRM.Headers,
			Logger:        logger,
		})
		if err != nil {
			return nil, fmt.Errorf("crm transport: %w", err)
		}
		manager, err := crm.New(backend, crm.Config{
			BaseURL:   cfg.CRM.BaseURL,
			Transport: transport,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, intercept.WithCRM(manager))
	}

	return intercept.New(opts...)
}

// buildSessionStore assembles the configured session store, wrapped in the
// configured persistence middlewares. Returns nil when the engine default
// (in-memory, unwrapped) suffices.
func buildSessionStore(cfg sessionConfig) (ports.SessionStore, error) {
	var store ports.SessionStore
	switch strings.ToLower(cfg.Store) {
	case "", "memory":
		if cfg.EncryptionKey == "" && len(cfg.MaskKeys) == 0 {
			return nil, nil
		}
		store = memory.NewSessionStore()
	case "file":
		store = file.New(cfg.Path)
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisstore.NewSessionStore(client)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}

	// Encryption wraps the store first so masking runs on plaintext: what
	// gets sealed is the already-masked snapshot.
	if cfg.EncryptionKey != "" {
		key, err := hex.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("decode session encryption key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("session encryption key must be 32 bytes, got %d", len(key))
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
	}
	if len(cfg.MaskKeys) > 0 {
		store = middleware.NewPIIMiddleware(cfg.MaskKeys)(store)
	}
	return store, nil
}

// demoRunner stands in for the hosted application's built-in actions. It
// echoes the (possibly handler-substituted) input back as the action result.
func demoRunner(logger *slog.Logger) ports.RunnerFunc {
	return func(ctx context.Context, action domain.Action, input any) (any, error) {
		logger.Info("built-in action executed", "action", action)
		if input == nil {
			return map[string]any{"action": string(action), "status": "ok"}, nil
		}
		return input, nil
	}
}

// watchRecords re-applies records whenever the repository signals a change.
func watchRecords(ctx context.Context, engine *intercept.Engine, logger *slog.Logger) {
	ch, err := engine.Watch(ctx)
	if err != nil {
		logger.Debug("record watching unavailable", "error", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := engine.ApplyRecords(ctx); err != nil {
				logger.Error("record reload failed", "error", err)
				continue
			}
			logger.Info("records reloaded")
		}
	}
}
