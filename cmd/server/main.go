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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nandanugg/silentzone/config"
	"github.com/nandanugg/silentzone/migrations"
	"github.com/nandanugg/silentzone/module/core"
)

const (
	Version = "0.1.0"
	appName = "silentzone"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Switches a device's ringer to silent inside a saved zone",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	var autoMigrate bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, MQTT subscriber and geofence monitor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(configPath, logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return serve(cmd.Context(), cfg, logger, autoMigrate)
		},
	}
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Apply pending migrations before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(configPath, logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return migrate(cmd.Context(), cfg, logger)
		},
	}

	cmd.AddCommand(serveCmd, migrateCmd, &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(*cobra.Command, []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func setup(configPath, logLevel string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func migrate(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Info("memory store has no schema")
		return nil
	}

	db, err := config.NewDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Apply(ctx, db, cfg.StoreDriver); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied", zap.String("driver", cfg.StoreDriver))
	return nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, autoMigrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.NewDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
		if autoMigrate {
			if err := migrations.Apply(ctx, db, cfg.StoreDriver); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
	}

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg, logger.Named("mqtt"))
	if err != nil {
		return err
	}
	defer mqttClient.Disconnect(250)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	coreModule, err := core.Build(ctx, db, amqpConn, mqttClient, reg, logger, core.Options{
		StoreDriver:     cfg.StoreDriver,
		DeviceID:        cfg.DeviceID,
		NominatimURL:    cfg.NominatimURL,
		StatusRefresh:   cfg.StatusRefresh,
		SampleMaxAge:    cfg.SampleMaxAge,
		SampleBuffer:    cfg.SampleBuffer,
		AssumeDNDAccess: cfg.AssumeDNDAccess,
	})
	if err != nil {
		return fmt.Errorf("core module: %w", err)
	}

	if err := coreModule.StartSubscribers(ctx); err != nil {
		return fmt.Errorf("start subscribers: %w", err)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	var dbPinger interface {
		PingContext(ctx context.Context) error
	}
	if db != nil {
		dbPinger = db
	}
	config.NewHealthChecker(dbPinger, cfg.StoreDriver, amqpConn, mqttClient).Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	coreModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("device_id", cfg.DeviceID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return coreModule.Run(ctx)
	})

	err = g.Wait()
	logger.Info("shutting down")
	return err
}
