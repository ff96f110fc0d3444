package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nandanugg/silentzone/config"
	"github.com/nandanugg/silentzone/module/core/exchange"
)

type transition struct {
	ID        string  `json:"id"`
	DeviceID  string  `json:"device_id"`
	Event     string  `json:"event"`
	Distance  float64 `json:"distance_m"`
	Commanded bool    `json:"commanded"`
}

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "event_listener",
		Short:        "Print zone transitions published by the server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listen(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listen(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := exchange.Declare(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(exchange.TransitionQueue, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("waiting for zone transitions", zap.String("queue", exchange.TransitionQueue))

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			var t transition
			if err := json.Unmarshal(msg.Body, &t); err != nil {
				logger.Warn("invalid transition", zap.Error(err))
				continue
			}
			logger.Info(t.Event,
				zap.String("id", t.ID),
				zap.String("device_id", t.DeviceID),
				zap.Float64("distance_m", t.Distance),
				zap.Bool("commanded", t.Commanded),
			)
		}
	}
}
