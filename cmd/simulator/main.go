package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nandanugg/silentzone/module/core/topic"
)

type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

type dndMessage struct {
	Granted bool `json:"granted"`
}

type ringerMessage struct {
	Mode     string `json:"mode"`
	IssuedAt int64  `json:"issued_at"`
}

// metres per degree of latitude
const metersPerDegree = 111320.0

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		broker   string
		deviceID string
		lat, lon float64
		reach    float64
		steps    int
		interval time.Duration
		granted  bool
	)

	cmd := &cobra.Command{
		Use:   "simulator",
		Short: "Walk a fake device in and out of a silent zone over MQTT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := mqtt.NewClientOptions().
				AddBroker(broker).
				SetClientID("silentzone-simulator-" + deviceID)
			client := mqtt.NewClient(opts)
			if token := client.Connect(); token.Wait() && token.Error() != nil {
				return fmt.Errorf("mqtt connect: %w", token.Error())
			}
			defer client.Disconnect(250)

			return simulate(ctx, client, logger, deviceID, lat, lon, reach, steps, interval, granted)
		},
	}

	defaultBroker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		defaultBroker = v
	}
	cmd.Flags().StringVar(&broker, "broker", defaultBroker, "MQTT broker URL")
	cmd.Flags().StringVar(&deviceID, "device", "default", "Device ID")
	cmd.Flags().Float64Var(&lat, "lat", 10.0, "Zone centre latitude")
	cmd.Flags().Float64Var(&lon, "lon", 76.0, "Zone centre longitude")
	cmd.Flags().Float64Var(&reach, "reach", 200, "Furthest distance from the centre in metres")
	cmd.Flags().IntVar(&steps, "steps", 8, "Samples per leg of the walk")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Delay between samples")
	cmd.Flags().BoolVar(&granted, "dnd", true, "Report DND access as granted")

	return cmd
}

func simulate(ctx context.Context, client mqtt.Client, logger *zap.Logger, deviceID string, lat, lon, reach float64, steps int, interval time.Duration, granted bool) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive")
	}

	dnd, _ := json.Marshal(dndMessage{Granted: granted})
	if token := client.Publish(topic.DND(deviceID), 1, true, dnd); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish dnd: %w", token.Error())
	}

	token := client.Subscribe(topic.Ringer(deviceID), 1, func(_ mqtt.Client, msg mqtt.Message) {
		var cmd ringerMessage
		if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
			logger.Warn("invalid ringer command", zap.Error(err))
			return
		}
		logger.Info("ringer command received", zap.String("mode", cmd.Mode))
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe ringer: %w", token.Error())
	}

	logger.Info("walking", zap.String("device_id", deviceID), zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Float64("reach_m", reach))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// one round trip is 2*steps samples: out to reach, then back to the centre
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
		}

		pos := i % (2 * steps)
		if pos > steps {
			pos = 2*steps - pos
		}
		offset := reach * float64(pos) / float64(steps)

		msg := locationMessage{
			Latitude:  lat + offset/metersPerDegree,
			Longitude: lon,
			Timestamp: time.Now().Unix(),
		}
		payload, _ := json.Marshal(msg)

		token := client.Publish(topic.Location(deviceID), 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			logger.Warn("publish location", zap.Error(err))
			continue
		}
		logger.Debug("published", zap.Float64("offset_m", math.Round(offset)), zap.ByteString("payload", payload))
	}
}
