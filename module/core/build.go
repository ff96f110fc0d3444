package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/clock"
	handler "github.com/nandanugg/silentzone/module/core/internal/handler/http"
	"github.com/nandanugg/silentzone/module/core/internal/handler/subscriber"
	"github.com/nandanugg/silentzone/module/core/internal/metrics"
	ringer "github.com/nandanugg/silentzone/module/core/internal/repository/actuator/mqtt"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database/memory"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database/postgres"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database/sqlite"
	"github.com/nandanugg/silentzone/module/core/internal/repository/geocoder/nominatim"
	"github.com/nandanugg/silentzone/module/core/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/silentzone/module/core/service"
)

type Options struct {
	StoreDriver     string
	DeviceID        string
	NominatimURL    string
	StatusRefresh   time.Duration
	SampleMaxAge    time.Duration
	SampleBuffer    int
	AssumeDNDAccess bool
}

type Module struct {
	ZoneSvc   *service.ZoneService
	Monitor   *service.GeofenceMonitor
	StatusSvc *service.StatusService
	RingerSvc *service.RingerService
	Access    *service.DeviceAccess
	Tracker   *service.LocationTracker

	handler       *handler.ZoneHandler
	subscriber    *subscriber.DeviceSubscriber
	samples       chan domain.LocationSample
	statusRefresh time.Duration
	logger        *zap.Logger
}

func Build(ctx context.Context, db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, reg prometheus.Registerer, logger *zap.Logger, opts Options) (*Module, error) {
	zoneRepo, err := newZoneRepository(opts.StoreDriver, db)
	if err != nil {
		return nil, err
	}

	transitionPub, err := rabbitmq.NewTransitionPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("transition publisher: %w", err)
	}

	clk := clock.NewSystem()
	tracker := service.NewLocationTracker()
	access := service.NewDeviceAccess(opts.AssumeDNDAccess)

	zoneSvc := service.NewZoneService(zoneRepo, tracker, clk, logger.Named("zone"))
	if err := zoneSvc.Load(ctx); err != nil {
		logger.Warn("zone store unavailable at start-up, treating zone as unset", zap.Error(err))
	}

	mm := metrics.NewMonitor(reg)
	ringerSvc := service.NewRingerService(ringer.NewRingerActuator(mqttClient, opts.DeviceID), access, mm, clk, logger.Named("ringer"))

	monitor := service.NewGeofenceMonitor(zoneSvc, ringerSvc, access,
		service.WithTransitionPublisher(transitionPub),
		service.WithMonitorMetrics(mm),
		service.WithMonitorClock(clk),
		service.WithMonitorLogger(logger.Named("monitor")),
		service.WithDeviceID(opts.DeviceID),
	)
	statusSvc := service.NewStatusService(zoneSvc, tracker, ringerSvc, clk, opts.SampleMaxAge, logger.Named("status"))
	placeSvc := service.NewPlaceService(nominatim.NewClient(opts.NominatimURL), logger.Named("geocode"))

	samples := make(chan domain.LocationSample, opts.SampleBuffer)

	return &Module{
		ZoneSvc:       zoneSvc,
		Monitor:       monitor,
		StatusSvc:     statusSvc,
		RingerSvc:     ringerSvc,
		Access:        access,
		Tracker:       tracker,
		handler:       handler.NewZoneHandler(zoneSvc, statusSvc, placeSvc, ringerSvc),
		subscriber:    subscriber.NewDeviceSubscriber(mqttClient, opts.DeviceID, tracker, access, samples, logger.Named("subscriber")),
		samples:       samples,
		statusRefresh: opts.StatusRefresh,
		logger:        logger,
	}, nil
}

func newZoneRepository(driver string, db *sql.DB) (database.ZoneRepository, error) {
	switch driver {
	case "postgres":
		return postgres.NewZoneRepo(db), nil
	case "sqlite":
		return sqlite.NewZoneRepo(db), nil
	case "memory":
		return memory.NewZoneRepo(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartSubscribers(ctx context.Context) error {
	return m.subscriber.Start(ctx)
}

// Run drives the geofence monitor and the status refresher until ctx is
// cancelled.
func (m *Module) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.Monitor.Run(ctx, m.samples)
	})
	g.Go(func() error {
		return m.StatusSvc.Run(ctx, m.statusRefresh)
	})
	return g.Wait()
}
