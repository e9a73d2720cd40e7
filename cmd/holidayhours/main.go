package main

import (
	"salonhours/internal/holidays/cache"
	"salonhours/internal/holidays/events"
	"salonhours/internal/holidays/handler"
	"salonhours/internal/holidays/metrics"
	"salonhours/internal/holidays/repository"
	"salonhours/internal/holidays/service"
	"salonhours/internal/holidays/validator"
	"salonhours/pkg/app"
	"salonhours/pkg/config"
	"salonhours/pkg/kafka"
	kafka_middleware "salonhours/pkg/kafka/middleware"
)

const ServiceName = "holiday-hours"

type services struct {
	holidays service.HolidayService
	legacy   service.LegacyService
	footer   service.FooterService
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	metrics.Register()

	cfg.Log.Info("Starting Holiday Hours service")

	serverApp := app.NewApplication(cfg).WithRequestMetrics(metrics.ObserveHTTPRequest)

	var producer events.Producer
	if cfg.Kafka.Enabled() {
		p := initProducer(cfg)
		producer = p
		serverApp.OnShutdown(func() {
			if err := p.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
	} else {
		cfg.Log.Info("Kafka brokers not set, change events disabled")
	}

	svc := initServices(cfg, events.NewPublisher(producer, cfg.Log.Component("events")))

	routes := handler.Routes{
		handler.NewHolidayHandler(svc.holidays, cfg.Log),
		handler.NewLegacyHandler(svc.legacy, cfg.Log),
		handler.NewFooterHandler(svc.footer, cfg.Location, cfg.Log),
	}
	serverApp.SetApp(routes, handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log))
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(cfg.Kafka, cfg.KafkaTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log.Component("kafka")))
	}
	producer.Use(kafka_middleware.MetricsProducerMiddleware(metrics.ObserveEventPublish))
	return producer
}

func initServices(cfg *config.Config, publisher *events.Publisher) services {
	holidayValidator := validator.NewHolidayValidator(cfg.Log)
	holidayRepo := repository.NewMongoHolidayRepository(cfg)
	legacyRepo := repository.NewMongoLegacyRepository(cfg)
	snapshotCache := cache.NewRedisSnapshotCache(cfg.Client.Redis, cfg.SnapshotCacheTTL)

	svc := services{
		holidays: service.NewHolidayService(holidayRepo, holidayValidator, snapshotCache, publisher, cfg),
		legacy:   service.NewLegacyService(legacyRepo, holidayValidator, snapshotCache, publisher, cfg),
		footer:   service.NewFooterService(holidayRepo, legacyRepo, snapshotCache, cfg),
	}

	cfg.Log.Info("Holiday Hours services initialized", "database", cfg.MongoDatabaseName)
	return svc
}
