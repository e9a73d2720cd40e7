package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "salonhours"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSalonTimeZone = "UTC"
	DefaultBaseHoursFile = "configs/base_hours.yaml"

	DefaultRedisAddr        = ""
	DefaultRedisDB          = 0
	DefaultSnapshotCacheTTL = 30 * time.Second

	DefaultKafkaTopic = "holiday-hours-events"

	DefaultPaginationLimit = 100
)
