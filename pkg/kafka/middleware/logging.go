package kafka_middleware

import (
	"context"
	"time"

	"salonhours/pkg/kafka"
	"salonhours/pkg/logger"
)

// LoggingProducerMiddleware logs every publish with its outcome and duration.
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"duration", time.Since(start),
		}
		if id := msg.GetCorrelationID(); id != "" {
			attrs = append(attrs, "correlation_id", id)
		}
		if err != nil {
			log.Error("Failed to publish message", append(attrs, "error", err)...)
		} else {
			log.Debug("Published message", attrs...)
		}

		return err
	}
}

// ObserveFunc receives the outcome of a publish, "ok" or "error".
type ObserveFunc func(eventType, result string, duration time.Duration)

// MetricsProducerMiddleware reports publish outcomes to observe.
func MetricsProducerMiddleware(observe ObserveFunc) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		result := "ok"
		if err != nil {
			result = "error"
		}
		observe(msg.GetEventType(), result, time.Since(start))

		return err
	}
}
