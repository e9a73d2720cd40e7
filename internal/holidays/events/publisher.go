package events

import (
	"context"
	"time"

	"salonhours/internal/holidays/activation"
	"salonhours/pkg/kafka"
	"salonhours/pkg/logger"
	"salonhours/pkg/middleware"
	"salonhours/pkg/model"
)

const (
	TypeScheduleSaved       = "holiday.schedule.saved"
	TypeScheduleDeleted     = "holiday.schedule.deleted"
	TypeScheduleActivated   = "holiday.schedule.activated"
	TypeScheduleDeactivated = "holiday.schedule.deactivated"
	TypeLegacySaved         = "holiday.legacy.saved"

	SchemaVersion = "1"
	Source        = "holiday-hours"
)

type ScheduleSaved struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     model.HolidayType `json:"type"`
	IsActive bool              `json:"is_active"`
	Created  bool              `json:"created"`
}

type ScheduleDeleted struct {
	ID string `json:"id"`
}

type ActiveFlagsChanged struct {
	ActiveID string             `json:"active_id,omitempty"`
	Flips    activation.FlipSet `json:"flips"`
}

type LegacySaved struct {
	Enabled   bool   `json:"enabled"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

// Producer is the part of kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Publisher emits change events after a store commit. Failures are logged
// and never returned: the commit already happened.
type Publisher struct {
	producer Producer
	log      *logger.Logger
}

// NewPublisher returns a publisher that drops every event when producer is nil.
func NewPublisher(producer Producer, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, log: log}
}

func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload any) {
	if p == nil || p.producer == nil {
		return
	}

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithEventType(eventType).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithTimestamp(time.Now()).
		WithValue(payload).
		Build()
	if err != nil {
		p.log.Error("Failed to build event", "event_type", eventType, "key", key, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"transient", kafka.IsTransient(err),
			"error", err,
		)
	}
}
