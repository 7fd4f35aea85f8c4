package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kiosk-auth/internal/client"
	"kiosk-auth/internal/models"
	"kiosk-auth/internal/util"
)

// Publisher ships security events to the fleet monitoring topic. It is
// deliberately fire-and-forget: auth decisions never wait on the broker,
// and a nil producer (Kafka disabled) silently drops events.
type Publisher struct {
	producer *client.KafkaProducer
	deviceID string
}

func NewPublisher(producer *client.KafkaProducer, deviceID string) *Publisher {
	return &Publisher{
		producer: producer,
		deviceID: deviceID,
	}
}

// Publish emits one event. Errors are logged, never returned.
func (p *Publisher) Publish(ctx context.Context, eventType, username, details string) {
	if p == nil || p.producer == nil {
		return
	}

	event := models.SecurityEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Username:  username,
		DeviceID:  p.deviceID,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		util.Error("failed to marshal security event", zap.Error(err))
		return
	}

	if err := p.producer.Publish(ctx, []byte(p.deviceID), payload); err != nil {
		util.Warn("failed to publish security event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
