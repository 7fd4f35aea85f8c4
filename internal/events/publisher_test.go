package events

import (
	"context"
	"testing"

	"kiosk-auth/internal/models"
)

func TestPublisher_NilProducerIsNoOp(t *testing.T) {
	t.Parallel()

	p := NewPublisher(nil, "AA:BB:CC:DD:EE:FF")
	// Must not panic; Kafka-disabled kiosks run this path on every login.
	p.Publish(context.Background(), models.EventLoginSuccess, "admin", "")

	var nilPublisher *Publisher
	nilPublisher.Publish(context.Background(), models.EventLoginFailed, "admin", "")
}
