package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nsqio/go-nsq"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

type Publisher interface {
	Publish(ctx context.Context, event models.ReconciliationEvent) error
}

// NSQPublisher publishes reconciliation events to a single nsqd topic.
type NSQPublisher struct {
	producer *nsq.Producer
	topic    string
}

func NewNSQPublisher(addr, topic string) (*NSQPublisher, error) {
	producer, err := nsq.NewProducer(addr, nsq.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}

	if err := producer.Ping(); err != nil {
		producer.Stop()
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}

	return &NSQPublisher{producer: producer, topic: topic}, nil
}

func (p *NSQPublisher) Publish(_ context.Context, event models.ReconciliationEvent) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(p.topic, body); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *NSQPublisher) Stop() {
	p.producer.Stop()
}

// Encode is the wire format of a published event.
func Encode(event models.ReconciliationEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return body, nil
}

// Noop discards events; used when no nsqd is configured.
type Noop struct{}

func (Noop) Publish(context.Context, models.ReconciliationEvent) error { return nil }
