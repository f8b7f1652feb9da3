package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/coboxlogistic/fleet-backend/internal/fleet"
)

// Publisher carries drained domain events to the outside world. The
// services publish once, after the aggregate has been saved.
type Publisher interface {
	Publish(ctx context.Context, events ...fleet.Event) error
}

// LogPublisher writes events to the structured log. It is the default
// when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, events ...fleet.Event) error {
	for _, event := range events {
		log.WithFields(log.Fields{
			"event":       event.EventName(),
			"occurred_at": event.OccurredAt(),
		}).Info("Domain event")
	}
	return nil
}

// MQTTPublisher publishes events as JSON to fleet/events/<name>.
type MQTTPublisher struct {
	client  mqtt.Client
	timeout time.Duration
}

// NewMQTTPublisher connects to the broker and returns a ready publisher.
func NewMQTTPublisher(brokerURL, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}
	return &MQTTPublisher{client: client, timeout: 5 * time.Second}, nil
}

func (p *MQTTPublisher) Publish(_ context.Context, events ...fleet.Event) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", event.EventName(), err)
		}
		topic := "fleet/events/" + event.EventName()
		token := p.client.Publish(topic, 1, false, payload)
		if !token.WaitTimeout(p.timeout) {
			return fmt.Errorf("publish to %s timed out", topic)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
