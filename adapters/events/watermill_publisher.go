package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

// DefaultTopic is the topic notifications are published to
const DefaultTopic = "walletauth.notifications"

// WatermillNotifier implements the Notifier interface using Watermill
type WatermillNotifier struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillNotifier creates a notifier publishing to topic. An empty topic selects DefaultTopic.
func NewWatermillNotifier(publisher message.Publisher, topic string) *WatermillNotifier {
	if topic == "" {
		topic = DefaultTopic
	}

	return &WatermillNotifier{
		publisher: publisher,
		topic:     topic,
	}
}

var _ ports.Notifier = (*WatermillNotifier)(nil)

// Notify publishes a notification
func (p *WatermillNotifier) Notify(ctx context.Context, n core.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("severity", string(n.Severity))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Decode extracts the notification carried by msg
func Decode(msg *message.Message) (core.Notification, error) {
	var n core.Notification
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		return core.Notification{}, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	return n, nil
}

// FanOut publishes every message to all publishers, stopping at the first failure
type FanOut []message.Publisher

func (f FanOut) Publish(topic string, messages ...*message.Message) error {
	for _, p := range f {
		if err := p.Publish(topic, messages...); err != nil {
			return err
		}
	}
	return nil
}

func (f FanOut) Close() error {
	var firstErr error
	for _, p := range f {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
