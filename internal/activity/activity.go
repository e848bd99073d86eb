// Package activity fans out user actions to Google Cloud Pub/Sub.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
)

// Activity types.
const (
	ChallengeCreated = "challenge.created"
	ChallengeJoined  = "challenge.joined"
	TipLiked         = "tip.liked"
	EventRSVP        = "event.rsvp"
)

// Event is the JSON message published for one user action.
type Event struct {
	Type       string    `json:"type"`
	Actor      string    `json:"actor"`
	ResourceID string    `json:"resourceId"`
	At         time.Time `json:"at"`
}

// Publisher records user actions. Publish never blocks the caller on
// delivery and never fails the request.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
func (Nop) Close() error                  { return nil }

// PubSubPublisher publishes events to one topic.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	logger *zap.Logger
}

// NewPubSubPublisher publishes through client to topicID. The publisher owns
// client from here on.
func NewPubSubPublisher(client *pubsub.Client, topicID string, logger *zap.Logger) *PubSubPublisher {
	return &PubSubPublisher{
		client: client,
		topic:  client.Topic(topicID),
		logger: logger,
	}
}

// Publish marshals e and hands it to the topic's batcher. The delivery
// result is checked in the background and failures are only logged.
func (p *PubSubPublisher) Publish(ctx context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("Failed to marshal activity event", zap.String("type", e.Type), zap.Error(err))
		return
	}

	// Delivery outlives the request.
	ctx = context.WithoutCancel(ctx)
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"type": e.Type},
	})
	go func() {
		if _, err := result.Get(ctx); err != nil {
			p.logger.Warn("Failed to publish activity event",
				zap.String("type", e.Type),
				zap.String("resourceId", e.ResourceID),
				zap.Error(err),
			)
		}
	}()
}

// Close flushes pending messages and releases the client.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
