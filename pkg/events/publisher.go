// Package events announces finished queries to other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const DefaultSubject = "nft.query.completed"

// QueryCompleted is published once per asynchronous query.
type QueryCompleted struct {
	QueryID     string    `json:"queryId"`
	Address     string    `json:"address"`
	Status      string    `json:"status"`
	TokenCount  int       `json:"tokenCount"`
	FailedCount int       `json:"failedCount"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event QueryCompleted) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, QueryCompleted) error { return nil }

// jetStreamPublisher is the slice of nats.JetStreamContext used here.
type jetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// NATSPublisher publishes events to a JetStream subject.
type NATSPublisher struct {
	js      jetStreamPublisher
	subject string
}

func NewNATSPublisher(js jetStreamPublisher, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{js: js, subject: subject}
}

// Connect dials url and returns a publisher bound to its JetStream context
// together with the connection, which the caller must close.
func Connect(url, subject string) (*NATSPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("nft-indexer"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect nats %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream context: %w", err)
	}

	return NewNATSPublisher(js, subject), nc, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event QueryCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", p.subject, err)
	}

	if _, err = p.js.Publish(p.subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}

	return nil
}
