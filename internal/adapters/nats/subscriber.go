package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/biogrid/internal/core/ports"
)

var _ ports.EventSubscriber = (*Subscriber)(nil)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := openJetStream(conn)
	if err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeBatchIngested delivers each ingested batch ID once to handler.
// Handler errors are redelivered up to three times.
func (s *Subscriber) SubscribeBatchIngested(ctx context.Context, handler func(ctx context.Context, batchID string) error) error {
	sub, err := s.js.Subscribe(SubjectBatchIngested+"*", func(msg *nats.Msg) {
		var event BatchIngestedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil || event.BatchID == "" {
			slog.Warn("dropping malformed batch event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, event.BatchID); err != nil {
			slog.Warn("batch event handler failed", "batch_id", event.BatchID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("report-scheduler"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
