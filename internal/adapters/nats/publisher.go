package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/ports"
)

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.Notifier       = (*Publisher)(nil)
)

// Subjects
const (
	SubjectBatchIngested   = "biogrid.batches.ingested."
	SubjectReportGenerated = "biogrid.reports.generated."
	SubjectExportAlert     = "biogrid.alerts.export"

	// Wildcards relayed to WebSocket clients.
	SubjectReports = "biogrid.reports.>"
	SubjectAlerts  = "biogrid.alerts.>"
)

// BatchIngestedEvent is the payload announcing a stored batch.
type BatchIngestedEvent struct {
	BatchID          string    `json:"batch_id"`
	Name             string    `json:"name"`
	MappingCount     int       `json:"mapping_count"`
	ObservationCount int       `json:"observation_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// Alert is the payload published for user-facing problems.
type Alert struct {
	Message string    `json:"message"`
	Detail  string    `json:"detail"`
	Time    time.Time `json:"time"`
}

// Publisher implements ports.EventPublisher and ports.Notifier using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// streams are the JetStream streams the publisher writes to.
var streams = []nats.StreamConfig{
	{
		Name:      "BIOGRID_BATCHES",
		Subjects:  []string{"biogrid.batches.>"},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "BIOGRID_REPORTS",
		Subjects:  []string{SubjectReports},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "BIOGRID_ALERTS",
		Subjects:  []string{SubjectAlerts},
		Retention: nats.InterestPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

// jetStreamConn is the part of *nats.Conn needed to set up JetStream.
type jetStreamConn interface {
	JetStream(opts ...nats.JSOpt) (nats.JetStreamContext, error)
	Close()
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := setupPublisher(conn)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, js: js}, nil
}

// setupPublisher enables JetStream and ensures the streams exist. The
// connection is closed when either step fails.
func setupPublisher(conn jetStreamConn) (nats.JetStreamContext, error) {
	js, err := openJetStream(conn)
	if err != nil {
		return nil, err
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return js, nil
}

// openJetStream returns the JetStream context for conn, closing conn on failure.
func openJetStream(conn jetStreamConn) (nats.JetStreamContext, error) {
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return js, nil
}

func (p *Publisher) PublishBatchIngested(ctx context.Context, batch *domain.Batch) error {
	data, err := json.Marshal(newBatchIngestedEvent(batch))
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectBatchIngested+batch.ID, data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishReportGenerated(ctx context.Context, report domain.ReportSummary) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectReportGenerated+report.ID, data, nats.Context(ctx))
	return err
}

// Notify publishes an export alert.
func (p *Publisher) Notify(ctx context.Context, message, detail string) error {
	data, err := json.Marshal(Alert{Message: message, Detail: detail, Time: time.Now().UTC()})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectExportAlert, data, nats.Context(ctx))
	return err
}

// Ping reports whether the connection is up.
func (p *Publisher) Ping(ctx context.Context) error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats status %s", p.conn.Status())
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

func newBatchIngestedEvent(b *domain.Batch) BatchIngestedEvent {
	return BatchIngestedEvent{
		BatchID:          b.ID,
		Name:             b.Name,
		MappingCount:     len(b.Mappings),
		ObservationCount: b.ObservationCount,
		CreatedAt:        b.CreatedAt,
	}
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("biogrid"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
