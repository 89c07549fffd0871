package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rfarias/geocapture/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the capture streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	streams := []nats.StreamConfig{
		{
			Name:      "CAPTURES",
			Subjects:  []string{"capture.created.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "CAPTURE_REPORTS",
			Subjects:  []string{"capture.report.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishCaptureCreated announces a newly stored record. The client name is
// folded into the subject so consumers can filter per site.
func (p *Publisher) PublishCaptureCreated(ctx context.Context, rec *domain.CapturedRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("capture.created."+subjectToken(rec.Client), data)
	return err
}

// PublishReportGenerated announces a delivered map report.
func (p *Publisher) PublishReportGenerated(ctx context.Context, location string, records int) error {
	payload, err := json.Marshal(map[string]any{
		"location":     location,
		"records":      records,
		"generated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish("capture.report.generated", payload)
	return err
}

// subjectToken makes a client name safe for use as a NATS subject token.
func subjectToken(client string) string {
	if client == "" {
		return "unresolved"
	}
	token := strings.ToLower(client)
	token = strings.ReplaceAll(token, " ", "_")
	token = strings.ReplaceAll(token, ".", "_")
	return token
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
