// Package sync keeps a git-backed content store current and announces updates.
package sync

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/b-editor/docsite/internal/config"
)

// UpdateEvent is published when the content store picks up new commits.
type UpdateEvent struct {
	Store     string    `json:"store"`
	Head      string    `json:"head,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher announces content updates over NATS. A nil Publisher is valid and
// publishes nothing, so callers never branch on whether eventing is enabled.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS. Returns nil when no URL is configured.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("docsite"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("NATS publisher connected", "url", cfg.URL, "subject", cfg.Subject)
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishUpdate emits an update event. Publish failures are reported but are
// never fatal to the refresh that triggered them.
func (p *Publisher) PublishUpdate(event UpdateEvent) error {
	if p == nil {
		return nil
	}

	event.Timestamp = time.Now().UTC()
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal update event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish update event: %w", err)
	}
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}
