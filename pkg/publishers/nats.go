package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// natsConn is the subset of *nats.Conn used by natsPublisher.
type natsConn interface {
	Publish(subj string, data []byte) error
	IsClosed() bool
	Drain() error
}

// natsPublisher publishes events on a core NATS subject.
type natsPublisher struct {
	id      string
	subject string
	conn    natsConn
	log     Logger
}

func newNATSPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.NATS == nil {
		return nil, fmt.Errorf("publisher %q missing nats configuration", cfg.ID)
	}
	log = ensureLogger(log)

	opts := []nats.Option{
		nats.Name(cfg.NATS.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WarnObj("nats disconnected", "publisher_nats_disconnect", map[string]any{
					"publisher_id": cfg.ID,
					"error":        err.Error(),
				})
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.InfoObj("nats reconnected", "publisher_nats_reconnect", map[string]any{
				"publisher_id": cfg.ID,
				"url":          nc.ConnectedUrl(),
			})
		}),
	}
	nc, err := nats.Connect(cfg.NATS.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &natsPublisher{id: cfg.ID, subject: cfg.NATS.Subject, conn: nc, log: log}, nil
}

func (n *natsPublisher) ID() string   { return n.id }
func (n *natsPublisher) Type() string { return TypeNATS }

func (n *natsPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.conn == nil || n.conn.IsClosed() {
		return errors.New("nats not connected")
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.conn.Publish(n.subject, payload); err != nil {
		n.log.ErrorObj("nats publisher send failed", "publisher_nats_error", map[string]any{
			"publisher_id": n.id,
			"error":        err.Error(),
		})
		return fmt.Errorf("publish to nats: %w", err)
	}
	return nil
}

// Close drains buffered messages; the connection closes once the drain completes.
func (n *natsPublisher) Close() error {
	if n.conn == nil || n.conn.IsClosed() {
		return nil
	}
	return n.conn.Drain()
}
