package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubPublisher struct {
	id       string
	typ      string
	err      error
	calls    int
	closeErr error
	closed   bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

type closingPublisher struct {
	stubPublisher
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return c.closeErr
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		nil,
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
	})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil || !strings.Contains(err.Error(), "http publisher[bad]") {
		t.Fatalf("expected aggregated error naming the publisher, got %v", err)
	}
}

func TestFanoutCloseOnlyClosesClosers(t *testing.T) {
	plain := &stubPublisher{id: "plain", typ: "log"}
	closer := &closingPublisher{stubPublisher{id: "conn", typ: "nats", closeErr: errors.New("drain failed")}}

	err := NewFanout([]Publisher{plain, closer}).Close()
	if !closer.closed {
		t.Fatalf("expected closer to be closed")
	}
	if err == nil || !strings.Contains(err.Error(), "nats publisher[conn]") {
		t.Fatalf("expected close error, got %v", err)
	}
}

func TestNilFanoutIsEmpty(t *testing.T) {
	var f *Fanout
	if n, err := f.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("expected no-op publish, got %d %v", n, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
		{ID: "log", Type: TypeLog},
		{ID: "kafka", Type: TypeKafka, Kafka: &KafkaPublisherConfig{Brokers: []string{"localhost:9092"}, Topic: "quakes"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 3 {
		t.Fatalf("expected 3 publishers, got %d", len(pubs))
	}
	if err := NewFanout(pubs).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestBuildAllRejectsUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "mystery", Type: "carrier-pigeon"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown publisher type")
	}
}
