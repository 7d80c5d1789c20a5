package publishers

import "context"

// Publisher sends events to a downstream sink (SQS, SNS, Kafka, etc).
// Publishers holding connections may also implement io.Closer; Fanout.Close releases them.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
