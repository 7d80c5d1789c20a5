package httpclient

import (
	"context"
	"time"
)

// Response is the status and fully read body of a GET.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client performs GETs for feed documents and report pages. Tests inject stubs.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// Timeouts separates the dial budget from the budget for reading the response.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
}

// Total is the overall per-request ceiling handed to resty.
func (t Timeouts) Total() time.Duration {
	return t.Connect + t.Read
}
