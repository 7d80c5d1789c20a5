package poller

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
	"github.com/samvad-hq/quake-harvester/pkg/httpclient"
	"github.com/samvad-hq/quake-harvester/pkg/publishers"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

// stubHTTPClient returns one response per URL and records request headers.
type stubHTTPClient struct {
	resps   map[string]httpclient.Response
	headers map[string]string
}

func (s *stubHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	s.headers = headers
	resp, ok := s.resps[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return resp, nil
}

func eventFor(url string) publishers.Event {
	return publishers.Event{Earthquake: domain.NewEarthquake(5, "somewhere", 0, url)}
}

func TestParseMetaPrefersOGTags(t *testing.T) {
	html := []byte(`
<html>
  <head>
    <title>Fallback</title>
    <meta property="og:title" content="M 5.4 - 12km SE of Mexico City">
    <meta name="description" content="Plain description">
    <meta property="og:description" content="OG Desc">
  </head>
</html>`)

	meta, err := parseMeta(html)
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "M 5.4 - 12km SE of Mexico City" || meta.Description != "OG Desc" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestParseMetaFallsBack(t *testing.T) {
	meta, err := parseMeta([]byte(`<html><head><title> Title </title><meta name="description" content="Desc"></head></html>`))
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "Title" || meta.Description != "Desc" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestScraperEnrichesAndKeepsFailures(t *testing.T) {
	client := &stubHTTPClient{resps: map[string]httpclient.Response{
		"https://example.com/ok":   stubHTTPResponse{statusCode: 200, body: []byte(`<title>Report</title>`)},
		"https://example.com/gone": stubHTTPResponse{statusCode: 404, body: []byte("not found")},
	}}
	scraper := NewReportScraper(client, nil)

	events := []publishers.Event{
		eventFor("https://example.com/ok"),
		eventFor("https://example.com/gone"),
		eventFor("https://example.com/down"),
		eventFor(""),
	}
	out := scraper.Enrich(context.Background(), feeds.Feed{ID: "usgs", RequestDelayMs: 1}, events)

	if len(out) != len(events) {
		t.Fatalf("expected %d events, got %d", len(events), len(out))
	}
	if out[0].Report == nil || out[0].Report.Title != "Report" {
		t.Fatalf("expected report on first event, got %+v", out[0].Report)
	}
	for i := 1; i < len(out); i++ {
		if out[i].Report != nil {
			t.Fatalf("event %d should stay unenriched, got %+v", i, out[i].Report)
		}
	}
	if client.headers["Accept"] != htmlAccept {
		t.Fatalf("expected html accept header, got %q", client.headers["Accept"])
	}
	if events[0].Report != nil {
		t.Fatalf("input slice must not be modified")
	}
}

func TestScraperLimitsBody(t *testing.T) {
	body := bytes.Repeat([]byte("a"), maxHTMLBodyBytes+10)
	client := &stubHTTPClient{resps: map[string]httpclient.Response{
		"https://example.com": stubHTTPResponse{body: body, statusCode: 200},
	}}

	out := NewReportScraper(client, nil).Enrich(context.Background(), feeds.Feed{ID: "usgs"}, []publishers.Event{eventFor("https://example.com")})
	if len(out) != 1 || out[0].Report != nil {
		t.Fatalf("expected no report because body had no metadata, got %+v", out)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", " ", "foo", "bar"); got != "foo" {
		t.Fatalf("firstNonEmpty returned %q", got)
	}
}
