package poller

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/quake-harvester/internal/logger"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
	"github.com/samvad-hq/quake-harvester/pkg/httpclient"
	"github.com/samvad-hq/quake-harvester/pkg/publishers"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	htmlAccept       = "text/html,application/xhtml+xml"
)

// ReportScraper fetches each event's detail page and extracts its title and description.
type ReportScraper struct {
	client httpclient.Client
	log    logger.Logger
}

// NewReportScraper constructs a scraper with the provided HTTP client (or default).
func NewReportScraper(client httpclient.Client, log logger.Logger) *ReportScraper {
	if client == nil {
		client = feeds.DefaultHTTPClient()
	}
	return &ReportScraper{client: client, log: logger.Ensure(log)}
}

// Enrich iterates events, fetching each page (with throttling) and attaching the report metadata.
// Events whose page cannot be read are returned unchanged.
func (s *ReportScraper) Enrich(ctx context.Context, feed feeds.Feed, events []publishers.Event) []publishers.Event {
	delay := feed.RequestDelay()
	// seed output with originals so cancellation still returns every event
	out := append([]publishers.Event(nil), events...)

	for i, evt := range events {
		if evt.Earthquake.URL == "" {
			continue
		}
		if ctx.Err() != nil {
			return out
		}

		report, err := s.fetchReport(ctx, feed, evt.Earthquake.URL)
		if err != nil {
			s.log.WarnObj("report metadata scrape failed", "report_error", map[string]any{
				"feed_id": feed.ID,
				"url":     evt.Earthquake.URL,
				"error":   err.Error(),
			})
		} else if report != nil {
			out[i].Report = report
		}

		if delay > 0 && i < len(events)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
	}

	return out
}

func (s *ReportScraper) fetchReport(ctx context.Context, feed feeds.Feed, url string) (*publishers.Report, error) {
	headers := feeds.Headers(feed)
	headers["Accept"] = htmlAccept

	resp, err := s.client.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return nil, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return nil, err
	}
	if meta.Title == "" && meta.Description == "" {
		return nil, nil
	}
	return &publishers.Report{Title: meta.Title, Description: meta.Description}, nil
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
	}, nil
}

type pageMeta struct {
	Title       string
	Description string
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
