package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/quake-harvester/pkg/quakes"
	"gopkg.in/yaml.v3"
)

// Package feeds contains pluggable feed configs (YAML/JSON) helpers.

const (
	TypeUSGSGeoJSON = "usgs_geojson"

	defaultRequestDelayMs = 500
)

// Feed describes one earthquake feed to poll.
// SourceURL wins when set; otherwise the URL is built from BaseURL and the query fields.
type Feed struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Type           string         `json:"type" yaml:"type"`
	SourceURL      string         `json:"source_url" yaml:"source_url"`
	BaseURL        string         `json:"base_url" yaml:"base_url"`
	MinMagnitude   float64        `json:"min_magnitude" yaml:"min_magnitude"`
	Limit          int            `json:"limit" yaml:"limit"`
	OrderBy        string         `json:"order_by" yaml:"order_by"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Feeds []Feed `json:"feeds" yaml:"feeds"`
}

// Registry holds the feeds loaded from a registry file.
type Registry struct {
	mu    sync.RWMutex
	feeds []Feed
	idx   map[string]Feed
}

// LoadRegistry loads the feed registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("feeds file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(parsed.Feeds)
}

// NewRegistry validates feeds and indexes them by id.
func NewRegistry(feeds []Feed) (*Registry, error) {
	if len(feeds) == 0 {
		return nil, errors.New("feeds file contains no feeds entries")
	}

	reg := &Registry{
		feeds: make([]Feed, len(feeds)),
		idx:   make(map[string]Feed, len(feeds)),
	}
	for i := range feeds {
		f := sanitizeFeed(feeds[i])
		if err := validateFeed(f); err != nil {
			return nil, fmt.Errorf("feed[%d]: %w", i, err)
		}
		if _, exists := reg.idx[f.ID]; exists {
			return nil, fmt.Errorf("duplicate feed id %q", f.ID)
		}
		reg.feeds[i] = f
		reg.idx[f.ID] = f
	}
	return reg, nil
}

// All returns a copy of the configured feeds in file order.
func (r *Registry) All() []Feed {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Feed, len(r.feeds))
	copy(out, r.feeds)
	return out
}

// ByID returns the feed entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Feed, bool) {
	if r == nil {
		return Feed{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Feed{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.idx[id]
	return f, ok
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("feeds file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s feeds: %w", name, err)
	}
	return reg, nil
}

func sanitizeFeed(f Feed) Feed {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.SourceURL = strings.TrimSpace(f.SourceURL)
	f.BaseURL = strings.TrimSpace(f.BaseURL)
	f.OrderBy = strings.TrimSpace(f.OrderBy)

	if f.Type == "" {
		f.Type = TypeUSGSGeoJSON
	}
	if f.Config == nil {
		f.Config = map[string]any{}
	}
	if f.RequestDelayMs <= 0 {
		f.RequestDelayMs = defaultRequestDelayMs
	}

	return f
}

func validateFeed(f Feed) error {
	if f.ID == "" {
		return errors.New("id is required")
	}
	if f.Name == "" {
		return fmt.Errorf("name is required for feed %q", f.ID)
	}
	if f.Limit < 0 {
		return fmt.Errorf("limit must not be negative for feed %q", f.ID)
	}
	if f.MinMagnitude < 0 {
		return fmt.Errorf("min_magnitude must not be negative for feed %q", f.ID)
	}
	return nil
}

// URL returns the request URL for the feed.
func (f Feed) URL() (string, error) {
	if f.SourceURL != "" {
		return f.SourceURL, nil
	}
	return quakes.BuildURL(f.BaseURL, quakes.Params{
		MinMagnitude: f.MinMagnitude,
		Limit:        f.Limit,
		OrderBy:      f.OrderBy,
	})
}

// RequestDelay returns the per-request throttle duration for report enrichment.
func (f Feed) RequestDelay() time.Duration {
	if f.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(f.RequestDelayMs) * time.Millisecond
}
