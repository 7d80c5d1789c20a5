package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samvad-hq/quake-harvester/internal/config"
	"github.com/samvad-hq/quake-harvester/internal/logger"
	"github.com/samvad-hq/quake-harvester/internal/observability"
	"github.com/samvad-hq/quake-harvester/internal/poller"
	"github.com/samvad-hq/quake-harvester/internal/storage"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
	"github.com/samvad-hq/quake-harvester/pkg/httpclient"
	"github.com/samvad-hq/quake-harvester/pkg/publishers"
)

// pollRunner runs one pass over the feeds.
type pollRunner interface {
	Run(ctx context.Context, list []feeds.Feed) error
}

// Harvester represents the earthquake harvester runtime. It manages the poll loop,
// coordinating between feeds, the poller service, and publishers. It also
// handles storage initialization and cleanup.
type Harvester struct {
	cfg          *config.Config
	feedReg      *feeds.Registry
	fanout       *publishers.Fanout
	poller       pollRunner
	pollInterval time.Duration
	clock        clockwork.Clock
	log          logger.Logger
	store        storage.Store
}

// NewHarvester builds a harvester runtime from config files.
// Metrics are registered on reg when it is non-nil.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger, reg prometheus.Registerer) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	feedReg, err := feeds.LoadRegistry(cfg.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("load feeds registry: %w", err)
	}
	feedList := feedReg.All()
	feedIDs := make([]string, 0, len(feedList))
	for _, f := range feedList {
		feedIDs = append(feedIDs, f.ID)
	}
	log.InfoObj("feeds registry loaded", "feeds_meta", map[string]any{
		"count": len(feedIDs),
		"ids":   feedIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		QuakeTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"quake_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	client := httpclient.NewTimeoutClient(httpclient.Timeouts{
		Connect: cfg.FetchConnectTimeout,
		Read:    cfg.FetchReadTimeout,
	})
	var enricher poller.ReportEnricher
	if cfg.EnrichReports {
		enricher = poller.NewReportScraper(client, log)
	}

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics(reg)
	processor := poller.NewFeedProcessor(poller.Deps{
		Registry:  feeds.DefaultFetcherRegistry(client),
		Enricher:  enricher,
		Publisher: fanout,
		Store:     store,
		Metrics:   metrics,
		Clock:     clock,
		Location:  cfg.DisplayLocation,
		Log:       log,
	})

	return &Harvester{
		cfg:          cfg,
		feedReg:      feedReg,
		fanout:       fanout,
		poller:       poller.NewService(processor, metrics, clock, log),
		pollInterval: cfg.PollInterval,
		clock:        clock,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.poller == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()
	feedList := h.feedReg.All()
	if len(feedList) == 0 {
		h.log.WarnObj("no feeds configured; harvester idle", "feeds_file", h.cfg.FeedsFile)
		<-ctx.Done()
		return nil
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"feeds_count":      len(feedList),
		"publishers_count": h.fanout.Size(),
		"poll_interval":    h.pollInterval.String(),
	})

	if err := h.runOnce(ctx, feedList); err != nil {
		h.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := h.clock.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.Chan():
			if err := h.runOnce(ctx, feedList); err != nil {
				h.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

// runOnce performs a single poll across all feeds.
func (h *Harvester) runOnce(ctx context.Context, feedList []feeds.Feed) error {
	start := h.clock.Now()
	h.log.InfoObj("poll started", "poll_meta", map[string]any{
		"feeds_count": len(feedList),
		"started_at":  start.UTC(),
	})
	if err := h.poller.Run(ctx, feedList); err != nil {
		return err
	}
	h.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"feeds_count": len(feedList),
		"elapsed_ms":  h.clock.Since(start).Milliseconds(),
	})
	return nil
}

// close releases publishers and the storage backend, logging any errors encountered.
func (h *Harvester) close() {
	if h == nil {
		return
	}
	if err := h.fanout.Close(); err != nil {
		h.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if h.store == nil {
		return
	}
	if err := h.store.Close(); err != nil {
		h.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
