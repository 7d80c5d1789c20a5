package poller

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/samvad-hq/quake-harvester/internal/logger"
	"github.com/samvad-hq/quake-harvester/internal/observability"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
)

// Service coordinates polling across multiple feeds.
type Service struct {
	processor Processor
	metrics   *observability.Metrics
	clock     clockwork.Clock
	log       logger.Logger
}

// NewService wires a poller around a feed processor.
func NewService(processor Processor, metrics *observability.Metrics, clock clockwork.Clock, log logger.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		processor: processor,
		metrics:   metrics,
		clock:     clock,
		log:       logger.Ensure(log),
	}
}

// Run executes a poll pass for all configured feeds, one after another.
func (s *Service) Run(ctx context.Context, cfgs []feeds.Feed) error {
	if s == nil || s.processor == nil {
		return fmt.Errorf("poller service is not initialized")
	}

	if len(cfgs) == 0 {
		return fmt.Errorf("no feeds configured for polling")
	}

	start := s.clock.Now()
	errs := s.runAll(ctx, cfgs)
	s.metrics.ObservePoll(s.clock.Since(start))

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, cfgs []feeds.Feed) []error {
	errs := make([]error, 0, len(cfgs))

	for _, cfg := range cfgs {
		if ctx.Err() != nil {
			s.log.InfoObj("poll pass cancelled", "poll_cancelled", map[string]any{
				"next_feed_id": cfg.ID,
			})
			break
		}
		if err := s.processor.Process(ctx, cfg); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("feed poll failed", "feed_error", map[string]any{
				"feed_id": cfg.ID,
				"error":   err.Error(),
			})
		}
	}

	return errs
}
