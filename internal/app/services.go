package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"wirsuchen.de/backend/internal/cache"
	"wirsuchen.de/backend/internal/config"
	"wirsuchen.de/backend/internal/db"
	"wirsuchen.de/backend/internal/langdetect"
	"wirsuchen.de/backend/internal/listing"
	"wirsuchen.de/backend/internal/metrics"
	"wirsuchen.de/backend/internal/translation"
	"wirsuchen.de/backend/internal/worker"
)

// services is the object graph shared by serve and the translate commands.
type services struct {
	pool       *db.Pool
	metrics    *metrics.Metrics
	cache      cache.Cache
	persistent *cache.PersistentCache
	adapter    *translation.Adapter
	runner     *worker.Runner
	manager    *translation.Manager
	merger     *listing.Merger
}

// newServices connects to the database and builds the translation stack.
// withRunner starts the backfill workers; one-shot commands leave it off.
func newServices(ctx context.Context, cfg *config.Config, logger zerolog.Logger, withRunner bool) (*services, error) {
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	svc := &services{pool: pool, metrics: metrics.New()}

	persistent, err := cache.OpenPersistent(cfg.CachePath, cfg.CacheTTL, logger, svc.metrics)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.CachePath).Msg("persistent cache unavailable, using memory only")
		svc.cache = cache.NewTiered(cache.NewMemory(svc.metrics), nil)
	} else {
		svc.persistent = persistent
		svc.cache = cache.NewTiered(cache.NewMemory(svc.metrics), persistent)
	}

	detector, err := langdetect.New(cfg.LanguageDetector)
	if err != nil {
		svc.Close()
		return nil, err
	}

	svc.adapter = newAdapter(cfg, svc.cache, logger, svc.metrics)

	var scheduler translation.Scheduler
	if withRunner {
		svc.runner = worker.NewRunner(worker.Options{
			Workers:     cfg.BackfillWorkers,
			QueueSize:   cfg.BackfillQueueSize,
			TaskTimeout: cfg.BackfillTaskTimeout,
		}, logger, svc.metrics)
		scheduler = svc.runner
	}

	svc.manager = translation.NewManager(svc.adapter, pool, scheduler, detector, translation.ManagerOptions{
		SyncTimeout:       cfg.TranslationSyncTimeout,
		BackfillMaxItems:  cfg.BackfillMaxItems,
		BackfillCallDelay: cfg.BackfillCallDelay,
		BulkWindow:        cfg.BulkWindow,
		BulkBatchSize:     cfg.BulkBatchSize,
		BulkConcurrency:   cfg.BulkConcurrency,
	}, logger, svc.metrics)
	svc.merger = listing.NewMerger(pool, svc.manager, logger)
	return svc, nil
}

// newAdapter picks the batch API when it has credentials and the configured
// generative backend as its fallback.
func newAdapter(cfg *config.Config, c cache.Cache, logger zerolog.Logger, m *metrics.Metrics) *translation.Adapter {
	var primary translation.BatchTranslator
	if batch := translation.NewBatchAPI(cfg.TranslationAPIURL, cfg.TranslationAPIKey, nil); batch != nil {
		primary = batch
	}

	registry := translation.NewRegistryFromConfig(cfg)
	generator, err := registry.Generator(registry.DefaultName())
	if err != nil {
		logger.Warn().Err(err).Msg("no generative backend available")
		generator = nil
	}

	policy := translation.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.TranslationMaxAttempts
	policy.DefaultWait = cfg.TranslationDefaultRetryWait
	policy.Buffer = cfg.TranslationRetryBuffer
	policy.MaxWait = cfg.TranslationMaxRetryWait

	adapter := translation.NewAdapter(primary, generator, c, translation.AdapterOptions{
		Retry: policy,
		QPS:   cfg.TranslationQPS,
	}, logger, m)
	event := logger.Info().Strs("backends", adapter.Backends())
	if named, ok := generator.(interface{ ModelName() string }); ok {
		event = event.Str("model", named.ModelName())
	}
	event.Msg("translation backends configured")
	return adapter
}

// Shutdown drains the backfill runner before the store goes away.
func (s *services) Shutdown(ctx context.Context) error {
	var errs []error
	if s.runner != nil {
		if err := s.runner.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain backfill runner: %w", err))
		}
	}
	s.Close()
	return errors.Join(errs...)
}

func (s *services) Close() {
	if s.persistent != nil {
		_ = s.persistent.Close()
	}
	if s.pool != nil {
		_ = s.pool.Close()
	}
}
