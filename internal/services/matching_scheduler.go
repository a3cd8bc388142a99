package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/homesignal/backend/internal/entities"
	"github.com/homesignal/backend/internal/logger"
	"github.com/homesignal/backend/internal/metrics"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type savedSearchRepository interface {
	GetNotificationEnabled(ctx context.Context, limit int, offset int) ([]entities.SavedSearch, error)
	UpdateLastSearchedAt(ctx context.Context, id string, t time.Time) error
}

type matchProbe interface {
	HasMatch(ctx context.Context, search entities.SavedSearch) (bool, error)
}

type notificationMinter interface {
	Mint(ctx context.Context, search entities.SavedSearch) (bool, error)
}

type MatchingSchedulerOptions struct {
	BatchSize  int           // saved searches per page, default 50
	BatchDelay time.Duration // pause between pages, default 100ms
	Timezone   string        // IANA name for the cron schedule, default local
	RunOnInit  bool          // fire one run right after Start
}

// SchedulerStatus is what the hosting process polls during startup and
// shutdown.
type SchedulerStatus struct {
	Running    bool
	Processing bool
}

// MatchingScheduler periodically re-evaluates every notification-enabled
// saved search against properties created since its watermark, minting at
// most one notification per search per dedup window. Runs never overlap:
// a trigger arriving while a run is in flight is skipped.
type MatchingScheduler struct {
	searches   savedSearchRepository
	probe      matchProbe
	minter     notificationMinter
	cron       *cron.Cron
	opts       MatchingSchedulerOptions
	started    atomic.Bool
	processing atomic.Bool
}

func NewMatchingScheduler(searches savedSearchRepository, probe matchProbe, minter notificationMinter,
	opts MatchingSchedulerOptions) (*MatchingScheduler, error) {

	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = 100 * time.Millisecond
	}

	location := time.Local
	if opts.Timezone != "" {
		var err error
		if location, err = time.LoadLocation(opts.Timezone); err != nil {
			return nil, err
		}
	}

	return &MatchingScheduler{
		searches: searches,
		probe:    probe,
		minter:   minter,
		cron:     cron.New(cron.WithLocation(location)),
		opts:     opts,
	}, nil
}

func (s *MatchingScheduler) Start(cronExpr string) error {

	if !s.started.CompareAndSwap(false, true) {
		log.Warn("matching scheduler is already started")
		return nil
	}

	if _, err := s.cron.AddFunc(cronExpr, s.run); err != nil {
		s.started.Store(false)
		return err
	}
	s.cron.Start()
	log.Infof("matching scheduler started with schedule %q", cronExpr)

	if s.opts.RunOnInit {
		go s.run()
	}
	return nil
}

// Stop stops accepting new triggers; an in-flight run proceeds to
// completion.
func (s *MatchingScheduler) Stop() {
	if !s.started.CompareAndSwap(true, false) {
		return
	}
	s.cron.Stop()
	log.Info("matching scheduler stopped")
}

func (s *MatchingScheduler) Status() SchedulerStatus {
	return SchedulerStatus{Running: s.started.Load(), Processing: s.processing.Load()}
}

func (s *MatchingScheduler) run() {

	if !s.processing.CompareAndSwap(false, true) {
		log.Warn("previous matching run is still in progress, skipping this trigger")
		return
	}
	defer s.processing.Store(false)

	start := time.Now()
	log.Info("starting saved search matching run")

	var processed, succeeded, failed, matched, minted int

	for offset := 0; ; offset += s.opts.BatchSize {

		searches, err := s.searches.GetNotificationEnabled(context.Background(), s.opts.BatchSize, offset)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to fetch saved searches: %v", err)
			break
		}
		if len(searches) == 0 {
			break
		}

		for _, search := range searches {
			processed++
			hasMatch, wasMinted, err := s.processSearch(context.Background(), search)
			if err != nil {
				failed++
				log.Errorf("failed to process saved search %v: %v", search.ID, err)
			} else {
				succeeded++
			}
			if hasMatch {
				matched++
			}
			if wasMinted {
				minted++
			}
		}

		// A page shorter than the batch size is the last one.
		if len(searches) < s.opts.BatchSize {
			break
		}
		time.Sleep(s.opts.BatchDelay)
	}

	duration := time.Since(start)
	metrics.MatchingRunDuration.Observe(duration.Seconds())
	metrics.ProcessedSearchesCounter.Add(float64(processed))
	log.Infof("matching run completed: processed=%d succeeded=%d failed=%d matched=%d minted=%d duration=%v",
		processed, succeeded, failed, matched, minted, duration)
}

// processSearch probes one saved search and mints a notification on a
// match. The watermark advances at the end of every attempt, match or
// not, success or not, so no listing window is scanned twice or skipped.
func (s *MatchingScheduler) processSearch(ctx context.Context, search entities.SavedSearch) (hasMatch bool, minted bool, err error) {

	defer func() {
		if updateErr := s.searches.UpdateLastSearchedAt(ctx, search.ID, time.Now()); updateErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to advance watermark of saved search %v: %v", search.ID, updateErr)
			if err == nil {
				err = updateErr
			}
		}
	}()

	hasMatch, err = s.probe.HasMatch(ctx, search)
	if err != nil || !hasMatch {
		return hasMatch, false, err
	}

	minted, err = s.minter.Mint(ctx, search)
	return hasMatch, minted, err
}
