package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/homesignal/backend/internal/entities"
	"github.com/homesignal/backend/internal/logger"
	"github.com/homesignal/backend/internal/metrics"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type pendingNotificationRepository interface {
	ListUnsent(ctx context.Context, limit int) ([]entities.PendingNotification, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	CountUnsent(ctx context.Context) (int64, error)
}

type mailSender interface {
	SendNotification(to string, title string, message string, actionURL string, agencyName string) error
}

type DeliverySchedulerOptions struct {
	BatchSize int           // notifications per run, default 10
	SendDelay time.Duration // pause between consecutive sends, default 1s
	Timezone  string        // IANA name for the cron schedule, default local
	RunOnInit bool          // fire one run right after Start
}

// DeliveryScheduler periodically drains pending notifications oldest
// first and emails them through the mail transport, marking each one sent
// on transport success only. A notification that fails to send stays
// pending and is retried on the next run.
type DeliveryScheduler struct {
	notifications pendingNotificationRepository
	mailer        mailSender
	cron          *cron.Cron
	opts          DeliverySchedulerOptions
	started       atomic.Bool
	processing    atomic.Bool
}

func NewDeliveryScheduler(notifications pendingNotificationRepository, mailer mailSender,
	opts DeliverySchedulerOptions) (*DeliveryScheduler, error) {

	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.SendDelay <= 0 {
		opts.SendDelay = time.Second
	}

	location := time.Local
	if opts.Timezone != "" {
		var err error
		if location, err = time.LoadLocation(opts.Timezone); err != nil {
			return nil, err
		}
	}

	return &DeliveryScheduler{
		notifications: notifications,
		mailer:        mailer,
		cron:          cron.New(cron.WithLocation(location)),
		opts:          opts,
	}, nil
}

func (s *DeliveryScheduler) Start(cronExpr string) error {

	if !s.started.CompareAndSwap(false, true) {
		log.Warn("delivery scheduler is already started")
		return nil
	}

	if _, err := s.cron.AddFunc(cronExpr, s.run); err != nil {
		s.started.Store(false)
		return err
	}
	s.cron.Start()
	log.Infof("delivery scheduler started with schedule %q", cronExpr)

	if s.opts.RunOnInit {
		go s.run()
	}
	return nil
}

// Stop stops accepting new triggers; an in-flight run proceeds to
// completion.
func (s *DeliveryScheduler) Stop() {
	if !s.started.CompareAndSwap(true, false) {
		return
	}
	s.cron.Stop()
	log.Info("delivery scheduler stopped")
}

func (s *DeliveryScheduler) Status() SchedulerStatus {
	return SchedulerStatus{Running: s.started.Load(), Processing: s.processing.Load()}
}

func (s *DeliveryScheduler) run() {

	if !s.processing.CompareAndSwap(false, true) {
		log.Warn("previous delivery run is still in progress, skipping this trigger")
		return
	}
	defer s.processing.Store(false)

	start := time.Now()

	pending, err := s.notifications.ListUnsent(context.Background(), s.opts.BatchSize)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to fetch unsent notifications: %v", err)
		return
	}
	if len(pending) == 0 {
		log.Info("no unsent notifications found")
		return
	}

	var sent, failed int
	for i, notification := range pending {
		// Rate shaping for the outbound transport; no delay before the
		// first item.
		if i > 0 {
			time.Sleep(s.opts.SendDelay)
		}

		if err = s.deliver(context.Background(), notification); err != nil {
			failed++
			metrics.FailedEmailsCounter.Inc()
			log.Errorf("failed to deliver notification %v: %v", notification.ID, err)
		} else {
			sent++
			metrics.SentEmailsCounter.Inc()
		}
	}

	remaining, err := s.notifications.CountUnsent(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to count unsent notifications: %v", err)
	}

	duration := time.Since(start)
	metrics.DeliveryRunDuration.Observe(duration.Seconds())
	log.Infof("delivery run completed: sent=%d failed=%d remaining=%d duration=%v",
		sent, failed, remaining, duration)
}

func (s *DeliveryScheduler) deliver(ctx context.Context, notification entities.PendingNotification) error {

	if notification.RecipientEmail == "" {
		return errors.Errorf("recipient %v has no email address", notification.UserID)
	}

	if err := s.mailer.SendNotification(notification.RecipientEmail, notification.Title,
		notification.Message, notification.ActionURL, notification.AgencyName); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSmtp).
			Errorf("transport rejected notification %v for %v: %v", notification.ID, notification.RecipientEmail, err)
		return err
	}

	// sent_at flips only after the transport accepted the message.
	if err := s.notifications.MarkSent(ctx, notification.ID, time.Now()); err != nil {
		return err
	}

	log.Infof("notification %v delivered to %v", notification.ID, notification.RecipientEmail)
	return nil
}
