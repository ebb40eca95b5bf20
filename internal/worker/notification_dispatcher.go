package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/giftpromo/internal/adapter/notifier"
	"github.com/polkiloo/giftpromo/internal/domain/model"
)

// PromotionFacade exposes the subset of application functionality required by the dispatcher.
type PromotionFacade interface {
	PendingNotifications(ctx context.Context, limit int) ([]model.GiftNotification, error)
	SendNotification(ctx context.Context, n model.GiftNotification) error
	MarkNotified(ctx context.Context, participantID string) error
}

// NotificationDispatcher polls for undelivered gift links and sends them concurrently.
type NotificationDispatcher struct {
	facade       PromotionFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.GiftNotification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationDispatcher constructs the dispatcher worker pool.
func NewNotificationDispatcher(facade PromotionFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &NotificationDispatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Start launches background delivery.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.jobs = make(chan model.GiftNotification, d.batchSize*d.workers)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx, d.jobs)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx, d.jobs)
}

// Stop waits for all workers to finish.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *NotificationDispatcher) dispatch(ctx context.Context, jobs chan<- model.GiftNotification) {
	defer d.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx, jobs)
		}
	}
}

func (d *NotificationDispatcher) fetchAndDispatch(ctx context.Context, jobs chan<- model.GiftNotification) {
	pending, err := d.facade.PendingNotifications(ctx, d.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			d.logger.Error("fetch pending notifications failed", slog.String("error", err.Error()))
		}
		return
	}
	for _, n := range pending {
		select {
		case <-ctx.Done():
			return
		case jobs <- n:
		}
	}
}

func (d *NotificationDispatcher) worker(ctx context.Context, jobs <-chan model.GiftNotification) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-jobs:
			if !ok {
				return
			}
			d.deliver(ctx, n)
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, n model.GiftNotification) {
	if err := d.facade.SendNotification(ctx, n); err != nil {
		var limited notifier.TooManyRequestsError
		switch {
		case errors.As(err, &limited):
			d.logger.Warn("webhook rate limited", slog.Duration("retry_after", limited.RetryAfter))
			sleep(ctx, limited.RetryAfter)
		case ctx.Err() != nil:
		default:
			d.logger.Error("gift link delivery failed",
				slog.String("participant", n.ParticipantID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	if err := d.facade.MarkNotified(ctx, n.ParticipantID); err != nil {
		d.logger.Error("mark notified failed", slog.String("participant", n.ParticipantID), slog.String("error", err.Error()))
		return
	}
	d.logger.Debug("gift link delivered", slog.String("participant", n.ParticipantID))
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
