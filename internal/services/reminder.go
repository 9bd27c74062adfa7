package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sportify-app/apiserver/types"
	"go.uber.org/zap"
)

// MatchSchedule lists matches by start time.
type MatchSchedule interface {
	StartingBetween(ctx context.Context, from, to time.Time) ([]types.Match, error)
}

// Reminder periodically announces matches that are about to start. A run at
// time t covers matches starting up to t+lead+interval, beginning where the
// previous run stopped, so late or skipped ticks neither drop nor repeat a
// match within one process.
type Reminder struct {
	matches  MatchSchedule
	notifier Notifier
	interval time.Duration
	lead     time.Duration
	logger   *zap.Logger

	mu sync.Mutex
	// next is where the following window starts; zero before the first run.
	next time.Time

	scheduler gocron.Scheduler
}

func NewReminder(matches MatchSchedule, notifier Notifier, interval, lead time.Duration, logger *zap.Logger) *Reminder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminder{
		matches:  matches,
		notifier: notifier,
		interval: interval,
		lead:     lead,
		logger:   logger,
	}
}

// RunOnce publishes a reminder for every match starting in [from, to), where
// to is now+lead+interval and from is the previous run's to (now+lead on the
// first run). Matches that already started are not announced. A failed
// lookup leaves the window open for the next run. It returns how many
// reminders were published.
func (r *Reminder) RunOnce(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	to := now.Add(r.lead + r.interval)
	from := now.Add(r.lead)
	if !r.next.IsZero() {
		from = r.next
		if from.Before(now) {
			from = now
		}
	}
	if !from.Before(to) {
		return 0, nil
	}

	matches, err := r.matches.StartingBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("list upcoming matches: %w", err)
	}
	r.next = to

	sent := 0
	for _, match := range matches {
		err := r.notifier.Notify(ctx, Notification{
			Type:    NotificationMatchReminder,
			MatchID: match.ID,
			UserID:  match.OrganizerID,
			Title:   match.Title,
			Date:    match.Date,
		})
		if err != nil {
			r.logger.Warn("publish reminder failed", zap.Int("match_id", match.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

// Start schedules RunOnce every interval.
func (r *Reminder) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), r.interval)
			defer cancel()

			sent, err := r.RunOnce(ctx, time.Now().UTC())
			if err != nil {
				r.logger.Error("reminder run failed", zap.Error(err))
				return
			}
			if sent > 0 {
				r.logger.Info("match reminders sent", zap.Int("count", sent))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	r.scheduler = scheduler
	r.logger.Info("match reminder started",
		zap.Duration("interval", r.interval),
		zap.Duration("lead", r.lead),
	)
	return nil
}

func (r *Reminder) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}
