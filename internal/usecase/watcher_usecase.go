package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/ndedov/coinwatch/internal/infra/metrics"
	"github.com/ndedov/coinwatch/internal/repo"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Watcher is the recurring price evaluation loop. Each cycle does one store
// read, at most one batched quote lookup, and one store write, regardless of
// how many alerts fire.
type Watcher struct {
	alerts   *repo.AlertRepo
	quotes   domain.QuoteSource
	notifier domain.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger

	interval     time.Duration
	initialDelay time.Duration

	cron     *cron.Cron
	firstRun *time.Timer
}

func NewWatcher(alerts *repo.AlertRepo, quotes domain.QuoteSource, notifier domain.Notifier, m *metrics.Metrics, logger *zap.Logger, interval, initialDelay time.Duration) *Watcher {
	return &Watcher{
		alerts:       alerts,
		quotes:       quotes,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
		interval:     interval,
		initialDelay: initialDelay,
	}
}

// Start schedules RunCycle on the fixed interval, with one early run after
// the initial delay.
func (w *Watcher) Start() {
	w.cron = cron.New()
	w.cron.Schedule(cron.Every(w.interval), cron.FuncJob(w.runOnce))
	w.firstRun = time.AfterFunc(w.initialDelay, w.runOnce)
	w.cron.Start()
	w.logger.Info("price watcher started", zap.Duration("interval", w.interval))
}

// Stop cancels the schedule and waits for an in-flight cycle to finish. A
// started cycle always runs to completion so alerts are never left half
// updated.
func (w *Watcher) Stop() {
	if w.firstRun != nil {
		w.firstRun.Stop()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	w.logger.Info("price watcher stopped")
}

func (w *Watcher) runOnce() {
	// Deliberately not tied to the process context: shutdown waits for the
	// cycle instead of cancelling it mid-write.
	if err := w.RunCycle(context.Background()); err != nil {
		w.logger.Warn("evaluation cycle aborted", zap.Error(err))
	}
}

// RunCycle executes exactly one evaluation cycle synchronously. The whole
// cycle runs inside the alert store's critical section: load, one batched
// lookup, trigger evaluation, then a single full-document write. A failed
// lookup aborts before any mutation; the next scheduled cycle is the retry.
func (w *Watcher) RunCycle(ctx context.Context) error {
	w.metrics.CyclesTotal.Inc()

	return w.alerts.Update(ctx, func(book domain.AlertBook) (bool, error) {
		if len(book) == 0 {
			return false, nil
		}

		prices, err := w.quotes.Prices(ctx, book.CoinIDs())
		if err != nil {
			w.metrics.CyclesAborted.Inc()
			return false, err
		}

		changed := false
		for userID, alerts := range book {
			kept := make([]domain.Alert, 0, len(alerts))
			for _, alert := range alerts {
				quote, ok := prices[alert.Coin]
				if !ok {
					// No quote this cycle: keep the alert for a future one.
					kept = append(kept, alert)
					continue
				}
				if !alert.Satisfied(quote) {
					kept = append(kept, alert)
					continue
				}

				// Trigger: at most one notification, removed regardless of
				// delivery.
				changed = true
				w.metrics.AlertsTriggered.Inc()
				text := fmt.Sprintf("🚨 %s $%s hit %s $%s!",
					strings.ToUpper(alert.Symbol), quote.StringFixed(2), alert.Direction, alert.Price)
				if err := w.notifier.Notify(userID, text); err != nil {
					w.metrics.NotifyFailures.Inc()
					w.logger.Warn("failed to deliver trigger notification",
						zap.String("user_id", userID), zap.Error(err))
				}
			}
			if len(kept) == 0 {
				delete(book, userID)
			} else {
				book[userID] = kept
			}
		}
		return changed, nil
	})
}
