// Package worker runs the alert dispatch loop: a periodic scan publishes due
// alerts to the queue, and the consumer side delivers what arrives there.
package worker

import (
	"context"
	"log/slog"
	"time"

	"poupabem/internal/amqp"
	"poupabem/internal/core"
	"poupabem/internal/services"
)

// AlertWorker drives the alert dispatcher on a schedule and handles the
// dispatch messages coming back off the queue.
type AlertWorker struct {
	dispatcher *services.AlertDispatcher
	interval   time.Duration
}

func NewAlertWorker(dispatcher *services.AlertDispatcher, interval time.Duration) *AlertWorker {
	return &AlertWorker{dispatcher: dispatcher, interval: interval}
}

// RunScanLoop scans immediately and then on every tick until the context is
// cancelled. The dispatcher's notified set makes repeat ticks within the
// same day idempotent.
func (w *AlertWorker) RunScanLoop(ctx context.Context) {
	w.scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Alert scan loop stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *AlertWorker) scan(ctx context.Context) {
	today := core.Today()
	n, err := w.dispatcher.DispatchDue(ctx, today)
	if err != nil {
		slog.ErrorContext(ctx, "Alert scan failed", "error", err, "date", today.String())
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "Alerts dispatched", "count", n, "date", today.String())
	}
}

// HandleDispatchMessage processes one alert dispatch message from the queue.
// Delivery here means logging the notification; the mobile client picks the
// fired alerts up through the API.
func (w *AlertWorker) HandleDispatchMessage(ctx context.Context, msg *amqp.AlertDispatchMessage) error {
	slog.InfoContext(ctx, "Alert notification delivered",
		"alert_id", msg.AlertID,
		"user_id", msg.UserID,
		"title", msg.Title,
		"alert_date", msg.AlertDate)
	return nil
}
