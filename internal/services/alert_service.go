package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"poupabem/internal/amqp"
	"poupabem/internal/core"
)

// AlertStore is the storage surface the alert dispatcher reads from.
type AlertStore interface {
	ListAlerts(ctx context.Context, userID int64) ([]core.Alert, error)
	ListAlertsDueOn(ctx context.Context, date core.Date) ([]core.Alert, error)
}

// AlertPublisher publishes a due alert for delivery.
type AlertPublisher interface {
	PublishAlertDispatch(ctx context.Context, msg *amqp.AlertDispatchMessage) error
}

// AlertDispatcher finds alerts due on a date and publishes them to the
// dispatch queue. A process-local notified set keeps repeated scans within
// the same run from publishing the same alert twice.
type AlertDispatcher struct {
	store     AlertStore
	publisher AlertPublisher

	mu       sync.Mutex
	notified map[int64]bool
}

func NewAlertDispatcher(store AlertStore, publisher AlertPublisher) *AlertDispatcher {
	return &AlertDispatcher{
		store:     store,
		publisher: publisher,
		notified:  make(map[int64]bool),
	}
}

// DispatchDue publishes every alert due on the given date that has not been
// published by this process yet. It returns how many were dispatched.
func (d *AlertDispatcher) DispatchDue(ctx context.Context, today core.Date) (int, error) {
	due, err := d.store.ListAlertsDueOn(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list due alerts: %w", err)
	}

	dispatched := 0
	for _, a := range due {
		if d.alreadyNotified(a.ID) {
			continue
		}
		if d.publisher == nil {
			slog.WarnContext(ctx, "AMQP client not available, skipping alert dispatch",
				"alert_id", a.ID, "user_id", a.UserID)
			continue
		}
		if err := d.publisher.PublishAlertDispatch(ctx, amqp.NewAlertDispatchMessage(a)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish alert dispatch",
				"alert_id", a.ID, "user_id", a.UserID, "error", err)
			continue
		}
		d.markNotified(a.ID)
		dispatched++
	}

	return dispatched, nil
}

// ForUser classifies the user's alerts against today: the ones firing now
// and the upcoming ones. Past alerts are omitted from both lists.
func (d *AlertDispatcher) ForUser(ctx context.Context, userID int64, today core.Date) (fired, upcoming []core.Alert, err error) {
	alerts, err := d.store.ListAlerts(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list alerts: %w", err)
	}
	return core.DueToday(alerts, today), core.Upcoming(alerts, today), nil
}

func (d *AlertDispatcher) alreadyNotified(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notified[id]
}

func (d *AlertDispatcher) markNotified(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notified[id] = true
}
