package worker

import (
	"context"
	"testing"
	"time"

	"poupabem/internal/amqp"
	"poupabem/internal/core"
	"poupabem/internal/services"
)

type stubStore struct {
	alerts []core.Alert
}

func (s *stubStore) ListAlerts(ctx context.Context, userID int64) ([]core.Alert, error) {
	return s.alerts, nil
}

func (s *stubStore) ListAlertsDueOn(ctx context.Context, date core.Date) ([]core.Alert, error) {
	var out []core.Alert
	for _, a := range s.alerts {
		if a.AlertDate.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubPublisher struct {
	published []*amqp.AlertDispatchMessage
}

func (p *stubPublisher) PublishAlertDispatch(ctx context.Context, msg *amqp.AlertDispatchMessage) error {
	p.published = append(p.published, msg)
	return nil
}

func TestAlertWorker_ScanDispatchesOnce(t *testing.T) {
	store := &stubStore{alerts: []core.Alert{
		{ID: 1, UserID: 1, Title: "Conta de luz", Description: "Vence hoje", AlertDate: core.Today()},
	}}
	pub := &stubPublisher{}
	w := NewAlertWorker(services.NewAlertDispatcher(store, pub), time.Hour)

	w.scan(context.Background())
	w.scan(context.Background())

	if len(pub.published) != 1 {
		t.Errorf("published %d messages, want 1 across repeated scans", len(pub.published))
	}
}

func TestAlertWorker_HandleDispatchMessage(t *testing.T) {
	w := NewAlertWorker(services.NewAlertDispatcher(&stubStore{}, nil), time.Hour)

	msg := amqp.NewAlertDispatchMessage(core.Alert{
		ID: 3, UserID: 9, Title: "Aluguel", AlertDate: core.Today(),
	})
	if err := w.HandleDispatchMessage(context.Background(), msg); err != nil {
		t.Errorf("HandleDispatchMessage() error = %v", err)
	}
}
