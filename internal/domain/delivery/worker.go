package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notifier/internal/catalog"
	"notifier/pkg/dispatch"
)

// Worker processes delivery tasks from the queue.
// It decodes the request, sends it through the notifier and records the outcome.
type Worker struct {
	catalog  *catalog.Catalog
	notifier *dispatch.Notifier
	store    Store
}

// NewWorker creates a new delivery worker. store may be nil.
func NewWorker(cat *catalog.Catalog, notifier *dispatch.Notifier, store Store) *Worker {
	return &Worker{
		catalog:  cat,
		notifier: notifier,
		store:    store,
	}
}

// ProcessTask handles a send task from the queue.
func (w *Worker) ProcessTask(ctx context.Context, p *SendPayload) error {
	start := time.Now()
	req := &p.Request

	w.updateStatus(ctx, p.DeliveryID, StatusProcessing, "")

	notification, err := w.catalog.Decode(req.Notification, req.Data)
	if err != nil {
		return w.fail(ctx, p, err, start)
	}
	contact, err := catalog.DecodeContact(req.Channel, req.To)
	if err != nil {
		return w.fail(ctx, p, err, start)
	}

	if err := w.notifier.Send(ctx, notification, contact); err != nil {
		return w.fail(ctx, p, err, start)
	}

	w.updateStatus(ctx, p.DeliveryID, StatusSent, "")

	slog.Info("delivery sent",
		"id", p.DeliveryID,
		"notification", req.Notification,
		"channel", req.Channel,
		"to", req.To,
		"duration", time.Since(start),
	)
	return nil
}

func (w *Worker) fail(ctx context.Context, p *SendPayload, err error, start time.Time) error {
	w.updateStatus(ctx, p.DeliveryID, StatusFailed, err.Error())

	slog.Error("delivery failed",
		"id", p.DeliveryID,
		"notification", p.Request.Notification,
		"channel", p.Request.Channel,
		"to", p.Request.To,
		"error", err,
		"duration", time.Since(start),
	)
	return fmt.Errorf("delivery %s: %w", p.DeliveryID, err)
}

func (w *Worker) updateStatus(ctx context.Context, id string, status Status, errMsg string) {
	if w.store == nil {
		return
	}
	if err := w.store.UpdateStatus(ctx, id, status, errMsg); err != nil {
		slog.Error("failed to update delivery status", "id", id, "status", status, "error", err)
	}
}
