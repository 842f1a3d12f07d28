package delivery

import (
	"context"
	"fmt"
	"log/slog"

	"notifier/internal/catalog"
	"notifier/internal/common"
	"notifier/pkg/dispatch"

	"github.com/google/uuid"
)

// Service validates send requests and hands them to the queue.
// Flow: decode → validate against the notifier → check idempotency → log → enqueue.
type Service struct {
	catalog  *catalog.Catalog
	notifier *dispatch.Notifier
	enqueuer Enqueuer
	store    Store
	guard    IdempotencyGuard
}

// NewService creates a new delivery service. store and guard may be nil, which
// disables the delivery log and idempotency keys respectively.
func NewService(cat *catalog.Catalog, notifier *dispatch.Notifier, enqueuer Enqueuer, store Store, guard IdempotencyGuard) *Service {
	return &Service{
		catalog:  cat,
		notifier: notifier,
		enqueuer: enqueuer,
		store:    store,
		guard:    guard,
	}
}

// Enqueue validates req, checks its idempotency key, records it and enqueues
// it for the worker.
func (s *Service) Enqueue(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	notification, err := s.catalog.Decode(req.Notification, req.Data)
	if err != nil {
		return nil, err
	}
	contact, err := catalog.DecodeContact(req.Channel, req.To)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.Validate(notification.NotificationID(), contact); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	if req.IdempotencyKey != "" && s.guard != nil {
		existingID, claimed, err := s.guard.Claim(ctx, req.IdempotencyKey, id)
		switch {
		case err != nil:
			slog.Error("idempotency check failed", "key", req.IdempotencyKey, "error", err)
			// Don't fail the request; proceed without idempotency protection
		case !claimed:
			slog.Info("idempotent request, returning existing delivery",
				"idempotency_key", req.IdempotencyKey,
				"existing_id", existingID,
			)
			return s.existing(ctx, req, existingID), nil
		}
	}

	if s.store != nil {
		d := &Delivery{
			ID:             id,
			IdempotencyKey: req.IdempotencyKey,
			Notification:   req.Notification,
			Channel:        req.Channel,
			Recipient:      req.To,
			Data:           req.Data,
			Status:         StatusQueued,
		}
		if err := s.store.Create(ctx, d); err != nil {
			s.release(ctx, req.IdempotencyKey)
			return nil, fmt.Errorf("creating delivery log: %w", err)
		}
	}

	if err := s.enqueuer.EnqueueDelivery(req, id); err != nil {
		if s.store != nil {
			_ = s.store.UpdateStatus(ctx, id, StatusFailed, "failed to enqueue: "+err.Error())
		}
		s.release(ctx, req.IdempotencyKey)
		return nil, fmt.Errorf("enqueuing delivery: %w", err)
	}

	slog.Info("delivery enqueued",
		"id", id,
		"notification", req.Notification,
		"channel", req.Channel,
		"to", req.To,
	)

	return &SendResponse{
		ID:             id,
		IdempotencyKey: req.IdempotencyKey,
		Channel:        req.Channel,
		Status:         string(StatusQueued),
	}, nil
}

func (s *Service) existing(ctx context.Context, req *SendRequest, id string) *SendResponse {
	resp := &SendResponse{
		ID:             id,
		IdempotencyKey: req.IdempotencyKey,
		Channel:        req.Channel,
		Status:         string(StatusQueued),
	}
	if s.store == nil {
		return resp
	}

	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		slog.Error("fetching existing delivery failed", "id", id, "error", err)
		return resp
	}
	if d != nil {
		resp.Channel = d.Channel
		resp.Status = string(d.Status)
	}
	return resp
}

func (s *Service) release(ctx context.Context, key string) {
	if key == "" || s.guard == nil {
		return
	}
	if err := s.guard.Release(ctx, key); err != nil {
		slog.Error("releasing idempotency key failed", "key", key, "error", err)
	}
}

// GetDelivery retrieves a delivery by ID.
func (s *Service) GetDelivery(ctx context.Context, id string) (*Delivery, error) {
	if s.store == nil {
		return nil, common.NewNotFoundError("delivery", id)
	}
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching delivery: %w", err)
	}
	if d == nil {
		return nil, common.NewNotFoundError("delivery", id)
	}
	return d, nil
}

// ListDeliveries retrieves deliveries with pagination and filtering.
func (s *Service) ListDeliveries(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	filter.Normalize()

	resp := &ListResponse{
		Deliveries: []*Delivery{},
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}
	if s.store == nil {
		return resp, nil
	}

	deliveries, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	if deliveries != nil {
		resp.Deliveries = deliveries
	}
	resp.Total = total
	return resp, nil
}
