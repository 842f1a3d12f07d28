package delivery_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"notifier/internal/catalog"
	"notifier/internal/domain/delivery"
	"notifier/pkg/channel/email"
	"notifier/pkg/dispatch"
	"notifier/pkg/engine/liquid"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type memStore struct {
	mu         sync.Mutex
	deliveries map[string]*delivery.Delivery
	createErr  error
}

func newMemStore() *memStore {
	return &memStore{deliveries: make(map[string]*delivery.Delivery)}
}

func (s *memStore) Create(_ context.Context, d *delivery.Delivery) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.deliveries[d.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*delivery.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id string, status delivery.Status, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[id]
	if !ok {
		return errors.New("not found")
	}
	d.Status = status
	d.ErrorMessage = errMsg
	return nil
}

func (s *memStore) List(_ context.Context, filter delivery.ListFilter) ([]*delivery.Delivery, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*delivery.Delivery
	for _, d := range s.deliveries {
		if filter.Channel != "" && d.Channel != filter.Channel {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, len(out), nil
}

type fakeEnqueuer struct {
	err   error
	tasks []delivery.SendPayload
}

func (e *fakeEnqueuer) EnqueueDelivery(req *delivery.SendRequest, deliveryID string) error {
	if e.err != nil {
		return e.err
	}
	e.tasks = append(e.tasks, delivery.SendPayload{DeliveryID: deliveryID, Request: *req})
	return nil
}

type fakeGuard struct {
	keys     map[string]string
	released []string
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{keys: make(map[string]string)}
}

func (g *fakeGuard) Claim(_ context.Context, key, deliveryID string) (string, bool, error) {
	if existing, ok := g.keys[key]; ok {
		return existing, false, nil
	}
	g.keys[key] = deliveryID
	return deliveryID, true, nil
}

func (g *fakeGuard) Release(_ context.Context, key string) error {
	delete(g.keys, key)
	g.released = append(g.released, key)
	return nil
}

type recordingEmail struct {
	err  error
	sent []*email.Message
}

func (r *recordingEmail) Name() string { return "recording" }

func (r *recordingEmail) Send(_ context.Context, msg *email.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// newNotifier builds a frozen notifier with only the email channel and the
// default catalog registered.
func newNotifier(t *testing.T, provider email.Provider) *dispatch.Notifier {
	t.Helper()
	n := dispatch.New(liquid.NewEngine(), dispatch.WithLogger(discard))
	require.NoError(t, n.RegisterChannel(email.New(provider, email.Options{
		DefaultSender: email.NewAddress("no-reply@example.com"),
	}).Erased()))
	require.NoError(t, catalog.Default().Register(n, discard))
	n.Freeze()
	return n
}

func welcomeRequest() *delivery.SendRequest {
	return &delivery.SendRequest{
		Notification: "welcome",
		Channel:      delivery.ChannelEmail,
		To:           "ada@example.com",
		Data:         map[string]any{"name": "Ada"},
	}
}
