package delivery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/catalog"
	"notifier/internal/domain/delivery"
	"notifier/pkg/dispatch"
)

func seed(t *testing.T, store *memStore, id string, req *delivery.SendRequest) *delivery.SendPayload {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &delivery.Delivery{
		ID:           id,
		Notification: req.Notification,
		Channel:      req.Channel,
		Recipient:    req.To,
		Status:       delivery.StatusQueued,
	}))
	return &delivery.SendPayload{DeliveryID: id, Request: *req}
}

func TestWorker_ProcessTask(t *testing.T) {
	provider := &recordingEmail{}
	store := newMemStore()
	w := delivery.NewWorker(catalog.Default(), newNotifier(t, provider), store)

	p := seed(t, store, "d1", welcomeRequest())
	require.NoError(t, w.ProcessTask(context.Background(), p))

	require.Len(t, provider.sent, 1)
	assert.Equal(t, "ada@example.com", provider.sent[0].To.Email)
	assert.Contains(t, provider.sent[0].Contents.HTML, "Ada")

	d, _ := store.GetByID(context.Background(), "d1")
	assert.Equal(t, delivery.StatusSent, d.Status)
}

func TestWorker_ProcessTaskTransportFailure(t *testing.T) {
	provider := &recordingEmail{err: errors.New("smtp timeout")}
	store := newMemStore()
	w := delivery.NewWorker(catalog.Default(), newNotifier(t, provider), store)

	p := seed(t, store, "d2", welcomeRequest())
	err := w.ProcessTask(context.Background(), p)

	var transport *dispatch.TransportError
	require.True(t, errors.As(err, &transport), "got %v", err)

	d, _ := store.GetByID(context.Background(), "d2")
	assert.Equal(t, delivery.StatusFailed, d.Status)
	assert.Contains(t, d.ErrorMessage, "smtp timeout")
}

func TestWorker_ProcessTaskBadPayload(t *testing.T) {
	provider := &recordingEmail{}
	store := newMemStore()
	w := delivery.NewWorker(catalog.Default(), newNotifier(t, provider), store)

	req := welcomeRequest()
	req.Notification = "gone"
	p := seed(t, store, "d3", req)

	require.Error(t, w.ProcessTask(context.Background(), p))
	assert.Empty(t, provider.sent)

	d, _ := store.GetByID(context.Background(), "d3")
	assert.Equal(t, delivery.StatusFailed, d.Status)
}

func TestWorker_WithoutStore(t *testing.T) {
	provider := &recordingEmail{}
	w := delivery.NewWorker(catalog.Default(), newNotifier(t, provider), nil)

	require.NoError(t, w.ProcessTask(context.Background(), &delivery.SendPayload{DeliveryID: "d4", Request: *welcomeRequest()}))
	assert.Len(t, provider.sent, 1)
}

func TestSendTask(t *testing.T) {
	task, err := delivery.NewSendTask(welcomeRequest(), "d5")
	require.NoError(t, err)
	assert.Equal(t, delivery.TaskTypeSend, task.Type())

	p, err := delivery.ParseSendPayload(task.Payload())
	require.NoError(t, err)
	assert.Equal(t, "d5", p.DeliveryID)
	assert.Equal(t, "Ada", p.Request.Data["name"])

	_, err = delivery.ParseSendPayload([]byte(`{"request":{}}`))
	assert.Error(t, err)

	_, err = delivery.ParseSendPayload([]byte(`not json`))
	assert.Error(t, err)
}
