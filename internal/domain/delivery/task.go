package delivery

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeSend is the asynq task type for sending a delivery.
const TaskTypeSend = "delivery:send"

// SendPayload is the serialized payload for a send task. It carries the
// whole request so the worker does not depend on the delivery log.
type SendPayload struct {
	DeliveryID string      `json:"delivery_id"`
	Request    SendRequest `json:"request"`
}

// NewSendTask creates a new asynq task for sending req.
func NewSendTask(req *SendRequest, deliveryID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SendPayload{DeliveryID: deliveryID, Request: *req})
	if err != nil {
		return nil, fmt.Errorf("marshaling task payload: %w", err)
	}
	return asynq.NewTask(TaskTypeSend, payload), nil
}

// ParseSendPayload deserializes the task payload.
func ParseSendPayload(data []byte) (*SendPayload, error) {
	var p SendPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling task payload: %w", err)
	}
	if p.DeliveryID == "" {
		return nil, fmt.Errorf("task payload has no delivery id")
	}
	return &p, nil
}
