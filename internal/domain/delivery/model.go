package delivery

// Channel names accepted by the API.
const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelTelegram = "telegram"
)

// SendRequest is the API request payload for sending a notification.
type SendRequest struct {
	Notification   string         `json:"notification" binding:"required"`
	Channel        string         `json:"channel" binding:"required,oneof=email sms telegram"`
	To             string         `json:"to" binding:"required"`
	Data           map[string]any `json:"data"`
	IdempotencyKey string         `json:"idempotency_key"`
}

// SendResponse is the API response payload after a delivery is enqueued.
type SendResponse struct {
	ID             string `json:"id"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	Channel        string `json:"channel"`
	Status         string `json:"status"`
}
