package delivery

import "time"

// Status is the state of a delivery.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Delivery is a persisted delivery record.
type Delivery struct {
	ID             string         `json:"id"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	Notification   string         `json:"notification"`
	Channel        string         `json:"channel"`
	Recipient      string         `json:"recipient"`
	Data           map[string]any `json:"data,omitempty"`
	Status         Status         `json:"status"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
}

// ListFilter defines pagination and filtering options for listing deliveries.
type ListFilter struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Status       string `form:"status"`
	Recipient    string `form:"recipient"`
	Channel      string `form:"channel"`
	Notification string `form:"notification"`
}

// Normalize applies the default page and page size.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}

// ListResponse wraps a paginated list of deliveries.
type ListResponse struct {
	Deliveries []*Delivery `json:"deliveries"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}
