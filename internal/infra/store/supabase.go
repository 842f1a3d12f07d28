package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notifier/internal/domain/delivery"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const tableName = "deliveries"

var _ delivery.Store = (*SupabaseStore)(nil)

// SupabaseStore implements delivery.Store using the Supabase Go SDK.
type SupabaseStore struct {
	client *supa.Client
}

// NewSupabaseStore creates a new Supabase-backed delivery store.
func NewSupabaseStore(supabaseURL, serviceKey string) (*SupabaseStore, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

// supabaseRow is the PostgREST representation of a delivery.
type supabaseRow struct {
	ID             string         `json:"id"`
	IdempotencyKey *string        `json:"idempotency_key,omitempty"`
	Notification   string         `json:"notification"`
	Channel        string         `json:"channel"`
	Recipient      string         `json:"recipient"`
	Data           map[string]any `json:"data,omitempty"`
	Status         string         `json:"status"`
	ErrorMessage   *string        `json:"error_message,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	UpdatedAt      string         `json:"updated_at,omitempty"`
	SentAt         *string        `json:"sent_at,omitempty"`
}

// Create inserts a new delivery record.
func (s *SupabaseStore) Create(ctx context.Context, d *delivery.Delivery) error {
	row := logToRow(d)

	data, _, err := s.client.From(tableName).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting delivery: %w", err)
	}

	var results []supabaseRow
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		saved := rowToDelivery(&results[0])
		d.CreatedAt = saved.CreatedAt
		d.UpdatedAt = saved.UpdatedAt
	}

	return nil
}

// GetByID retrieves a delivery by its ID.
// Returns nil, nil if no record is found.
func (s *SupabaseStore) GetByID(ctx context.Context, id string) (*delivery.Delivery, error) {
	data, _, err := s.client.From(tableName).Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching delivery: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing delivery: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToDelivery(&rows[0]), nil
}

// UpdateStatus updates the status of a delivery.
func (s *SupabaseStore) UpdateStatus(ctx context.Context, id string, status delivery.Status, errMsg string) error {
	_, _, err := s.client.From(tableName).Update(statusUpdate(status, errMsg, time.Now()), "", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("updating delivery status: %w", err)
	}

	return nil
}

// List retrieves deliveries with pagination and filtering.
func (s *SupabaseStore) List(ctx context.Context, filter delivery.ListFilter) ([]*delivery.Delivery, int, error) {
	filter.Normalize()
	offset := (filter.Page - 1) * filter.PageSize

	query := s.client.From(tableName).Select("*", "exact", false)

	if filter.Status != "" {
		query = query.Eq("status", filter.Status)
	}
	if filter.Recipient != "" {
		query = query.Eq("recipient", filter.Recipient)
	}
	if filter.Channel != "" {
		query = query.Eq("channel", filter.Channel)
	}
	if filter.Notification != "" {
		query = query.Eq("notification", filter.Notification)
	}

	// Order by created_at desc, paginate
	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	query = query.Range(offset, offset+filter.PageSize-1, "")

	data, count, err := query.Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("listing deliveries: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing delivery list: %w", err)
	}

	deliveries := make([]*delivery.Delivery, len(rows))
	for i := range rows {
		deliveries[i] = rowToDelivery(&rows[i])
	}

	return deliveries, int(count), nil
}

// statusUpdate builds the column changes for a status transition.
func statusUpdate(status delivery.Status, errMsg string, now time.Time) map[string]any {
	ts := now.UTC().Format(time.RFC3339Nano)

	update := map[string]any{
		"status":     string(status),
		"updated_at": ts,
	}
	if errMsg != "" {
		update["error_message"] = errMsg
	}
	if status == delivery.StatusSent {
		update["sent_at"] = ts
	}
	return update
}

func logToRow(d *delivery.Delivery) supabaseRow {
	row := supabaseRow{
		ID:           d.ID,
		Notification: d.Notification,
		Channel:      d.Channel,
		Recipient:    d.Recipient,
		Data:         d.Data,
		Status:       string(d.Status),
	}
	if d.IdempotencyKey != "" {
		row.IdempotencyKey = &d.IdempotencyKey
	}
	if d.ErrorMessage != "" {
		row.ErrorMessage = &d.ErrorMessage
	}
	return row
}

// rowToDelivery converts a supabaseRow to a Delivery.
func rowToDelivery(row *supabaseRow) *delivery.Delivery {
	d := &delivery.Delivery{
		ID:           row.ID,
		Notification: row.Notification,
		Channel:      row.Channel,
		Recipient:    row.Recipient,
		Data:         row.Data,
		Status:       delivery.Status(row.Status),
	}

	if row.IdempotencyKey != nil {
		d.IdempotencyKey = *row.IdempotencyKey
	}
	if row.ErrorMessage != nil {
		d.ErrorMessage = *row.ErrorMessage
	}
	if t, ok := parseTime(row.CreatedAt); ok {
		d.CreatedAt = t
	}
	if t, ok := parseTime(row.UpdatedAt); ok {
		d.UpdatedAt = t
	}
	if row.SentAt != nil {
		if t, ok := parseTime(*row.SentAt); ok {
			d.SentAt = &t
		}
	}

	return d
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
