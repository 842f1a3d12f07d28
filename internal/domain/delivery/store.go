package delivery

import "context"

// Store persists delivery records. Implementations live in infra/store/.
type Store interface {
	// Create inserts a new delivery record.
	Create(ctx context.Context, d *Delivery) error

	// GetByID retrieves a delivery by its ID. Returns nil, nil if no record is found.
	GetByID(ctx context.Context, id string) (*Delivery, error)

	// UpdateStatus updates the status of a delivery.
	UpdateStatus(ctx context.Context, id string, status Status, errMsg string) error

	// List retrieves deliveries with pagination and filtering.
	List(ctx context.Context, filter ListFilter) ([]*Delivery, int, error)
}

// IdempotencyGuard remembers which delivery claimed an idempotency key.
// Implementations live in infra/idempotency/.
type IdempotencyGuard interface {
	// Claim stores deliveryID under key unless the key is taken. It returns the
	// delivery id stored under key and whether this call stored it.
	Claim(ctx context.Context, key, deliveryID string) (string, bool, error)

	// Release forgets key.
	Release(ctx context.Context, key string) error
}

// Enqueuer hands a delivery to the worker queue.
type Enqueuer interface {
	EnqueueDelivery(req *SendRequest, deliveryID string) error
}
