package queue

import (
	"fmt"

	"notifier/internal/domain/delivery"

	"github.com/hibiken/asynq"
)

// QueueName is the asynq queue delivery tasks are placed on.
const QueueName = "deliveries"

// NewClient creates a new asynq client connected to Redis.
func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(redisOpt(redisAddr, password, db))
}

// NewServer creates a new asynq server connected to Redis.
func NewServer(redisAddr, password string, db int, concurrency int) *asynq.Server {
	return asynq.NewServer(
		redisOpt(redisAddr, password, db),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				QueueName: 10, // priority weight
				"default": 1,
			},
		},
	)
}

func redisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
}

var _ delivery.Enqueuer = (*Enqueuer)(nil)

// Enqueuer places delivery tasks on the queue.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer wraps an asynq client.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueDelivery enqueues a send task for req. Failed deliveries are not
// retried.
func (e *Enqueuer) EnqueueDelivery(req *delivery.SendRequest, deliveryID string) error {
	task, err := delivery.NewSendTask(req, deliveryID)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	_, err = e.client.Enqueue(task,
		asynq.MaxRetry(0),
		asynq.Queue(QueueName),
		asynq.TaskID(deliveryID),
	)
	if err != nil {
		return fmt.Errorf("enqueuing task: %w", err)
	}

	return nil
}
