package notification

import (
	"context"
	"fmt"
	"time"

	"barkbox/models"
	"barkbox/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// enqueueTimeout bounds how long a request may wait on the queue.
const enqueueTimeout = 2 * time.Second

// Enqueuer is the part of *asynq.Client the dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher turns booking events into asynq email tasks.
type QueueDispatcher struct {
	client Enqueuer
	logger *zap.Logger
}

// NewQueueDispatcher creates a dispatcher enqueuing on client.
func NewQueueDispatcher(client Enqueuer, logger *zap.Logger) *QueueDispatcher {
	return &QueueDispatcher{client: client, logger: logger}
}

func (d *QueueDispatcher) BookingCreated(ctx context.Context, b *models.Booking) error {
	task, opts, err := tasks.NewBookingCreatedTask(b)
	if err != nil {
		return fmt.Errorf("failed to build booking created task: %w", err)
	}
	return d.enqueue(ctx, task, opts)
}

func (d *QueueDispatcher) BookingStatusChanged(ctx context.Context, b *models.Booking) error {
	task, opts, err := tasks.NewBookingStatusTask(b)
	if err != nil {
		return fmt.Errorf("failed to build booking status task: %w", err)
	}
	return d.enqueue(ctx, task, opts)
}

// enqueue detaches from the request's cancellation so a client hang-up after
// the write does not drop the email.
func (d *QueueDispatcher) enqueue(ctx context.Context, task *asynq.Task, opts []asynq.Option) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()

	info, err := d.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}
	d.logger.Debug("Email task enqueued", zap.String("type", task.Type()), zap.String("taskID", info.ID))
	return nil
}

var _ Dispatcher = (*QueueDispatcher)(nil)
