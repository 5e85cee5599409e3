package cron

import (
	"context"
	"fmt"
	"time"

	"barkbox/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskRegistrar wires task handlers into a mux.
type TaskRegistrar interface {
	Register(mux *asynq.ServeMux)
}

// WorkerConfig describes the queue connection and concurrency.
type WorkerConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// NotificationWorker processes queued notification tasks.
type NotificationWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// RedisOpt builds the asynq connection options shared by client and server.
func (c WorkerConfig) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// NewNotificationWorker creates a worker with every registrar's handlers mounted.
func NewNotificationWorker(cfg WorkerConfig, logger *zap.Logger, registrars ...TaskRegistrar) *NotificationWorker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(
		cfg.RedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				tasks.QueueNotifications: 1,
			},
			Logger: logger.Sugar().Named("asynq"),
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				logger.Warn("Notification task failed", zap.String("type", task.Type()), zap.Error(err))
			}),
		},
	)

	mux := asynq.NewServeMux()
	for _, r := range registrars {
		r.Register(mux)
	}
	return &NotificationWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup with backoff.
func (w *NotificationWorker) Start(maxAttempts int) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.srv.Start(w.mux); err == nil {
			w.logger.Info("Notification worker started", zap.String("queue", tasks.QueueNotifications))
			return nil
		}
		w.logger.Warn("Notification worker failed to start",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}
	return fmt.Errorf("failed to start notification worker: %w", err)
}

// Shutdown stops fetching new tasks and waits for in-flight ones.
func (w *NotificationWorker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("Notification worker stopped")
}
