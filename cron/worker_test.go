package cron

import (
	"context"
	"testing"

	"barkbox/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingRegistrar struct {
	calls int
}

func (r *countingRegistrar) Register(mux *asynq.ServeMux) {
	r.calls++
	mux.HandleFunc(tasks.TypeBookingCreatedEmail, func(context.Context, *asynq.Task) error { return nil })
}

func TestNewNotificationWorkerRegistersHandlers(t *testing.T) {
	r := &countingRegistrar{}
	w := NewNotificationWorker(WorkerConfig{RedisAddr: "localhost:6379", RedisDB: 2}, zap.NewNop(), r)

	assert.NotNil(t, w.srv)
	assert.Equal(t, 1, r.calls)
}

func TestRedisOpt(t *testing.T) {
	opt := WorkerConfig{RedisAddr: "redis:6379", RedisPassword: "pw", RedisDB: 3}.RedisOpt()
	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 3, opt.DB)
}
