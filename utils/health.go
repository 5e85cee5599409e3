package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every dependency answered the last ping.
func (h HealthStatus) Healthy() bool {
	if !h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

// HealthMonitor periodically pings MongoDB and Redis and keeps the last result.
type HealthMonitor struct {
	mongo    *mongo.Client
	redis    []*redis.Client
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	current HealthStatus
}

// NewHealthMonitor creates a monitor; call Start to begin checking.
func NewHealthMonitor(mongoClient *mongo.Client, redisClients []*redis.Client, interval time.Duration, logger *zap.Logger) *HealthMonitor {
	return &HealthMonitor{mongo: mongoClient, redis: redisClients, interval: interval, logger: logger}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Start checks once immediately, then on every tick until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.check(ctx)
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.check(ctx)
			}
		}
	}()
}

func (m *HealthMonitor) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var redisHealth []bool
	for _, client := range m.redis {
		err := client.Ping(ctx).Err()
		if err != nil {
			m.logger.Warn("Redis health check failed", zap.Error(err))
		}
		redisHealth = append(redisHealth, err == nil)
	}

	mongoHealthy := true
	if err := m.mongo.Ping(ctx, nil); err != nil {
		m.logger.Warn("MongoDB health check failed", zap.Error(err))
		mongoHealthy = false
	}

	m.mu.Lock()
	m.current = HealthStatus{
		Mongo:     mongoHealthy,
		Redis:     redisHealth,
		CheckedAt: time.Now(),
	}
	m.mu.Unlock()
}
