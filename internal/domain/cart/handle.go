// internal/domain/cart/handle.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-cart/internal/events"
)

// HandleStore owns the persisted cart handle. Nothing else reads or
// writes the underlying key. Get returns ("", nil) when no handle is
// persisted.
type HandleStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, handle string) error
	Clear(ctx context.Context, sessionID string) error
}

const handleChangedChannel = "cart.handle.changed"

// RedisHandleStore persists cart handles in Redis, one key per browser
// session. It keeps no in-memory copy: every Get hits Redis, so a
// handle written by another tab or instance is always observed. Set and
// Clear announce the change on a pub/sub channel for cross-instance
// subscribers.
type RedisHandleStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisHandleStore creates a Redis-backed handle store
func NewRedisHandleStore(client *redis.Client, ttl time.Duration) *RedisHandleStore {
	return &RedisHandleStore{
		client: client,
		ttl:    ttl,
	}
}

func handleKey(sessionID string) string {
	return fmt.Sprintf("cart:handle:%s", sessionID)
}

// Get returns the persisted handle, or "" when absent
func (s *RedisHandleStore) Get(ctx context.Context, sessionID string) (string, error) {
	handle, err := s.client.Get(ctx, handleKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cart handle: %w", err)
	}
	return handle, nil
}

// Set persists the handle and announces the change
func (s *RedisHandleStore) Set(ctx context.Context, sessionID, handle string) error {
	if err := s.client.Set(ctx, handleKey(sessionID), handle, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist cart handle: %w", err)
	}
	s.client.Publish(ctx, handleChangedChannel, sessionID)
	return nil
}

// Clear removes the handle and announces the change
func (s *RedisHandleStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, handleKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart handle: %w", err)
	}
	s.client.Publish(ctx, handleChangedChannel, sessionID)
	return nil
}

// HandleWatcher republishes external handle changes onto the in-process
// bus so connected UI surfaces refresh when another tab mutates the
// same session's cart.
type HandleWatcher struct {
	client *redis.Client
	bus    *events.Bus
	logger *logrus.Logger
}

// NewHandleWatcher creates a watcher over the handle-changed channel
func NewHandleWatcher(client *redis.Client, bus *events.Bus, logger *logrus.Logger) *HandleWatcher {
	return &HandleWatcher{
		client: client,
		bus:    bus,
		logger: logger,
	}
}

// Run subscribes and forwards until ctx is cancelled
func (w *HandleWatcher) Run(ctx context.Context) {
	pubsub := w.client.Subscribe(ctx, handleChangedChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.logger.WithField("session_id", msg.Payload).Debug("cart handle changed externally")
			w.bus.Publish(events.CartChanged)
		}
	}
}
