package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when a cart operation is attempted without a session identifier.
var ErrNoSession = errors.New("session id is required")

const cartKeyPrefix = "printcart:"

var toggleScript = redis.NewScript(`
local removed = redis.call('LREM', KEYS[1], 0, ARGV[1])
if removed == 0 then
	redis.call('RPUSH', KEYS[1], ARGV[1])
end
local size = redis.call('LLEN', KEYS[1])
if size > 0 then
	redis.call('EXPIRE', KEYS[1], ARGV[2])
end
local added = 0
if removed == 0 then
	added = 1
end
return {size, added}
`)

var drainScript = redis.NewScript(`
local ids = redis.call('LRANGE', KEYS[1], 0, -1)
redis.call('DEL', KEYS[1])
return ids
`)

var restoreScript = redis.NewScript(`
local current = redis.call('LRANGE', KEYS[1], 0, -1)
redis.call('DEL', KEYS[1])
local seen = {}
for i = 2, #ARGV do
	if not seen[ARGV[i]] then
		seen[ARGV[i]] = true
		redis.call('RPUSH', KEYS[1], ARGV[i])
	end
end
for _, id in ipairs(current) do
	if not seen[id] then
		seen[id] = true
		redis.call('RPUSH', KEYS[1], id)
	end
end
local size = redis.call('LLEN', KEYS[1])
if size > 0 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return size
`)

// CartStore keeps the ordered print cart of each session in a Redis list.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore constructs a cart store whose lists expire after ttl of inactivity.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

func (s *CartStore) ttlSeconds() int64 {
	seconds := int64(s.ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// Toggle adds id when absent and removes it when present. It reports the new size and whether id was added.
func (s *CartStore) Toggle(ctx context.Context, sessionID, id string) (int, bool, error) {
	if sessionID == "" {
		return 0, false, ErrNoSession
	}

	result, err := toggleScript.Run(ctx, s.client, []string{cartKey(sessionID)}, id, s.ttlSeconds()).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("toggle cart: %w", err)
	}
	if len(result) != 2 {
		return 0, false, fmt.Errorf("toggle cart: unexpected reply %v", result)
	}
	return int(result[0]), result[1] == 1, nil
}

// List returns the carted ids in insertion order and refreshes the expiry.
func (s *CartStore) List(ctx context.Context, sessionID string) ([]string, error) {
	if sessionID == "" {
		return []string{}, nil
	}

	key := cartKey(sessionID)
	var ids *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		ids = pipe.LRange(ctx, key, 0, -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return ids.Val(), nil
}

// Clear empties the cart. Clearing an empty cart is a no-op.
func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Drain atomically returns and removes every carted id.
func (s *CartStore) Drain(ctx context.Context, sessionID string) ([]string, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	ids, err := drainScript.Run(ctx, s.client, []string{cartKey(sessionID)}).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("drain cart: %w", err)
	}
	return ids, nil
}

// Restore puts drained ids back in front of whatever the session carted since.
func (s *CartStore) Restore(ctx context.Context, sessionID string, ids []string) error {
	if sessionID == "" || len(ids) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, s.ttlSeconds())
	for _, id := range ids {
		args = append(args, id)
	}

	if err := restoreScript.Run(ctx, s.client, []string{cartKey(sessionID)}, args...).Err(); err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	return nil
}
