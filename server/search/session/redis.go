package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// Compile-time check: RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

// RedisStore keeps sessions in Redis so multiple instances can serve
// continuation requests for the same user. Expiry is delegated to key TTLs,
// set to the manager's idle timeout on every write.
type RedisStore struct {
	client rueidis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at addr and stores sessions with the given
// TTL.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used in tests.
func NewRedisStoreWithClient(client rueidis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(userID int32) string {
	return fmt.Sprintf("lifeinbox:session:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int32) (*Session, error) {
	cmd := s.client.B().Get().Key(sessionKey(userID)).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Put(ctx context.Context, userID int32, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	cmd := s.client.B().Set().Key(sessionKey(userID)).Value(string(data)).Ex(s.ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int32) error {
	cmd := s.client.B().Del().Key(sessionKey(userID)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Sweep is a no-op: keys expire via their TTL.
func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() {
	s.client.Close()
}
