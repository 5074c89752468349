package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"client-gate/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "cg:session:"
	uidIndexPrefix   = "cg:uid:"
)

// RedisStore is a Redis-backed session store for multi-instance deployments.
// Implements domain.SessionStore. Besides the session documents it maintains
// a per-uid index set so DeleteByUID does not need a scan.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis session store with the given hard TTL.
func NewRedisStore(addr string, db int, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl:    ttl,
	}
}

// Ping verifies the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get retrieves a session by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	session.ID = id
	return &session, nil
}

// Put stores a session, resetting its hard expiry and indexing it by uid
// when authenticated.
func (s *RedisStore) Put(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, raw, s.ttl)
	if uid := session.User.UID(); uid != "" {
		pipe.SAdd(ctx, uidIndexPrefix+uid, session.ID)
		pipe.Expire(ctx, uidIndexPrefix+uid, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

// Delete removes a session and its uid index entry. Deleting an absent
// session is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+id)
	if uid := session.User.UID(); uid != "" {
		pipe.SRem(ctx, uidIndexPrefix+uid, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// DeleteByUID removes every session belonging to the given identity.
func (s *RedisStore) DeleteByUID(ctx context.Context, uid string) error {
	if uid == "" {
		return nil
	}

	ids, err := s.client.SMembers(ctx, uidIndexPrefix+uid).Result()
	if err != nil {
		return fmt.Errorf("session uid index: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKeyPrefix+id)
	}
	pipe.Del(ctx, uidIndexPrefix+uid)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session delete by uid: %w", err)
	}
	return nil
}
