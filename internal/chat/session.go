package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mergerscan/pkg/llm"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "mergerscan:chat:"
	DefaultSessionTTL = 24 * time.Hour
)

// Session is the conversation state kept between turns. Summary replaces the
// messages that were compacted away.
type Session struct {
	Summary  string        `json:"summary,omitempty"`
	Messages []llm.Message `json:"messages"`
}

type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, s *Session) error
}

// RedisSessionStore keeps each session as one JSON value that expires after ttl
// without activity.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

// Load returns nil, nil for an unknown or expired session.
func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
