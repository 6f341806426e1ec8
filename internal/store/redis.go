package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/greyline-systems/honeytrap/internal/session"
)

// Redis persists sessions in Redis with a TTL, under a namespaced key per
// session id. Records the backend expires are simply gone; the store layer
// creates a fresh session in that case.
type Redis struct {
	pool *redis.Pool
	ttl  time.Duration
}

// NewRedis connects to Redis at url and verifies the connection with a PING.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	pool := &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialURLContext(ctx, url,
				redis.DialConnectTimeout(2*time.Second),
				redis.DialReadTimeout(2*time.Second),
				redis.DialWriteTimeout(2*time.Second),
			)
		},
	}

	conn, err := pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{pool: pool, ttl: ttl}, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func (r *Redis) Get(ctx context.Context, id string) (*session.Session, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", sessionKey(id)))
	if err == redis.ErrNil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &sess, nil
}

func (r *Redis) Save(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.ID, err)
	}

	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("SETEX", sessionKey(sess.ID), int(r.ttl.Seconds()), data); err != nil {
		return fmt.Errorf("redis setex: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("DEL", sessionKey(id)); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.pool.Close()
}
