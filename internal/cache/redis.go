// Package cache provides an optional Redis read cache for session
// snapshots. Every connected client polls its session on a fixed
// interval; the cache absorbs that fan-in so the relational store only
// sees one read per session per TTL. The TTL stays under the polling
// interval, keeping convergence "eventual within one poll".
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ewhitmore/cardtable/internal/models"
)

// SessionCache caches full session snapshots keyed by session id.
type SessionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect initializes a Redis client and verifies the connection.
func Connect(ctx context.Context, addr string, db int, ttl time.Duration) (*SessionCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return &SessionCache{rdb: rdb, ttl: ttl}, nil
}

func key(id string) string {
	return "cardtable:session:" + id
}

// Get returns the cached session snapshot, or ok=false on a miss or any
// cache failure. The cache is best-effort; callers fall through to the
// store.
func (c *SessionCache) Get(ctx context.Context, id string) (*models.GameSession, bool) {
	data, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var session models.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false
	}
	return &session, true
}

// Put writes a session snapshot through to the cache. Failures are
// swallowed: a cold cache only costs an extra store read.
func (c *SessionCache) Put(ctx context.Context, session *models.GameSession) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key(session.ID), data, c.ttl).Err()
}

// Close releases the underlying Redis client.
func (c *SessionCache) Close() {
	_ = c.rdb.Close()
}
