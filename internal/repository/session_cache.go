package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sgsprojects/timesheet-api/internal/servicelayer"
)

const sessionKeyPrefix = "sgsapi:slsession:"

// SessionCache maps caller keys to their ERP session id and routing
// cookie. Redis is not authoritative for session validity, the ERP is;
// the TTL just keeps entries from outliving the ERP's own timeout.
type SessionCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewSessionCache creates a session cache with the given entry TTL. The
// TTL must stay below the ERP session timeout.
func NewSessionCache(redisClient *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{redisClient: redisClient, ttl: ttl}
}

// Put stores the session for a caller key, overwriting any previous one.
func (c *SessionCache) Put(ctx context.Context, callerKey string, session *servicelayer.Session) error {
	key := sessionKeyPrefix + callerKey
	pipe := c.redisClient.TxPipeline()
	pipe.HSet(ctx, key, "session_id", session.ID, "route_id", session.RouteID)
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns the cached session for a caller key, or ok=false when the
// entry is absent or expired.
func (c *SessionCache) Get(ctx context.Context, callerKey string) (*servicelayer.Session, bool, error) {
	values, err := c.redisClient.HGetAll(ctx, sessionKeyPrefix+callerKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(values) == 0 || values["session_id"] == "" {
		return nil, false, nil
	}
	return &servicelayer.Session{ID: values["session_id"], RouteID: values["route_id"]}, true, nil
}

// Delete drops the cached session for a caller key.
func (c *SessionCache) Delete(ctx context.Context, callerKey string) error {
	return c.redisClient.Del(ctx, sessionKeyPrefix+callerKey).Err()
}
