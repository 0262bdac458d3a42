package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SenderProfile is the slice of a user shown on a notification row. Profiles
// change rarely, so a short TTL keeps the list endpoint off the users table.
type SenderProfile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type (
	ProfileCache interface {
		Get(ctx context.Context, userID string) (*SenderProfile, error)
		Set(ctx context.Context, userID string, profile *SenderProfile) error
	}

	redisProfileCache struct {
		client *redis.Client
		ttl    time.Duration
	}
)

const profileCacheTTL = 15 * time.Minute

func NewRedisProfileCache(client *redis.Client) ProfileCache {
	return &redisProfileCache{client: client, ttl: profileCacheTTL}
}

func profileKey(userID string) string {
	return fmt.Sprintf("notif:sender:%s", userID)
}

func (c *redisProfileCache) Get(ctx context.Context, userID string) (*SenderProfile, error) {
	raw, err := c.client.Get(ctx, profileKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var profile SenderProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *redisProfileCache) Set(ctx context.Context, userID string, profile *SenderProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(userID), raw, c.ttl).Err()
}
