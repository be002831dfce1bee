package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/eduplatform-api/pkg/config"
)

const (
	keyPrefix   = "eduplatform"
	pingTimeout = 5 * time.Second
)

// MemberCountKey holds the hash of class code to member count.
var MemberCountKey = Key("class", "member_counts")

// Key joins parts under the application namespace.
func Key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}

// NewRedis returns a connected Redis client. A disabled configuration yields a nil
// client, which the cache layer treats as a permanent miss.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}
