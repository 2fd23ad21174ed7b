package maillogsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/maildeck/maildeck/pkg/logx"
	"github.com/maildeck/maildeck/pkg/maillog"
	"github.com/redis/go-redis/v9"
)

// RedisQuota caps accepted send requests per calendar day using a Redis
// counter keyed by date. The counter survives process restarts, so the cap
// holds across deploys.
type RedisQuota struct {
	client *redis.Client
	limit  int
}

// NewRedisQuota creates a quota allowing limit sends per day.
func NewRedisQuota(client *redis.Client, limit int) *RedisQuota {
	return &RedisQuota{client: client, limit: limit}
}

// Allow increments today's counter and rejects once the limit is passed.
// A Redis outage fails open: quota enforcement is best effort and must not
// take mail dispatch down with it.
func (q *RedisQuota) Allow(ctx context.Context) error {
	key := fmt.Sprintf("maildeck:sends:%s", time.Now().Format("2006-01-02"))

	count, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		logx.Warnf("maillog: quota check skipped, redis unavailable: %v", err)
		return nil
	}
	if count == 1 {
		q.client.Expire(ctx, key, 48*time.Hour)
	}
	if count > int64(q.limit) {
		return maillog.NewError(maillog.ErrQuotaExceeded).
			WithDetail("limit", q.limit)
	}
	return nil
}
