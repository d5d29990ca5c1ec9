package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/alphamano814/exam-jyoti/internal/app"
	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// LeaderboardCache fronts a LeaderboardReader with a short-lived JSON
// snapshot per requested page size. The leaderboard tolerates slightly stale
// reads; writes always go straight to the store's atomic increment.
type LeaderboardCache struct {
	client *redis.Client
	reader app.LeaderboardReader
	ttl    time.Duration
	sf     singleflight.Group
}

func NewLeaderboardCache(client *redis.Client, reader app.LeaderboardReader, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, reader: reader, ttl: ttl}
}

func (c *LeaderboardCache) TopRows(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	key := fmt.Sprintf("leaderboard:top:%d", limit)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var rows []domain.LeaderboardRow
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		rows, err := c.reader.TopRows(ctx, limit)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(rows); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Printf("leaderboard cache: set %s: %v", key, err)
			}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.LeaderboardRow), nil
}
