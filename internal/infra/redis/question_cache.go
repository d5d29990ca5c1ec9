package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// PoolLoader fetches a category's question pool from the backing store.
type PoolLoader interface {
	FetchByCategory(ctx context.Context, category domain.Category) ([]domain.Question, error)
}

// QuestionCache caches per-category question pools in Redis as JSON lists:
// SET questions:pool:{category} <json> EX ttl. Cache misses fall through to
// the loader under singleflight so a cold category costs one store round
// trip. Pool order is preserved byte-for-byte, which the daily selection
// depends on.
type QuestionCache struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader PoolLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) FetchByCategory(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	key := poolKey(category)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if pool, err := decodePool(raw); err == nil {
			return pool, nil
		}
		// Corrupt entry; drop it and reload.
		_ = c.client.Del(ctx, key).Err()
	}

	result, err, _ := c.sf.Do(string(category), func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			if pool, err := decodePool(raw); err == nil {
				return pool, nil
			}
		}

		pool, err := c.loader.FetchByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(pool)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err(); err != nil {
			log.Printf("question cache: set %s: %v", key, err)
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached pool for one category, or every category when
// the tag is empty.
func (c *QuestionCache) Invalidate(ctx context.Context, category string) error {
	if category != "" {
		return c.client.Del(ctx, poolKey(domain.Category(category))).Err()
	}
	keys := make([]string, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		keys = append(keys, poolKey(cat))
	}
	return c.client.Del(ctx, keys...).Err()
}

// ListenChanges subscribes to the question change feed and invalidates the
// affected pools until ctx is done. Admin mutations publish the changed
// category (or an empty payload for a bulk import) on the feed.
func (c *QuestionCache) ListenChanges(ctx context.Context) {
	sub := c.client.Subscribe(ctx, QuestionsChangedChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := c.Invalidate(ctx, msg.Payload); err != nil {
					log.Printf("question cache: invalidate %q: %v", msg.Payload, err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func poolKey(category domain.Category) string {
	return "questions:pool:" + string(category)
}

func decodePool(raw []byte) ([]domain.Question, error) {
	var pool []domain.Question
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
