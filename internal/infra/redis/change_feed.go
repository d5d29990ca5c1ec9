package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// QuestionsChangedChannel carries question-bank change notifications. The
// payload is the changed category tag, or empty for a bulk change.
const QuestionsChangedChannel = "questions:changed"

// ChangeFeed publishes change notifications after admin mutations so every
// instance's caches converge without polling.
type ChangeFeed struct {
	client *redis.Client
}

func NewChangeFeed(client *redis.Client) *ChangeFeed {
	return &ChangeFeed{client: client}
}

func (f *ChangeFeed) PublishQuestionsChanged(ctx context.Context, category string) error {
	return f.client.Publish(ctx, QuestionsChangedChannel, category).Err()
}
