package broker

import (
	"context"
	"encoding/json"
	"log"

	"courseplatform/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ProgressBroker гоняет события генерации через redis pub/sub.
// Канал на пользователя: подписка живёт от Subscribe до Close, никакого
// глобального реестра подписчиков в процессе нет.
type ProgressBroker struct {
	rdb *redis.Client
}

func NewProgressBroker(rdb *redis.Client) *ProgressBroker {
	return &ProgressBroker{rdb: rdb}
}

func channelFor(userID string) string {
	return "generation:progress:" + userID
}

func (b *ProgressBroker) Publish(ctx context.Context, userID string, progress domain.GenerationProgress) {
	data, err := json.Marshal(progress)
	if err != nil {
		return
	}
	if err := b.rdb.Publish(ctx, channelFor(userID), data).Err(); err != nil {
		log.Printf("Failed to publish progress for user %s: %v", userID, err)
	}
}

type Subscription struct {
	pubsub *redis.PubSub
	events chan domain.GenerationProgress
}

// Events закрывается после Close()
func (s *Subscription) Events() <-chan domain.GenerationProgress {
	return s.events
}

func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

func (b *ProgressBroker) Subscribe(ctx context.Context, userID string) *Subscription {
	pubsub := b.rdb.Subscribe(ctx, channelFor(userID))

	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan domain.GenerationProgress, 16),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			var progress domain.GenerationProgress
			if err := json.Unmarshal([]byte(msg.Payload), &progress); err != nil {
				continue
			}
			sub.events <- progress
		}
	}()

	return sub
}
