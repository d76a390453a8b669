package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Bus struct {
	rdb     *redis.Client
	log     *zap.Logger
	ctx     context.Context
	history *History
}

func New(rdb *redis.Client, log *zap.Logger) *Bus {
	return &Bus{
		rdb:     rdb,
		log:     log,
		ctx:     context.Background(),
		history: NewHistory(rdb, log),
	}
}

// GetHistory returns the stream-backed history provider
func (b *Bus) GetHistory() *History {
	return b.history
}

// PublishConversation publishes an event to a conversation's channel
func (b *Bus) PublishConversation(conversationID string, event map[string]interface{}) error {
	channel := "conversation:" + conversationID
	return b.Publish(channel, event)
}

// PublishOrganization publishes an event to an organization's channel
func (b *Bus) PublishOrganization(organizationID string, event map[string]interface{}) error {
	channel := "org:" + organizationID
	return b.Publish(channel, event)
}

// Publish publishes an event to a channel
func (b *Bus) Publish(channel string, event map[string]interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Publish to Redis pub/sub
	err = b.rdb.Publish(b.ctx, channel, data).Err()
	if err != nil {
		b.log.Error("Failed to publish event", zap.String("channel", channel), zap.Error(err))
		return err
	}

	// Also append to Redis Streams for replay
	seq, err := b.history.Append(channel, event)
	if err != nil {
		b.log.Warn("Failed to append to stream", zap.String("channel", channel), zap.Error(err))
		// Continue even if stream append fails
	}

	b.log.Debug("Published event", zap.String("channel", channel), zap.Int64("seq", seq), zap.String("event", string(data)))
	return nil
}
