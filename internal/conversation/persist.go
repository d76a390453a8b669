package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hera-assistant/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisPersister keeps a JSON snapshot of each conversation context in
// Redis so contexts survive process restarts and LRU eviction.
type RedisPersister struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPersister(rdb *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{rdb: rdb, ttl: ttl}
}

func contextKey(conversationID string) string {
	return "assistant:ctx:" + conversationID
}

func (p *RedisPersister) Save(ctx context.Context, cc *model.ConversationContext) error {
	data, err := json.Marshal(cc)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	if err := p.rdb.Set(ctx, contextKey(cc.ConversationID), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("save context: %w", err)
	}
	return nil
}

func (p *RedisPersister) Load(ctx context.Context, conversationID string) (*model.ConversationContext, error) {
	data, err := p.rdb.Get(ctx, contextKey(conversationID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load context: %w", err)
	}

	var cc model.ConversationContext
	if err := json.Unmarshal(data, &cc); err != nil {
		return nil, fmt.Errorf("decode context: %w", err)
	}
	return &cc, nil
}
