package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamEvent is one event stored in a channel's Redis Stream
type StreamEvent struct {
	Channel   string                 `json:"channel"`
	Sequence  int64                  `json:"seq"`
	Event     map[string]interface{} `json:"event"`
	Timestamp time.Time              `json:"timestamp"`
}

// History keeps a replayable per-channel event log in Redis Streams.
// Conversation channels double as the conversation transcript.
type History struct {
	rdb *redis.Client
	log *zap.Logger
	ctx context.Context
}

func NewHistory(rdb *redis.Client, log *zap.Logger) *History {
	return &History{
		rdb: rdb,
		log: log,
		ctx: context.Background(),
	}
}

// Append appends an event to the channel's stream with a monotonic
// per-channel sequence number
func (h *History) Append(channel string, event map[string]interface{}) (int64, error) {
	streamKey := fmt.Sprintf("stream:%s", channel)

	seq, err := h.rdb.Incr(h.ctx, fmt.Sprintf("seq:%s", channel)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	eventWithSeq := make(map[string]interface{}, len(event)+3)
	for k, v := range event {
		eventWithSeq[k] = v
	}
	eventWithSeq["seq"] = seq
	eventWithSeq["channel"] = channel
	eventWithSeq["timestamp"] = time.Now().Format(time.RFC3339)

	data, err := json.Marshal(eventWithSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = h.rdb.XAdd(h.ctx, &redis.XAddArgs{
		Stream: streamKey,
		ID:     "*",
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to add to stream: %w", err)
	}

	return seq, nil
}

// ListConversation returns the conversation channel's events in order,
// up to limit entries
func (h *History) ListConversation(conversationID string, limit int64) ([]StreamEvent, error) {
	return h.List("conversation:"+conversationID, limit)
}

// List reads a channel's stream from the beginning
func (h *History) List(channel string, limit int64) ([]StreamEvent, error) {
	streamKey := fmt.Sprintf("stream:%s", channel)

	msgs, err := h.rdb.XRangeN(h.ctx, streamKey, "-", "+", limit).Result()
	if err == redis.Nil {
		return []StreamEvent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	events := make([]StreamEvent, 0, len(msgs))
	for _, msg := range msgs {
		data, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}

		var eventData map[string]interface{}
		if err := json.Unmarshal([]byte(data), &eventData); err != nil {
			h.log.Warn("Failed to unmarshal stream event", zap.Error(err))
			continue
		}

		seq, _ := eventData["seq"].(float64)
		channelName, _ := eventData["channel"].(string)
		timestampStr, _ := eventData["timestamp"].(string)

		var timestamp time.Time
		if timestampStr != "" {
			timestamp, _ = time.Parse(time.RFC3339, timestampStr)
		}
		if timestamp.IsZero() {
			timestamp = time.Now()
		}

		event := make(map[string]interface{})
		for k, v := range eventData {
			if k != "seq" && k != "channel" && k != "timestamp" {
				event[k] = v
			}
		}

		events = append(events, StreamEvent{
			Channel:   channelName,
			Sequence:  int64(seq),
			Event:     event,
			Timestamp: timestamp,
		})
	}

	return events, nil
}
