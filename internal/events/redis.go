// Package events publishes board updates over Redis pub/sub so external
// consumers (SSE gateway, board views) can refresh without polling.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"youngtalents/pipeline-service/internal/funnel"
)

// ChannelCandidateMoved carries one JSON payload per applied move.
const ChannelCandidateMoved = "EVENT_CANDIDATE_MOVED"

// RedisPublisher implements funnel.EventPublisher over Redis pub/sub.
type RedisPublisher struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewRedisPublisher wires a publisher. A nil logger falls back to
// slog.Default.
func NewRedisPublisher(rdb *redis.Client, log *slog.Logger) *RedisPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &RedisPublisher{rdb: rdb, log: log}
}

// CandidateMoved publishes the move event. Failures are logged and
// swallowed; the move itself has already been applied.
func (p *RedisPublisher) CandidateMoved(ctx context.Context, candidateID string, from, to funnel.Stage) {
	event, _ := json.Marshal(map[string]string{
		"type":        ChannelCandidateMoved,
		"candidateId": candidateID,
		"from":        string(from),
		"to":          string(to),
	})
	if err := p.rdb.Publish(ctx, ChannelCandidateMoved, event).Err(); err != nil {
		p.log.Warn("publish EVENT_CANDIDATE_MOVED failed", "err", err)
	}
}
