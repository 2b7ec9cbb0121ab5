// Package cache publishes the per-game move log to Redis so a separate
// historian process can archive and replay games.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. It stays nil when Redis is not
// configured; callers must check before publishing.
var Rdb *redis.Client

const moveQueueKey = "gbridge:moves"

// MoveRecord is one entry in a game's ordered move log.
type MoveRecord struct {
	GameID    uuid.UUID              `json:"gameId"`
	MoveIndex int                    `json:"moveIndex"`
	ActorID   uuid.UUID              `json:"actorId"`
	Type      string                 `json:"type"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp int64                  `json:"timestamp"`
}

// InitRedis connects the shared client and verifies the connection.
func InitRedis(addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	Rdb = client
	logrus.WithField("addr", addr).Info("connected to redis")
	return nil
}

// PublishMove appends the record to the shared move queue.
func PublishMove(ctx context.Context, rec MoveRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal move record: %w", err)
	}
	if err := Rdb.RPush(ctx, moveQueueKey, data).Err(); err != nil {
		return fmt.Errorf("rpush move record: %w", err)
	}
	return nil
}

// MoveHistory returns the most recent moves for a game, newest last.
func MoveHistory(ctx context.Context, gameID uuid.UUID, limit int64) ([]MoveRecord, error) {
	if Rdb == nil {
		return nil, nil
	}
	raw, err := Rdb.LRange(ctx, moveQueueKey, -limit, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange move queue: %w", err)
	}
	var out []MoveRecord
	for _, item := range raw {
		var rec MoveRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		if rec.GameID == gameID {
			out = append(out, rec)
		}
	}
	return out, nil
}
