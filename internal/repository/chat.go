package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"checkers/internal/domain/game"
)

// ChatStorage keeps the last messages of every game in a capped Redis list.
type ChatStorage struct {
	client *redis.Client
	log    *zap.SugaredLogger
	limit  int64
	ttl    time.Duration
}

func NewChatStorage(client *redis.Client, log *zap.SugaredLogger, limit int64, ttl time.Duration) *ChatStorage {
	return &ChatStorage{client: client, log: log, limit: limit, ttl: ttl}
}

func chatKey(gameKey string) string {
	return "chat:" + gameKey
}

func (c *ChatStorage) AppendMessage(ctx context.Context, gameKey string, msg game.ChatMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := chatKey(gameKey)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, raw)
		pipe.LTrim(ctx, key, -c.limit, -1)
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	return err
}

func (c *ChatStorage) History(ctx context.Context, gameKey string) ([]game.ChatMessage, error) {
	items, err := c.client.LRange(ctx, chatKey(gameKey), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	history := make([]game.ChatMessage, 0, len(items))
	for _, item := range items {
		var msg game.ChatMessage
		if err = json.Unmarshal([]byte(item), &msg); err != nil {
			c.log.Warnf("skipping broken chat message of game %s: %v", gameKey, err)
			continue
		}
		history = append(history, msg)
	}
	return history, nil
}
