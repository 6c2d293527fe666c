package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"checkers/internal/domain/game"
	errors2 "checkers/internal/errors"
)

type RedisSessionStorage struct {
	client *redis.Client
	log    *zap.SugaredLogger
	ttl    time.Duration
}

func NewSessionRedisStorage(redis *redis.Client, log *zap.SugaredLogger, ttl time.Duration) *RedisSessionStorage {
	c := &RedisSessionStorage{
		client: redis,
		log:    log,
		ttl:    ttl,
	}
	return c
}

func sessionKey(token string) string {
	return "session:" + token
}

func (r RedisSessionStorage) GetSession(ctx context.Context, token string) (game.Session, error) {
	v, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return game.Session{}, errors2.ErrSessionNotFound
		}
		r.log.Error(err)
		return game.Session{}, err
	}
	var session game.Session
	if err = json.Unmarshal(v, &session); err != nil {
		r.log.Errorf("broken session %s: %v", token, err)
		return game.Session{}, errors2.ErrSessionNotFound
	}
	return session, nil
}

func (r RedisSessionStorage) StoreSession(ctx context.Context, session game.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.Token), raw, r.ttl).Err()
}

func (r RedisSessionStorage) DeleteSession(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}
