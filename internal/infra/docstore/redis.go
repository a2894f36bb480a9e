package docstore

import (
	"context"

	goredis "github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "coinwatch:doc:"

// RedisStore keeps each document under one key; SET replaces the value in one
// step, which is all the atomicity the engine needs.
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, data []byte) error {
	return s.client.Set(ctx, redisKeyPrefix+name, data, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
