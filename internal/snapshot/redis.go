package snapshot

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// Redis stores the document under one fixed key with no TTL.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(addr string, password string, db int, key string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Redis{client: client, key: key}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	doc, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, ErrEmpty
	}
	return doc, nil
}

func (r *Redis) Save(ctx context.Context, doc []byte) error {
	return r.client.Set(ctx, r.key, doc, 0).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
