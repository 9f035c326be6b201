package kvstore

import (
	"errors"
	"log"

	"uzhavan/globals"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists session slices in Redis under a common key prefix.
type RedisStore struct {
	conn   *redis.Client
	prefix string
}

func NewRedisStore(conn *redis.Client, prefix string) *RedisStore {
	return &RedisStore{conn: conn, prefix: prefix}
}

func (s *RedisStore) Get(key string) (string, bool) {
	val, err := s.conn.Get(globals.Ctx, s.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("kvstore: get %s failed: %v", key, err)
		}
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(key, value string) {
	if err := s.conn.Set(globals.Ctx, s.prefix+key, value, 0).Err(); err != nil {
		log.Printf("kvstore: set %s failed: %v", key, err)
	}
}

func (s *RedisStore) Delete(key string) {
	if err := s.conn.Del(globals.Ctx, s.prefix+key).Err(); err != nil {
		log.Printf("kvstore: delete %s failed: %v", key, err)
	}
}
