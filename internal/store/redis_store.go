package store

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/modserve-project/modserve-go/pkg/logger"
)

const defaultRedisExpiry = 30 * time.Minute

// RedisProvider backs named stores with Redis hashes, one hash per store.
// Values are JSON-encoded.
type RedisProvider struct {
	client *redis.Client
	ctx    context.Context
}

func (p *RedisProvider) InitStores() {
	p.ctx = context.Background()
	p.client = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

func (p *RedisProvider) GetValue(storeName, key string) (interface{}, bool) {
	val, err := p.client.HGet(p.ctx, storeName, applyKeyPrefix(key)).Result()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		logger.Errorf("failed to get store item: %v", err)
		return nil, false
	}
	var value interface{}
	if err := json.Unmarshal([]byte(val), &value); err != nil {
		logger.Errorf("failed to unmarshal store value: %v", err)
		return nil, false
	}
	return value, true
}

func (p *RedisProvider) StoreValue(storeName, key string, value interface{}) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("failed to marshal store value: %v", err)
		return
	}
	if err := p.client.HSet(p.ctx, storeName, applyKeyPrefix(key), valueBytes).Err(); err != nil {
		logger.Errorf("failed to set store item: %v", err)
		return
	}
	if err := p.client.Expire(p.ctx, storeName, expiration()).Err(); err != nil {
		logger.Errorf("failed to set store expiration: %v", err)
	}
}

func (p *RedisProvider) GetAllValues(storeName, prefix string) map[string]interface{} {
	vals, err := p.client.HGetAll(p.ctx, storeName).Result()
	if err != nil {
		logger.Errorf("failed to list store items: %v", err)
		return nil
	}
	prefixToMatch := applyKeyPrefix(prefix)
	result := make(map[string]interface{})
	for k, raw := range vals {
		if len(prefixToMatch) > 0 && len(k) >= len(prefixToMatch) && k[:len(prefixToMatch)] != prefixToMatch {
			continue
		}
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			logger.Errorf("failed to unmarshal store value: %v", err)
			continue
		}
		result[removeKeyPrefix(k)] = value
	}
	return result
}

func (p *RedisProvider) DeleteValue(storeName, key string) {
	if err := p.client.HDel(p.ctx, storeName, applyKeyPrefix(key)).Err(); err != nil {
		logger.Errorf("failed to delete store item: %v", err)
	}
}

func (p *RedisProvider) DeleteStore(storeName string) {
	if err := p.client.Del(p.ctx, storeName).Err(); err != nil {
		logger.Errorf("failed to delete store: %v", err)
	}
}

// expiration returns the hash TTL, configurable via
// MODSERVE_STORE_REDIS_EXPIRY as a Go duration string.
func expiration() time.Duration {
	if raw := os.Getenv("MODSERVE_STORE_REDIS_EXPIRY"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
		logger.Warnf("invalid MODSERVE_STORE_REDIS_EXPIRY, using default")
	}
	return defaultRedisExpiry
}
