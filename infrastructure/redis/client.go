package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"gofiber-todo/pkg/config"
	"gofiber-todo/pkg/logger"
)

const (
	lockTTL       = 10 * time.Second
	lockWait      = 100 * time.Millisecond
	lockMaxWaits  = 20
	lockKeyPrefix = "lock:"
	genKeyPrefix  = "gen:"
	genTTL        = 24 * time.Hour
)

// Client wraps the Redis client (read-through cache ของหน้า categories)
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client from config
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opt.DB = cfg.DB
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	logger.Info("Redis connected", "addr", opt.Addr, "db", opt.DB)

	return &Client{rdb: rdb}, nil
}

// NewClientFromRedis ใช้ *redis.Client ที่สร้างไว้แล้ว
func NewClientFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Invalidate ลบ key และเพิ่ม generation ของ key นั้น
// GetOrSet ที่โหลดค้างอยู่ตอนนี้จะไม่เขียนค่าเก่ากลับลงไป
func (c *Client) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, genKeyPrefix+key)
			pipe.Expire(ctx, genKeyPrefix+key, genTTL)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping tests the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// JSON Cache Helpers
// ═══════════════════════════════════════════════════════════════════════════════

// GetJSON retrieves a JSON value and unmarshals it into the target
// Returns redis.Nil error if key does not exist
func (c *Client) GetJSON(ctx context.Context, key string, target interface{}) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// GetOrSet อ่านจาก cache ถ้าไม่มีให้ getter โหลดแล้วเก็บ
// ใช้ lock กันหลาย request โหลดพร้อมกัน; รอ lock ไม่เกิน lockMaxWaits รอบแล้วโหลดเอง
// Redis ล่มไม่ทำให้ request fail: เรียก getter ตรงๆ ไม่ cache
func (c *Client) GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error {
	lockKey := lockKeyPrefix + key

	for attempt := 0; ; attempt++ {
		err := c.GetJSON(ctx, key, target)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Cache read failed, loading directly", "key", key, "error", err)
			return loadInto(target, getter)
		}

		locked, err := c.rdb.SetNX(ctx, lockKey, "1", lockTTL).Result()
		if err != nil {
			logger.Warn("Cache lock failed, loading directly", "key", key, "error", err)
			return loadInto(target, getter)
		}
		if locked {
			defer c.rdb.Del(ctx, lockKey)
			break
		}
		if attempt >= lockMaxWaits {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockWait):
		}
	}

	gen, err := c.generation(ctx, key)
	if err != nil {
		logger.Warn("Cache generation read failed, loading directly", "key", key, "error", err)
		return loadInto(target, getter)
	}

	result, err := getter()
	if err != nil {
		return err
	}

	if err := c.setIfGeneration(ctx, key, gen, result, ttl); err != nil {
		if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
			logger.Debug("Cache invalidated during load, skip write", "key", key)
		} else {
			logger.Warn("Failed to cache result", "key", key, "error", err)
		}
	}

	return copyInto(target, result)
}

var errStaleGeneration = errors.New("cache generation changed")

func (c *Client) generation(ctx context.Context, key string) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKeyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// setIfGeneration เขียนเฉพาะเมื่อไม่มี Invalidate เกิดขึ้นระหว่างโหลด (WATCH gen key)
func (c *Client) setIfGeneration(ctx context.Context, key string, gen int64, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	genKey := genKeyPrefix + key
	return c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, genKey)
}

func loadInto(target interface{}, getter func() (interface{}, error)) error {
	result, err := getter()
	if err != nil {
		return err
	}
	return copyInto(target, result)
}

func copyInto(target interface{}, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
