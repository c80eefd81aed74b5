package ports

import (
	"context"
	"time"
)

// CachePort - Interface สำหรับ read-through cache (Redis)
type CachePort interface {
	GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error
	// Invalidate ลบ key; การโหลดที่ค้างอยู่ต้องไม่เขียนค่าเก่ากลับ
	Invalidate(ctx context.Context, keys ...string) error
}
