package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

const visitorIdleTimeout = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter จำกัด request ต่อ IP (token bucket) ใช้กับ login/register
func RateLimiter(r rate.Limit, b int) fiber.Handler {
	var (
		visitors = make(map[string]*visitor)
		mu       sync.Mutex
	)

	getVisitor := func(ip string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		// ล้าง IP ที่ไม่ได้ใช้นาน
		for key, v := range visitors {
			if now.Sub(v.lastSeen) > visitorIdleTimeout {
				delete(visitors, key)
			}
		}

		v, exists := visitors[ip]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(r, b)}
			visitors[ip] = v
		}
		v.lastSeen = now
		return v.limiter
	}

	return func(c *fiber.Ctx) error {
		if !getVisitor(c.IP(), time.Now()).Allow() {
			logger.WarnContext(c.UserContext(), "Rate limit exceeded", "ip", c.IP(), "path", c.Path())
			return utils.TooManyRequestsResponse(c)
		}
		return c.Next()
	}
}
