package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

// LoggerMiddleware log หนึ่งบรรทัดต่อ request หลังตอบเสร็จ
// quietPaths (เช่น /health) log ที่ระดับ debug
func LoggerMiddleware(quietPaths ...string) fiber.Handler {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// ErrorHandler ยังไม่ได้เขียน status ลง response
			status = fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		args := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.IP(),
		}
		if user, uerr := utils.GetUserFromContext(c); uerr == nil {
			args = append(args, "user_id", user.ID)
		}

		ctx := c.UserContext()
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "Request completed", args...)
		case status >= 400:
			logger.WarnContext(ctx, "Request completed", args...)
		default:
			if _, ok := quiet[c.Path()]; ok {
				logger.DebugContext(ctx, "Request completed", args...)
			} else {
				logger.InfoContext(ctx, "Request completed", args...)
			}
		}

		return err
	}
}
