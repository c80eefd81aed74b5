package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gofiber-todo/pkg/logger"
)

const (
	RequestIDHeader   = "X-Request-ID"
	maxRequestIDLen   = 128
	requestIDLocalKey = "request_id"
)

// RequestIDMiddleware ใช้ X-Request-ID จาก client ถ้ามี ไม่งั้นสร้างใหม่
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDHeader, requestID)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), requestID))
		c.Locals(requestIDLocalKey, requestID)

		return c.Next()
	}
}

// GetRequestIDFromContext ดึง request ID จาก fiber context
func GetRequestIDFromContext(c *fiber.Ctx) string {
	if requestID, ok := c.Locals(requestIDLocalKey).(string); ok {
		return requestID
	}
	return ""
}
