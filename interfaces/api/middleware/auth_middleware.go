package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

// AuthConfig ค่าที่ Protected/Optional ใช้
type AuthConfig struct {
	JWTSecret  string
	LoginURL   string
	CookieName string
	// AllowQueryToken รับ ?token= ด้วย ใช้กับ /ws เท่านั้น (browser websocket ตั้ง header ไม่ได้)
	AllowQueryToken bool
}

// Protected middleware validates JWT tokens and sets user context
// ไม่มี token: client ที่ขอ HTML ถูก redirect ไปหน้า login, API client ได้ 401
func Protected(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c, cfg)
		if token == "" {
			return unauthenticated(c, cfg, "Missing authorization token")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, cfg.JWTSecret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "path", c.Path(), "error", err)
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return unauthenticated(c, cfg, "Token has expired")
			default:
				return unauthenticated(c, cfg, "Invalid token")
			}
		}

		c.Locals(utils.UserContextKey, userCtx)
		c.SetUserContext(logger.ContextWithUserID(c.UserContext(), userCtx.ID.String()))
		return c.Next()
	}
}

// Optional middleware that doesn't require authentication but sets user context if token is present
func Optional(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c, cfg)
		if token == "" {
			return c.Next()
		}

		if userCtx, err := utils.ValidateTokenStringToUUID(token, cfg.JWTSecret); err == nil {
			c.Locals(utils.UserContextKey, userCtx)
			c.SetUserContext(logger.ContextWithUserID(c.UserContext(), userCtx.ID.String()))
		}
		return c.Next()
	}
}

// extractToken ลำดับ: Authorization header, cookie, ?token= (เฉพาะเมื่อ AllowQueryToken)
func extractToken(c *fiber.Ctx, cfg AuthConfig) string {
	if token := utils.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization)); token != "" {
		return token
	}
	if cfg.CookieName != "" {
		if token := c.Cookies(cfg.CookieName); token != "" {
			return token
		}
	}
	if cfg.AllowQueryToken {
		return c.Query("token")
	}
	return ""
}

func unauthenticated(c *fiber.Ctx, cfg AuthConfig, message string) error {
	if wantsHTML(c) && cfg.LoginURL != "" {
		return c.Redirect(cfg.LoginURL, fiber.StatusFound)
	}
	return utils.ErrorResponse(c, fiber.StatusUnauthorized, utils.ErrCodeUnauthorized, message, fiber.Map{
		"login": cfg.LoginURL,
	})
}

func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}
