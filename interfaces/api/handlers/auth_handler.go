package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/services"
	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

// CookieConfig cookie ที่เก็บ JWT ให้ browser (ใช้คู่กับ redirect ไปหน้า login)
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	userService services.UserService
	cookie      CookieConfig
}

func NewAuthHandler(userService services.UserService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cookie:      cookie,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateUserRequest
	if ok, err := bindAndValidate(c, ctx, &req); !ok {
		return err
	}

	logger.InfoContext(ctx, "Registration attempt", "username", req.Username)

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		return respondError(c, ctx, "Registration", err)
	}

	token, err := h.userService.GenerateJWT(user)
	if err != nil {
		return respondError(c, ctx, "Registration token", err)
	}
	h.setAuthCookie(c, token)

	return utils.CreatedResponse(c, &dto.RegisterResponse{
		Token: token,
		User:  *dto.UserToUserResponse(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if ok, err := bindAndValidate(c, ctx, &req); !ok {
		return err
	}

	token, user, err := h.userService.Login(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Login failed", "reason", err.Error())
		return respondError(c, ctx, "Login", err)
	}
	h.setAuthCookie(c, token)

	return utils.SuccessResponse(c, &dto.LoginResponse{
		Token: token,
		User:  *dto.UserToUserResponse(user),
	})
}

// Logout JWT เป็น stateless; ล้างแค่ cookie
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	// Optional middleware: มี user เฉพาะตอนส่ง token มาด้วย
	if user, err := utils.GetUserFromContext(c); err == nil {
		logger.InfoContext(c.UserContext(), "User logged out", "user_id", user.ID)
	}
	return utils.MessageResponse(c, "Logged out", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	profile, err := h.userService.GetProfile(ctx, user.ID)
	if err != nil {
		return respondError(c, ctx, "Me", err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(profile))
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	if h.cookie.Name == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.cookie.TTL),
	})
}
