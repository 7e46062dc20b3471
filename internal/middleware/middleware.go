package middleware

import (
	"errors"
	"strings"
	"time"

	"recipe-feed/domain"
	"recipe-feed/internal/api/presenters"
	"recipe-feed/internal/utils"
	"recipe-feed/pkg/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(sessionService session.SessionService) fiber.Handler
		OptionalAuthMiddleware(sessionService session.SessionService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	origins := utils.GetConfig("APP_URL")
	if origins == "" {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete}, ","),
	})
}

// AuthMiddleware rejects requests without a valid session cookie.
func (m *middleware) AuthMiddleware(sessionService session.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := resolveSession(c, sessionService)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthorized, domain.ErrUnauthorized)
		}
		setLocals(c, info)
		return c.Next()
	}
}

// OptionalAuthMiddleware attaches the session when there is one and lets
// anonymous requests through.
func (m *middleware) OptionalAuthMiddleware(sessionService session.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := resolveSession(c, sessionService)
		if err == nil {
			setLocals(c, info)
		} else {
			c.Locals("user_id", "")
		}
		return c.Next()
	}
}

func resolveSession(c *fiber.Ctx, sessionService session.SessionService) (domain.SessionInfo, error) {
	sessionID := c.Cookies(domain.SessionCookieName)
	if sessionID == "" {
		return domain.SessionInfo{}, domain.ErrSessionNotFound
	}

	info, err := sessionService.ValidateSession(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
			ClearSessionCookie(c)
		} else {
			log.Errorf("failed to validate session: %v", err)
		}
		return domain.SessionInfo{}, err
	}

	if info.Fresh {
		SetSessionCookie(c, info)
	}
	return info, nil
}

func setLocals(c *fiber.Ctx, info domain.SessionInfo) {
	c.Locals("user_id", info.UserID)
	c.Locals("session", info)
}

func SetSessionCookie(c *fiber.Ctx, info domain.SessionInfo) {
	c.Cookie(&fiber.Cookie{
		Name:     domain.SessionCookieName,
		Value:    info.SessionID,
		Path:     "/",
		Expires:  info.ExpiresAt,
		HTTPOnly: true,
		Secure:   utils.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   utils.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionFromLocals returns the session set by the auth middlewares.
func SessionFromLocals(c *fiber.Ctx) (domain.SessionInfo, bool) {
	info, ok := c.Locals("session").(domain.SessionInfo)
	return info, ok
}
