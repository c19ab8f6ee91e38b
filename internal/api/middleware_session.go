package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/registro/internal/services"
)

// SessionRequired resumes the signed session cookie or bootstraps a new
// identity. A failed bootstrap is terminal for the request.
func (handler *Handler) SessionRequired(c *fiber.Ctx) error {
	if raw := strings.TrimSpace(c.Cookies(sessionCookieName)); raw != "" {
		if identity, err := handler.auth.ParseSession(raw); err == nil {
			c.Locals(contextIdentityKey, identity)
			return c.Next()
		}
	}

	identity, err := handler.auth.Bootstrap()
	if err != nil {
		return handler.authFailure(c, err)
	}
	token, err := handler.auth.IssueSession(identity)
	if err != nil {
		return handler.authFailure(c, err)
	}
	handler.setSessionCookie(c, token)

	handler.log.Info("session established", "user_id", identity.UserID, "anonymous", identity.Anonymous)
	c.Locals(contextIdentityKey, identity)
	return c.Next()
}

func (handler *Handler) authFailure(c *fiber.Ctx, err error) error {
	handler.log.Error("identity bootstrap failed", "error", err)
	if strings.HasPrefix(c.Path(), "/api/") {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	return handler.render(c, "auth_error", fiber.StatusUnauthorized, authErrorView{
		Lang:     currentLanguage(c),
		Messages: currentMessages(c),
	})
}

func (handler *Handler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(services.SessionTokenTTL),
	})
}

func currentIdentity(c *fiber.Ctx) (services.Identity, bool) {
	identity, ok := c.Locals(contextIdentityKey).(services.Identity)
	return identity, ok && identity.UserID != ""
}
