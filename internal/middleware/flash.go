package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// FlashCookieName is the cookie holding pending flash messages
const FlashCookieName = "registrar_flash"

// Flashes loads flash messages left by the previous response into the
// context and clears the cookie, so each message is shown once.
func Flashes(signer *auth.SessionSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeySigner, signer)

		token, err := c.Cookie(FlashCookieName)
		if err == nil && token != "" {
			flashes, err := signer.ParseFlashes(token)
			if err != nil && !errors.Is(err, auth.ErrExpiredToken) {
				logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("Discarding invalid flash cookie")
			}
			if err == nil {
				c.Set(ContextKeyFlashes, flashes)
			}
			setFlashCookie(c, "", -1)
		}

		c.Next()
	}
}

// AddFlash queues a message for the next rendered page. Messages added in the
// same request accumulate.
func AddFlash(c *gin.Context, category, message string) {
	v, _ := c.Get(contextKeySigner)
	signer, ok := v.(*auth.SessionSigner)
	if !ok {
		logger.FromContext(c.Request.Context()).Warn().Str("message", message).Msg("Flash middleware not installed")
		return
	}

	pending, _ := c.Get(contextKeyPendingFlashes)
	flashes, _ := pending.([]auth.Flash)
	flashes = append(flashes, auth.Flash{Category: category, Message: message})
	c.Set(contextKeyPendingFlashes, flashes)

	token, err := signer.SignFlashes(flashes)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("Failed to sign flash messages")
		return
	}
	setFlashCookie(c, token, 0)
}

// GetFlashes returns the messages loaded for this request
func GetFlashes(c *gin.Context) []auth.Flash {
	v, ok := c.Get(ContextKeyFlashes)
	if !ok {
		return nil
	}
	flashes, _ := v.([]auth.Flash)
	return flashes
}

const contextKeyPendingFlashes = "pendingFlashes"

func setFlashCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookieName, value, maxAge, "/", "", c.Request.TLS != nil, true)
}
