package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qpaper/internal/pkg/logger"
)

// CookieName is the cookie carrying flash messages across a redirect
const CookieName = "qpaper_flash"

// Flash categories, rendered as alert-<category>
const (
	CategorySuccess = "success"
	CategoryError   = "error"
	CategoryWarning = "warning"
	CategoryInfo    = "info"
)

const (
	contextKey = "flash.pending"
	secureKey  = "flash.secure"
)

// Cookies marks the flash cookie Secure for every request it wraps, matching the session cookie
func Cookies(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(secureKey, secure)
		c.Next()
	}
}

// Message is a one-shot status message
type Message struct {
	Category string `json:"category"`
	Text     string `json:"message"`
}

// Add queues a message for the next rendered page
func Add(c *gin.Context, category, text string) {
	pending := append(pendingMessages(c), Message{Category: category, Text: text})
	c.Set(contextKey, pending)
	writeCookie(c, pending)
}

// Success queues a success message
func Success(c *gin.Context, text string) { Add(c, CategorySuccess, text) }

// Error queues an error message
func Error(c *gin.Context, text string) { Add(c, CategoryError, text) }

// Warning queues a warning message
func Warning(c *gin.Context, text string) { Add(c, CategoryWarning, text) }

// Pop returns every queued message and clears them
func Pop(c *gin.Context) []Message {
	messages := pendingMessages(c)
	c.Set(contextKey, []Message{})
	if _, err := c.Cookie(CookieName); err == nil || len(messages) > 0 {
		clearCookie(c)
	}
	return messages
}

// pendingMessages returns messages queued in this request, seeded from the request cookie once
func pendingMessages(c *gin.Context) []Message {
	if v, ok := c.Get(contextKey); ok {
		if messages, ok := v.([]Message); ok {
			return messages
		}
	}

	messages := decode(c)
	c.Set(contextKey, messages)
	return messages
}

func decode(c *gin.Context) []Message {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return []Message{}
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		logger.Debug().Err(err).Msg("Discarding malformed flash cookie")
		return []Message{}
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		logger.Debug().Err(err).Msg("Discarding undecodable flash cookie")
		return []Message{}
	}
	return messages
}

func writeCookie(c *gin.Context, messages []Message) {
	data, err := json.Marshal(messages)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode flash messages")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, base64.RawURLEncoding.EncodeToString(data), 0, "/", "", c.GetBool(secureKey), true)
}

func clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", c.GetBool(secureKey), true)
}
